package editor

import (
	"errors"
	"fmt"
	"image"

	"github.com/example/drawpad/internal/bitmap"
	"github.com/example/drawpad/internal/crop"
	"github.com/example/drawpad/internal/scene"
)

// BeginInlineCrop enters rectangle cropping over the selected image. The
// next pointer gesture draws the crop rectangle.
func (e *Editor) BeginInlineCrop() error {
	var err error
	e.update(func() bool {
		if e.state != StateIdle {
			err = ErrBusy
			return false
		}
		if _, err = e.selectedImageLocked(); err != nil {
			return false
		}
		e.state = StateCroppingRect
		e.cropping = false
		return true
	})
	return err
}

// SetCropRect sets the inline crop rectangle in surface coordinates.
func (e *Editor) SetCropRect(a, b scene.Point) {
	e.update(func() bool {
		if e.state != StateCroppingRect {
			return false
		}
		e.cropping = true
		e.cropA, e.cropB = a, b
		return true
	})
}

// CropRect returns the inline crop rectangle in surface coordinates.
func (e *Editor) CropRect() (scene.Rect, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateCroppingRect || !e.cropping {
		return scene.Rect{}, false
	}
	return scene.RectFromPoints(e.cropA, e.cropB), true
}

// ApplyInlineCrop replaces the selected image with the part under the crop
// rectangle. An empty rectangle leaves the image untouched and returns
// crop.ErrEmpty. Either way the editor returns to idle.
func (e *Editor) ApplyInlineCrop() error {
	var err error
	e.update(func() bool {
		if e.state != StateCroppingRect {
			err = fmt.Errorf("crop: %w", ErrBusy)
			return false
		}
		a, b, started := e.cropA, e.cropB, e.cropping
		e.state = StateIdle
		e.cropping = false
		if !started {
			err = crop.ErrEmpty
			return true
		}
		var s scene.Shape
		if s, err = e.selectedImageLocked(); err != nil {
			return true
		}
		src, ok := e.bitmaps.Get(s.Bitmap)
		if !ok {
			err = fmt.Errorf("crop: image %s has no bitmap", s.ID)
			return true
		}
		local, tl := crop.InlineRect(e.view, s, a, b)
		if local.Empty() {
			err = crop.ErrEmpty
			return true
		}
		sb := src.Bounds()
		scale := crop.Scale{X: float64(sb.Dx()) / s.OriginalWidth, Y: float64(sb.Dy()) / s.OriginalHeight}
		var out *image.RGBA
		if out, err = crop.Extract(src, scale, local); err != nil {
			return true
		}
		var url string
		if url, err = bitmap.PNGDataURL(out); err != nil {
			return true
		}
		s.Bitmap = e.bitmaps.Add(out)
		s.OriginalSrc = url
		s.OriginalWidth, s.OriginalHeight = local.Dx(), local.Dy()
		s.Width, s.Height = local.Dx(), local.Dy()
		s.X, s.Y = tl.X, tl.Y
		s.ScaleX, s.ScaleY = 1, 1
		e.doc, _ = e.doc.Replace(s)
		e.commitLocked()
		return true
	})
	return err
}

// CancelCrop leaves either crop mode without changing the document.
func (e *Editor) CancelCrop() {
	e.update(func() bool {
		if e.state != StateCroppingRect && e.state != StateCroppingModal {
			return false
		}
		return e.cancelLocked()
	})
}

// OpenCropModal opens the modal cropper on the image with id.
func (e *Editor) OpenCropModal(id string) error {
	var err error
	e.update(func() bool {
		if e.state != StateIdle {
			err = ErrBusy
			return false
		}
		s, ok := e.doc.Find(id)
		if !ok {
			err = ErrNoSelection
			return false
		}
		if s.Kind != scene.KindImage {
			err = ErrNotImage
			return false
		}
		src, ok := e.bitmaps.Get(s.Bitmap)
		if !ok {
			err = fmt.Errorf("crop: image %s has no bitmap", s.ID)
			return false
		}
		e.selected = id
		e.modal = crop.NewModal(src)
		e.modalTarget = id
		e.state = StateCroppingModal
		return true
	})
	return err
}

// ModalView is a read-only copy of the modal cropper state.
type ModalView struct {
	Source        image.Image
	Width, Height int
	Selection     scene.Rect
	// Dragging is set between a pointer-down that grabbed the selection
	// and the matching pointer-up.
	Dragging      bool
}

// Modal returns the modal cropper state while it is open.
func (e *Editor) Modal() (ModalView, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.modal == nil {
		return ModalView{}, false
	}
	w, h := e.modal.DisplaySize()
	return ModalView{
		Source:    e.modal.Source(),
		Width:     w,
		Height:    h,
		Selection: e.modal.Selection(),
		Dragging:  e.modal.Dragging(),
	}, true
}

// EditModal runs fn against the open modal cropper. It reports false when
// no cropper is open.
func (e *Editor) EditModal(fn func(m *crop.Modal)) bool {
	var ok bool
	e.update(func() bool {
		if e.modal == nil {
			return false
		}
		fn(e.modal)
		ok = true
		return true
	})
	return ok
}

// ApplyModalCrop replaces the target image with the modal selection. The
// image moves to the canvas position of the selection and loses its scale
// and rotation. An empty selection closes the cropper and returns
// crop.ErrEmpty.
func (e *Editor) ApplyModalCrop() error {
	var err error
	e.update(func() bool {
		if e.state != StateCroppingModal || e.modal == nil {
			err = fmt.Errorf("crop: %w", ErrBusy)
			return false
		}
		m, target := e.modal, e.modalTarget
		e.cancelLocked()
		s, ok := e.doc.Find(target)
		if !ok {
			err = ErrNoSelection
			return true
		}
		var out *image.RGBA
		if out, err = m.Apply(); err != nil {
			return true
		}
		var url string
		if url, err = bitmap.PNGDataURL(out); err != nil {
			return true
		}
		sel := m.Selection()
		dw, dh := m.DisplaySize()
		sx, sy := s.Scale()
		s.X += sel.MinX / float64(dw) * s.OriginalWidth * sx
		s.Y += sel.MinY / float64(dh) * s.OriginalHeight * sy
		b := out.Bounds()
		s.Bitmap = e.bitmaps.Add(out)
		s.OriginalSrc = url
		s.OriginalWidth, s.OriginalHeight = float64(b.Dx()), float64(b.Dy())
		s.Width, s.Height = s.OriginalWidth, s.OriginalHeight
		s.ScaleX, s.ScaleY = 1, 1
		s.Rotation = 0
		e.doc, _ = e.doc.Replace(s)
		e.selected = s.ID
		e.commitLocked()
		return true
	})
	return err
}

// IsEmptyCrop reports whether err came from a crop with no area.
func IsEmptyCrop(err error) bool { return errors.Is(err, crop.ErrEmpty) }
