package editor

import (
	"fmt"
	"image"
	"math"

	"github.com/example/drawpad/internal/bitmap"
	"github.com/example/drawpad/internal/scene"
)

// InsertImage decodes encoded image bytes and inserts them centred on the
// stage.
func (e *Editor) InsertImage(data []byte) (scene.Shape, error) {
	img, _, err := bitmap.Decode(data)
	if err != nil {
		return scene.Shape{}, fmt.Errorf("insert image: %w", err)
	}
	return e.InsertBitmap(img, bitmap.DataURL(data))
}

// InsertBitmap inserts a decoded image. src is the re-loadable data URL
// kept with the shape; when empty the image is encoded as PNG.
func (e *Editor) InsertBitmap(img image.Image, src string) (scene.Shape, error) {
	if src == "" {
		var err error
		if src, err = bitmap.PNGDataURL(img); err != nil {
			return scene.Shape{}, fmt.Errorf("insert image: %w", err)
		}
	}
	ref := e.bitmaps.Add(img)
	var s scene.Shape
	e.update(func() bool {
		e.cancelLocked()
		b := img.Bounds()
		w, h := bitmap.Fit(float64(b.Dx()), float64(b.Dy()), bitmap.MaxInsertDimension(e.stageW, e.stageH))
		s = scene.Shape{
			ID:             scene.NewID(),
			Kind:           scene.KindImage,
			X:              e.stageW/2 - w/2,
			Y:              e.stageH/2 - h/2,
			Width:          w,
			Height:         h,
			Opacity:        e.opacity,
			ScaleX:         1,
			ScaleY:         1,
			OriginalWidth:  w,
			OriginalHeight: h,
			OriginalSrc:    src,
			Bitmap:         ref,
		}
		e.doc = e.doc.Append(s)
		e.commitLocked()
		return true
	})
	return s, nil
}

// selectedImageLocked returns the selected shape if it is an image.
func (e *Editor) selectedImageLocked() (scene.Shape, error) {
	s, ok := e.doc.Find(e.selected)
	if !ok {
		return scene.Shape{}, ErrNoSelection
	}
	if s.Kind != scene.KindImage {
		return scene.Shape{}, ErrNotImage
	}
	return s, nil
}

// replaceImage applies fn to the selected image and commits the result.
func (e *Editor) replaceImage(fn func(*scene.Shape) error) error {
	var err error
	e.update(func() bool {
		if e.state != StateIdle && e.state != StateTransforming {
			err = ErrBusy
			return false
		}
		var s scene.Shape
		if s, err = e.selectedImageLocked(); err != nil {
			return false
		}
		if err = fn(&s); err != nil {
			e.state = StateIdle
			return true
		}
		e.state = StateIdle
		e.doc, _ = e.doc.Replace(s)
		e.commitLocked()
		return true
	})
	return err
}

// BeginTransform marks the start of a handle drag on the image with id.
func (e *Editor) BeginTransform(id string) error {
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
		e.selected = id
		e.state = StateTransforming
		return true
	})
	return err
}

// EndTransform applies the scale and rotation a handle drag ended with.
// Results smaller than MinTransformSize on either side are rejected.
func (e *Editor) EndTransform(scaleX, scaleY, rotation float64) error {
	return e.replaceImage(func(s *scene.Shape) error {
		w := s.OriginalWidth * scaleX
		h := s.OriginalHeight * scaleY
		if math.Abs(w) < MinTransformSize || math.Abs(h) < MinTransformSize {
			return fmt.Errorf("%w: %.0fx%.0f", ErrTooSmall, w, h)
		}
		s.ScaleX, s.ScaleY = scaleX, scaleY
		s.Rotation = rotation
		s.Width, s.Height = w, h
		return nil
	})
}

// ResetTransform returns the selected image to scale 1 and no rotation.
func (e *Editor) ResetTransform() error {
	return e.replaceImage(func(s *scene.Shape) error {
		s.Rotation = 0
		s.ScaleX, s.ScaleY = 1, 1
		s.Width, s.Height = s.OriginalWidth, s.OriginalHeight
		return nil
	})
}

// Rotate90 turns the selected image a quarter turn clockwise.
func (e *Editor) Rotate90() error {
	return e.replaceImage(func(s *scene.Shape) error {
		s.Rotation += 90
		return nil
	})
}

// Transform scales the selected image by factors relative to its original
// size. It is EndTransform keeping the current rotation.
func (e *Editor) Transform(scaleX, scaleY float64) error {
	e.mu.Lock()
	s, err := e.selectedImageLocked()
	e.mu.Unlock()
	if err != nil {
		return err
	}
	return e.EndTransform(scaleX, scaleY, s.Rotation)
}

// CancelTransform abandons a handle drag, leaving the image as it was.
func (e *Editor) CancelTransform() {
	e.update(func() bool {
		if e.state != StateTransforming {
			return false
		}
		e.state = StateIdle
		return true
	})
}
