package crop

import (
	"image"
	"math"
	"strconv"
	"strings"

	"github.com/example/drawpad/internal/scene"
)

// HandleSize is the edge length of a selection resize handle in display
// units.
const HandleSize = 8

// Display size limits for the modal cropper.
const (
	MinDisplay = 1
	MaxDisplay = 2000
)

type cropAction int

const (
	cropNone cropAction = iota
	cropMove
	cropResizeTL
	cropResizeT
	cropResizeTR
	cropResizeR
	cropResizeBR
	cropResizeB
	cropResizeBL
	cropResizeL
	cropSelect
)

// HandleRects returns the eight resize handles of r, clockwise from the
// top-left corner.
func HandleRects(r scene.Rect) []scene.Rect {
	hs := float64(HandleSize) / 2
	cx := (r.MinX + r.MaxX) / 2
	cy := (r.MinY + r.MaxY) / 2
	at := func(x, y float64) scene.Rect { return scene.Rect{MinX: x - hs, MinY: y - hs, MaxX: x + hs, MaxY: y + hs} }
	return []scene.Rect{
		at(r.MinX, r.MinY), // tl
		at(cx, r.MinY),     // t
		at(r.MaxX, r.MinY), // tr
		at(r.MaxX, cy),     // r
		at(r.MaxX, r.MaxY), // br
		at(cx, r.MaxY),     // b
		at(r.MinX, r.MaxY), // bl
		at(r.MinX, cy),     // l
	}
}

func inRect(r scene.Rect, p scene.Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Modal is the state of the modal cropper: the source image shown at an
// adjustable display size and one selection rectangle over it.
type Modal struct {
	src          image.Image
	srcW, srcH   int
	dispW, dispH int
	sel          scene.Rect

	action   cropAction
	anchor   scene.Point
	startSel scene.Rect
}

// NewModal opens a cropper over src, displayed at its own size.
func NewModal(src image.Image) *Modal {
	b := src.Bounds()
	return &Modal{
		src:   src,
		srcW:  b.Dx(),
		srcH:  b.Dy(),
		dispW: b.Dx(),
		dispH: b.Dy(),
	}
}

// Source returns the image being cropped.
func (m *Modal) Source() image.Image { return m.src }

// DisplaySize returns the current display width and height.
func (m *Modal) DisplaySize() (int, int) { return m.dispW, m.dispH }

// Selection returns the selection in display units.
func (m *Modal) Selection() scene.Rect { return m.sel }

// Dragging reports whether a pointer gesture is in progress.
func (m *Modal) Dragging() bool { return m.action != cropNone }

func (m *Modal) aspect() float64 {
	if m.srcH == 0 {
		return 1
	}
	return float64(m.srcW) / float64(m.srcH)
}

// SetWidthField applies text typed into the width field. The height follows
// the source aspect ratio. Text that is not an integer is ignored.
func (m *Modal) SetWidthField(text string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return false
	}
	w := clampInt(n, MinDisplay, MaxDisplay)
	h := max(MinDisplay, int(math.Round(float64(w)/m.aspect())))
	m.resize(w, h)
	return true
}

// SetHeightField applies text typed into the height field. The width
// follows the source aspect ratio. Text that is not an integer is ignored.
func (m *Modal) SetHeightField(text string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return false
	}
	h := clampInt(n, MinDisplay, MaxDisplay)
	w := max(MinDisplay, int(math.Round(float64(h)*m.aspect())))
	m.resize(w, h)
	return true
}

// resize changes the display size and rescales the selection with it.
func (m *Modal) resize(w, h int) {
	fx := float64(w) / float64(m.dispW)
	fy := float64(h) / float64(m.dispH)
	m.sel = scene.Rect{MinX: m.sel.MinX * fx, MinY: m.sel.MinY * fy, MaxX: m.sel.MaxX * fx, MaxY: m.sel.MaxY * fy}
	m.dispW, m.dispH = w, h
	m.action = cropNone
}

func (m *Modal) bounds() scene.Rect {
	return scene.Rect{MaxX: float64(m.dispW), MaxY: float64(m.dispH)}
}

func (m *Modal) constrain(p scene.Point) scene.Point {
	return scene.Point{
		X: math.Max(0, math.Min(p.X, float64(m.dispW))),
		Y: math.Max(0, math.Min(p.Y, float64(m.dispH))),
	}
}

// PointerDown starts a gesture at p in display units. Presses on a handle
// resize the selection, presses inside it move it, and presses elsewhere
// start a new selection. Presses outside the display are ignored.
func (m *Modal) PointerDown(p scene.Point) bool {
	if !inRect(m.bounds(), p) {
		return false
	}
	action := cropNone
	if !m.sel.Empty() {
		for i, hr := range HandleRects(m.sel) {
			if inRect(hr, p) {
				action = cropAction(i + int(cropResizeTL))
				break
			}
		}
		if action == cropNone && inRect(m.sel, p) {
			action = cropMove
		}
	}
	if action == cropNone {
		action = cropSelect
		m.sel = scene.Rect{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
	}
	m.action = action
	m.anchor = p
	m.startSel = m.sel
	return true
}

// PointerMove updates the selection for the gesture in progress.
func (m *Modal) PointerMove(p scene.Point) {
	if m.action == cropNone {
		return
	}
	p = m.constrain(p)
	dx := p.X - m.anchor.X
	dy := p.Y - m.anchor.Y
	r := m.startSel
	switch m.action {
	case cropSelect:
		r = scene.RectFromPoints(m.anchor, p)
	case cropMove:
		dx = math.Max(-r.MinX, math.Min(dx, float64(m.dispW)-r.MaxX))
		dy = math.Max(-r.MinY, math.Min(dy, float64(m.dispH)-r.MaxY))
		r = scene.Rect{MinX: r.MinX + dx, MinY: r.MinY + dy, MaxX: r.MaxX + dx, MaxY: r.MaxY + dy}
	case cropResizeTL:
		r.MinX += dx
		r.MinY += dy
	case cropResizeT:
		r.MinY += dy
	case cropResizeTR:
		r.MinY += dy
		r.MaxX += dx
	case cropResizeR:
		r.MaxX += dx
	case cropResizeBR:
		r.MaxX += dx
		r.MaxY += dy
	case cropResizeB:
		r.MaxY += dy
	case cropResizeBL:
		r.MinX += dx
		r.MaxY += dy
	case cropResizeL:
		r.MinX += dx
	}
	if r.MinX > r.MaxX {
		r.MinX, r.MaxX = r.MaxX, r.MinX
	}
	if r.MinY > r.MaxY {
		r.MinY, r.MaxY = r.MaxY, r.MinY
	}
	m.sel = r
}

// PointerUp finishes the gesture at p.
func (m *Modal) PointerUp(p scene.Point) {
	m.PointerMove(p)
	m.action = cropNone
}

// SetSelection replaces the selection, clamped to the display.
func (m *Modal) SetSelection(r scene.Rect) {
	a := m.constrain(scene.Point{X: r.MinX, Y: r.MinY})
	b := m.constrain(scene.Point{X: r.MaxX, Y: r.MaxY})
	m.sel = scene.RectFromPoints(a, b)
	m.action = cropNone
}

// Scale returns the display to source pixel factors.
func (m *Modal) Scale() Scale {
	return Scale{
		X: float64(m.srcW) / float64(m.dispW),
		Y: float64(m.srcH) / float64(m.dispH),
	}
}

// Apply cuts the selection out of the source image.
func (m *Modal) Apply() (*image.RGBA, error) {
	if m.sel.Empty() {
		return nil, ErrEmpty
	}
	return Extract(m.src, m.Scale(), m.sel)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
