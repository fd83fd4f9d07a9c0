package appstate

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/drawpad/internal/editor"
	"github.com/example/drawpad/internal/scene"
	"github.com/example/drawpad/internal/theme"
)

const (
	headerHeight = 24
	bottomHeight = 24
	buttonHeight = 20
	swatchSize   = 16
	// stagePad is the gap between the stage and the toolbar or header.
	stagePad = 10
)

var toolbarWidth = 64

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

const handleSize = 8

const (
	minZoom  = 0.25
	maxZoom  = 4
	zoomStep = 1.25
)

// toolKey binds a tool to its toolbar label and key letter.
type toolKey struct {
	Tool  editor.Tool
	Rune  rune
	Label string
}

var toolKeys = []toolKey{
	{editor.ToolRectangle, 'r', "R:Rect"},
	{editor.ToolSquare, 's', "S:Square"},
	{editor.ToolCircle, 'c', "C:Circle"},
	{editor.ToolTriangle, 't', "T:Triangle"},
	{editor.ToolLine, 'b', "B:Brush"},
	{editor.ToolStraightLine, 'l', "L:Line"},
	{editor.ToolEraser, 'e', "E:Eraser"},
	{editor.ToolMove, 'm', "M:Move"},
	{editor.ToolCropImage, 'k', "K:Crop"},
}

// toolForRune returns the tool bound to a plain key press.
func toolForRune(r rune) (editor.Tool, bool) {
	for _, tk := range toolKeys {
		if tk.Rune == r {
			return tk.Tool, true
		}
	}
	return 0, false
}

var brushKeys = []struct {
	Brush scene.BrushType
	Rune  rune
	Label string
}{
	{scene.BrushNormal, '1', "1:Normal"},
	{scene.BrushWatercolor, '2', "2:Water"},
	{scene.BrushSpray, '3', "3:Spray"},
}

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	cache [3]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [3]*image.RGBA{}
	}
}

// LabelButton is a toolbar or shortcut bar entry with a text label.
type LabelButton struct {
	label  string
	rect   image.Rectangle
	th     *theme.Theme
	action func()
}

func (b *LabelButton) Draw(dst *image.RGBA, state ButtonState) {
	c := b.th.ButtonBackground
	switch state {
	case StateHover:
		c = b.th.ButtonBackgroundHover
	case StatePressed:
		c = b.th.ButtonActive
	}
	draw.Draw(dst, b.rect, &image.Uniform{c}, image.Point{}, draw.Src)
	drawRect(dst, b.rect, b.th.ButtonBorder, 1)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(b.th.ButtonText), Face: basicfont.Face7x13,
		Dot: fixed.P(b.rect.Min.X+4, b.rect.Min.Y+(b.rect.Dy()+10)/2)}
	d.DrawString(b.label)
}

func (b *LabelButton) Rect() image.Rectangle { return b.rect }

func (b *LabelButton) SetRect(r image.Rectangle) { b.rect = r }

func (b *LabelButton) Activate() {
	if b.action != nil {
		b.action()
	}
}

// SwatchButton picks a palette colour.
type SwatchButton struct {
	color  string
	rect   image.Rectangle
	th     *theme.Theme
	action func()
}

func (b *SwatchButton) Draw(dst *image.RGBA, state ButtonState) {
	c, err := scene.ParseColor(b.color)
	if err != nil {
		c = color.RGBA{}
	}
	draw.Draw(dst, b.rect, &image.Uniform{c}, image.Point{}, draw.Src)
	switch state {
	case StateHover:
		draw.Draw(dst, b.rect, &image.Uniform{color.RGBA{255, 255, 255, 80}}, image.Point{}, draw.Over)
		drawRect(dst, b.rect, b.th.ButtonBorder, 1)
	case StatePressed:
		drawRect(dst, b.rect, b.th.ButtonActive, 2)
	default:
		drawRect(dst, b.rect, b.th.ButtonBorder, 1)
	}
}

func (b *SwatchButton) Rect() image.Rectangle { return b.rect }

func (b *SwatchButton) SetRect(r image.Rectangle) { b.rect = r }

func (b *SwatchButton) Activate() {
	if b.action != nil {
		b.action()
	}
}

// toolbarItem is one entry in the toolbar column. Swatches flow in rows;
// everything else takes a full row.
type toolbarItem struct {
	button *CacheButton
	gap    bool
	active func() bool
}

// layoutToolbar places the items top to bottom starting at y0 and returns
// the y just below the last item.
func layoutToolbar(items []toolbarItem, y0, width int) int {
	y := y0
	x := 4
	inSwatches := false
	for _, it := range items {
		_, swatch := it.button.Button.(*SwatchButton)
		if inSwatches && !swatch {
			y += swatchSize + 2
			x = 4
			inSwatches = false
		}
		if it.gap {
			y += 4
		}
		if swatch {
			if x+swatchSize > width {
				x = 4
				y += swatchSize + 2
			}
			it.button.SetRect(image.Rect(x, y, x+swatchSize, y+swatchSize))
			x += swatchSize + 2
			inSwatches = true
			continue
		}
		it.button.SetRect(image.Rect(0, y, width, y+buttonHeight))
		y += buttonHeight
	}
	if inSwatches {
		y += swatchSize + 2
	}
	return y
}

// hitButton returns the index of the item under p, or -1.
func hitButton(items []toolbarItem, p image.Point) int {
	for i, it := range items {
		if p.In(it.button.Rect()) {
			return i
		}
	}
	return -1
}

// toolbarFitWidth is the toolbar width needed to show every label.
func toolbarFitWidth(labels []string) int {
	d := &font.Drawer{Face: basicfont.Face7x13}
	w := toolbarWidth
	for _, lbl := range labels {
		if lw := d.MeasureString(lbl).Ceil() + 8; lw > w {
			w = lw
		}
	}
	return w
}

// stageOrigin is the window position of the stage's top-left corner.
func stageOrigin() image.Point {
	return image.Pt(toolbarWidth+stagePad, headerHeight+stagePad)
}

// surfacePoint maps a window position to stage surface coordinates.
func surfacePoint(x, y float32) scene.Point {
	o := stageOrigin()
	return scene.Point{X: float64(x) - float64(o.X), Y: float64(y) - float64(o.Y)}
}

// modalLayout places a dispW x dispH cropper in the middle of the canvas
// area, shrinking it to fit. It returns the top-left corner and the display
// to window scale.
func modalLayout(winW, winH, dispW, dispH int) (image.Point, float64) {
	availW := winW - toolbarWidth - 2*stagePad
	availH := winH - headerHeight - bottomHeight - 2*stagePad - 2*buttonHeight
	scale := 1.0
	if dispW > 0 && dispH > 0 && availW > 0 && availH > 0 {
		scale = math.Min(1, math.Min(float64(availW)/float64(dispW), float64(availH)/float64(dispH)))
	}
	w := int(float64(dispW) * scale)
	h := int(float64(dispH) * scale)
	x := toolbarWidth + (winW-toolbarWidth-w)/2
	y := headerHeight + buttonHeight + (winH-headerHeight-bottomHeight-buttonHeight-h)/2
	return image.Pt(x, y), scale
}

// modalPoint maps a window position into cropper display units.
func modalPoint(x, y float32, origin image.Point, scale float64) scene.Point {
	if scale <= 0 {
		scale = 1
	}
	return scene.Point{X: (float64(x) - float64(origin.X)) / scale, Y: (float64(y) - float64(origin.Y)) / scale}
}

// transformHandle returns the surface rectangle of the scale handle of an
// image shape: its far corner after rotation.
func transformHandle(view func(scene.Point) scene.Point, s scene.Shape) image.Rectangle {
	c := view(s.ImageCorners()[2])
	hs := float64(handleSize) / 2
	return image.Rect(int(c.X-hs), int(c.Y-hs), int(c.X+hs), int(c.Y+hs))
}

// transformScale returns the scale factors that put the far corner of image
// s at canvas point p, measured along the image's own axes.
func transformScale(s scene.Shape, p scene.Point) (float64, float64) {
	rad := s.Rotation * math.Pi / 180
	sin, cos := math.Sincos(-rad)
	dx, dy := p.X-s.X, p.Y-s.Y
	lx := dx*cos - dy*sin
	ly := dx*sin + dy*cos
	sx, sy := 1.0, 1.0
	if s.OriginalWidth != 0 {
		sx = lx / s.OriginalWidth
	}
	if s.OriginalHeight != 0 {
		sy = ly / s.OriginalHeight
	}
	return sx, sy
}

func clampZoom(z float64) float64 {
	return math.Max(minZoom, math.Min(maxZoom, z))
}
