package crop

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gg"

	"github.com/example/drawpad/internal/scene"
)

// quadrants returns a w x h image with a distinct colour in each quadrant.
func quadrants(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{A: 255}
			if x >= w/2 {
				c.R = 255
			}
			if y >= h/2 {
				c.B = 255
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestExtract(t *testing.T) {
	src := quadrants(100, 100)
	out, err := Extract(src, Scale{1, 1}, scene.Rect{MinX: 50, MinY: 50, MaxX: 80, MaxY: 70})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if out.Bounds().Dx() != 30 || out.Bounds().Dy() != 20 {
		t.Fatalf("bounds %v", out.Bounds())
	}
	if c := out.RGBAAt(0, 0); c.R != 255 || c.B != 255 {
		t.Fatalf("expected bottom-right quadrant colour, got %v", c)
	}
}

func TestExtractScalesToSource(t *testing.T) {
	src := quadrants(200, 100)
	out, err := Extract(src, Scale{2, 2}, scene.Rect{MaxX: 50, MaxY: 25})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if out.Bounds().Dx() != 100 || out.Bounds().Dy() != 50 {
		t.Fatalf("bounds %v", out.Bounds())
	}
	if c := out.RGBAAt(99, 49); c.R != 0 || c.B != 0 {
		t.Fatalf("expected top-left quadrant colour, got %v", c)
	}
}

func TestExtractOutsideIsTransparent(t *testing.T) {
	out, err := Extract(quadrants(10, 10), Scale{1, 1}, scene.Rect{MinX: 5, MinY: 5, MaxX: 15, MaxY: 15})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if c := out.RGBAAt(9, 9); c.A != 0 {
		t.Fatalf("pixel outside source should be transparent, got %v", c)
	}
}

func TestExtractEmpty(t *testing.T) {
	src := quadrants(10, 10)
	cases := []scene.Rect{
		{MinX: 2, MinY: 2, MaxX: 2, MaxY: 8},
		{MinX: 2, MinY: 5, MaxX: 8, MaxY: 5},
		{MinX: 20, MinY: 20, MaxX: 30, MaxY: 30},
	}
	for _, r := range cases {
		if _, err := Extract(src, Scale{1, 1}, r); !errors.Is(err, ErrEmpty) {
			t.Errorf("Extract(%v) err = %v, want ErrEmpty", r, err)
		}
	}
}

func TestInlineRectUsesInverseView(t *testing.T) {
	s := scene.Shape{Kind: scene.KindImage, X: 100, Y: 50, ScaleX: 2, ScaleY: 2}
	view := gg.Translate(10, 20).Multiply(gg.Scale(2, 2))
	// Canvas (120,70) is surface (250,160); canvas (160,110) is surface (330,240).
	local, tl := InlineRect(view, s, scene.Point{X: 330, Y: 240}, scene.Point{X: 250, Y: 160})
	if tl.X != 120 || tl.Y != 70 {
		t.Fatalf("top-left %v", tl)
	}
	want := scene.Rect{MinX: 10, MinY: 10, MaxX: 30, MaxY: 30}
	if local != want {
		t.Fatalf("local %v want %v", local, want)
	}
}

func TestModalFieldsKeepAspect(t *testing.T) {
	m := NewModal(quadrants(400, 200))
	if !m.SetWidthField("300") {
		t.Fatalf("width rejected")
	}
	if w, h := m.DisplaySize(); w != 300 || h != 150 {
		t.Fatalf("display %dx%d", w, h)
	}
	if !m.SetHeightField("100") {
		t.Fatalf("height rejected")
	}
	if w, h := m.DisplaySize(); w != 200 || h != 100 {
		t.Fatalf("display %dx%d", w, h)
	}
}

func TestModalFieldsClamp(t *testing.T) {
	m := NewModal(quadrants(400, 200))
	m.SetWidthField("5000")
	if w, h := m.DisplaySize(); w != MaxDisplay || h != 1000 {
		t.Fatalf("display %dx%d", w, h)
	}
	m.SetWidthField("0")
	if w, h := m.DisplaySize(); w != 1 || h != 1 {
		t.Fatalf("display %dx%d", w, h)
	}
	m.SetHeightField("-4")
	if w, h := m.DisplaySize(); w != 2 || h != 1 {
		t.Fatalf("display %dx%d", w, h)
	}
	if m.SetHeightField("abc") {
		t.Fatalf("non-numeric text accepted")
	}
	if w, h := m.DisplaySize(); w != 2 || h != 1 {
		t.Fatalf("display changed by invalid text: %dx%d", w, h)
	}
}

func TestModalSelectAndApply(t *testing.T) {
	m := NewModal(quadrants(200, 100))
	m.SetWidthField("100")
	if !m.PointerDown(scene.Point{X: 50, Y: 25}) {
		t.Fatalf("press inside display ignored")
	}
	m.PointerMove(scene.Point{X: 80, Y: 40})
	m.PointerUp(scene.Point{X: 500, Y: 500})
	want := scene.Rect{MinX: 50, MinY: 25, MaxX: 100, MaxY: 50}
	if m.Selection() != want {
		t.Fatalf("selection %v want %v", m.Selection(), want)
	}
	out, err := m.Apply()
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if out.Bounds().Dx() != 100 || out.Bounds().Dy() != 50 {
		t.Fatalf("cropped %v", out.Bounds())
	}
}

func TestModalMoveStaysInside(t *testing.T) {
	m := NewModal(quadrants(100, 100))
	m.SetSelection(scene.Rect{MinX: 10, MinY: 10, MaxX: 30, MaxY: 30})
	m.PointerDown(scene.Point{X: 20, Y: 20})
	m.PointerMove(scene.Point{X: 95, Y: 20})
	m.PointerUp(scene.Point{X: 100, Y: 20})
	want := scene.Rect{MinX: 80, MinY: 10, MaxX: 100, MaxY: 30}
	if m.Selection() != want {
		t.Fatalf("selection %v want %v", m.Selection(), want)
	}
}

func TestModalResizeHandle(t *testing.T) {
	m := NewModal(quadrants(100, 100))
	m.SetSelection(scene.Rect{MinX: 10, MinY: 10, MaxX: 30, MaxY: 30})
	m.PointerDown(scene.Point{X: 30, Y: 30})
	m.PointerUp(scene.Point{X: 50, Y: 60})
	want := scene.Rect{MinX: 10, MinY: 10, MaxX: 50, MaxY: 60}
	if m.Selection() != want {
		t.Fatalf("selection %v want %v", m.Selection(), want)
	}
}

func TestModalPressOutsideIgnored(t *testing.T) {
	m := NewModal(quadrants(50, 50))
	if m.PointerDown(scene.Point{X: 60, Y: 10}) {
		t.Fatalf("press outside accepted")
	}
	if _, err := m.Apply(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("apply without selection err = %v", err)
	}
}
