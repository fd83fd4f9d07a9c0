package scene

import (
	"encoding/json"
	"errors"
	"math"
	"math/rand"
	"testing"
)

var testStyle = Style{Color: "#FF0000", BrushSize: 4, Opacity: 1, BrushType: BrushNormal}

func TestRectGrowsFromAnchor(t *testing.T) {
	s, ok := Start(KindRect, Point{10, 10}, testStyle)
	if !ok {
		t.Fatalf("rect not startable")
	}
	if s.Width != 0 || s.Height != 0 {
		t.Fatalf("expected zero extent, got %vx%v", s.Width, s.Height)
	}
	s.Grow(Point{30, 20})
	s.Grow(Point{60, 40})
	if s.X != 10 || s.Y != 10 || s.Width != 50 || s.Height != 30 {
		t.Fatalf("unexpected rect %+v", s)
	}
	s.Grow(Point{0, 5})
	if s.Width != -10 || s.Height != -5 {
		t.Fatalf("expected signed extent, got %vx%v", s.Width, s.Height)
	}
}

func TestSquareSidesStayEqual(t *testing.T) {
	s, _ := Start(KindSquare, Point{100, 100}, testStyle)
	samples := []Point{{110, 104}, {90, 140}, {160, 95}, {100, 100}, {40, 20}}
	for _, p := range samples {
		s.Grow(p)
		want := math.Max(math.Abs(p.X-100), math.Abs(p.Y-100))
		if s.Size != want {
			t.Fatalf("sample %v: size %v want %v", p, s.Size, want)
		}
		b := s.Bounds()
		if b.Dx() != b.Dy() {
			t.Fatalf("sample %v: square bounds %vx%v", p, b.Dx(), b.Dy())
		}
	}
}

func TestCircleAndTriangleUseDistance(t *testing.T) {
	for _, k := range []Kind{KindCircle, KindTriangle} {
		s, _ := Start(k, Point{0, 0}, testStyle)
		s.Grow(Point{3, 4})
		if s.Radius != 5 {
			t.Fatalf("%s radius %v want 5", k, s.Radius)
		}
	}
	tri, _ := Start(KindTriangle, Point{0, 0}, testStyle)
	if tri.Sides != 3 {
		t.Fatalf("triangle sides %d", tri.Sides)
	}
}

func TestStraightLineKeepsTwoEndpoints(t *testing.T) {
	s, _ := Start(KindStraightLine, Point{5, 6}, testStyle)
	if len(s.Points) != 4 {
		t.Fatalf("initial points %v", s.Points)
	}
	for i := 0; i < 50; i++ {
		s.Grow(Point{float64(i), float64(2 * i)})
		if len(s.Points) != 4 {
			t.Fatalf("after %d moves: %d points", i+1, len(s.Points))
		}
	}
	if s.Points[0] != 5 || s.Points[1] != 6 || s.Points[2] != 49 || s.Points[3] != 98 {
		t.Fatalf("unexpected endpoints %v", s.Points)
	}
}

func TestFreehandAppends(t *testing.T) {
	s, _ := Start(KindLine, Point{1, 1}, testStyle)
	s.Grow(Point{2, 2})
	s.Grow(Point{3, 3})
	if len(s.Points) != 6 {
		t.Fatalf("points %v", s.Points)
	}
	if s.Tension != 0 {
		t.Fatalf("normal brush tension %v", s.Tension)
	}

	wc := testStyle
	wc.BrushType = BrushWatercolor
	w, _ := Start(KindLine, Point{1, 1}, wc)
	if w.Tension != WatercolorTension {
		t.Fatalf("watercolor tension %v", w.Tension)
	}

	sp := testStyle
	sp.BrushType = BrushSpray
	l, _ := Start(KindLine, Point{1, 1}, sp)
	l.Grow(Point{5, 5})
	if len(l.Points) != 2 {
		t.Fatalf("spray line should not accumulate, got %v", l.Points)
	}
}

func TestEraserPaintsBackground(t *testing.T) {
	st := testStyle
	st.Background = "#FAFAFA"
	st.Opacity = 0.3
	s, _ := Start(KindEraser, Point{0, 0}, st)
	if s.Stroke != "#FAFAFA" {
		t.Fatalf("eraser stroke %q", s.Stroke)
	}
	if s.StrokeWidth != 20 {
		t.Fatalf("eraser width %v want 20", s.StrokeWidth)
	}
	if s.Opacity != 1 {
		t.Fatalf("eraser opacity %v", s.Opacity)
	}
	s.Grow(Point{4, 4})
	if len(s.Points) != 4 {
		t.Fatalf("eraser points %v", s.Points)
	}
}

func TestStartRejectsImage(t *testing.T) {
	if _, ok := Start(KindImage, Point{}, testStyle); ok {
		t.Fatalf("image should not start from a gesture")
	}
}

func TestSprayDots(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	st := Style{Color: "#00FF00", BrushSize: 6, Opacity: 0.5}
	dots := Spray(rng, Point{100, 100}, st)
	if len(dots) != 12 {
		t.Fatalf("got %d dots want 12", len(dots))
	}
	seen := map[string]bool{}
	for _, d := range dots {
		if d.Kind != KindCircle || d.Fill != "#00FF00" {
			t.Fatalf("unexpected dot %+v", d)
		}
		if dist := math.Hypot(d.X-100, d.Y-100); dist > SprayRadius {
			t.Fatalf("dot %v outside radius", dist)
		}
		if d.Radius < 0.5 || d.Radius > 3.5 {
			t.Fatalf("dot radius %v", d.Radius)
		}
		if d.Opacity < 0 || d.Opacity > 0.35 {
			t.Fatalf("dot opacity %v", d.Opacity)
		}
		if seen[d.ID] {
			t.Fatalf("duplicate id %s", d.ID)
		}
		seen[d.ID] = true
	}
}

func TestTranslate(t *testing.T) {
	l := Shape{Kind: KindLine, Points: []float64{0, 0, 10, 10}}
	l.Translate(5, -5)
	if l.Points[0] != 5 || l.Points[1] != -5 || l.Points[2] != 15 || l.Points[3] != 5 {
		t.Fatalf("line points %v", l.Points)
	}
	r := Shape{Kind: KindRect, X: 1, Y: 2}
	r.Translate(3, 4)
	if r.X != 4 || r.Y != 6 {
		t.Fatalf("rect origin %v,%v", r.X, r.Y)
	}
}

func TestDocumentOperations(t *testing.T) {
	a := Shape{ID: "a", Kind: KindRect}
	b := Shape{ID: "b", Kind: KindLine, Points: []float64{1, 2}}
	doc := Document{}.Append(a, b)

	if doc.IndexOf("b") != 1 || doc.IndexOf("zz") != -1 {
		t.Fatalf("IndexOf broken")
	}
	clone := doc.Clone()
	clone[1].Points[0] = 99
	if doc[1].Points[0] != 1 {
		t.Fatalf("clone shares points with source")
	}

	b2 := b
	b2.Width = 7
	next, ok := doc.Replace(b2)
	if !ok || next[1].Width != 7 || doc[1].Width != 0 {
		t.Fatalf("replace should produce a new document")
	}

	rem, ok := doc.Remove("a")
	if !ok || len(rem) != 1 || rem[0].ID != "b" || len(doc) != 2 {
		t.Fatalf("remove: %+v", rem)
	}
	if _, ok := doc.Remove("missing"); ok {
		t.Fatalf("remove of missing id reported ok")
	}
}

func TestHitTestTopmost(t *testing.T) {
	doc := Document{
		{ID: "under", Kind: KindRect, X: 0, Y: 0, Width: 100, Height: 100},
		{ID: "over", Kind: KindCircle, X: 50, Y: 50, Radius: 10},
		{ID: "stroke", Kind: KindLine, Points: []float64{200, 200, 300, 200}, StrokeWidth: 4},
	}
	cases := []struct {
		p    Point
		want string
		ok   bool
	}{
		{Point{50, 50}, "over", true},
		{Point{5, 5}, "under", true},
		{Point{250, 201}, "stroke", true},
		{Point{250, 230}, "", false},
	}
	for _, c := range cases {
		got, ok := HitTest(doc, c.p)
		if got != c.want || ok != c.ok {
			t.Errorf("HitTest(%v) = %q,%v want %q,%v", c.p, got, ok, c.want, c.ok)
		}
	}
}

func TestImageBoundsRotated(t *testing.T) {
	s := Shape{Kind: KindImage, X: 10, Y: 10, OriginalWidth: 40, OriginalHeight: 20, ScaleX: 1, ScaleY: 1, Rotation: 90}
	b := s.Bounds()
	if math.Abs(b.MinX-(-10)) > 1e-9 || math.Abs(b.MaxX-10) > 1e-9 || math.Abs(b.MinY-10) > 1e-9 || math.Abs(b.MaxY-50) > 1e-9 {
		t.Fatalf("rotated bounds %+v", b)
	}
	if !s.Contains(Point{0, 30}) {
		t.Fatalf("rotated image should contain (0,30)")
	}
	if s.Contains(Point{30, 20}) {
		t.Fatalf("rotated image should not contain (30,20)")
	}
}

func TestNormalizeColor(t *testing.T) {
	cases := map[string]string{
		"#abc":        "#AABBCC",
		"#FF0000":     "#FF0000",
		"red":         "#FF0000",
		"transparent": Transparent,
		"#00000000":   Transparent,
	}
	for in, want := range cases {
		got, err := NormalizeColor(in)
		if err != nil {
			t.Errorf("NormalizeColor(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("NormalizeColor(%q) = %q want %q", in, got, want)
		}
	}
	for _, bad := range []string{"", "#12", "#GGGGGG", "notacolour"} {
		if _, err := NormalizeColor(bad); !errors.Is(err, ErrInvalidColor) {
			t.Errorf("NormalizeColor(%q) err = %v", bad, err)
		}
	}
}

func TestDecodedShapeOpacity(t *testing.T) {
	var doc Document
	if err := json.Unmarshal([]byte(`[{"id":"a","type":"rect"},{"id":"b","type":"rect","opacity":0}]`), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc[0].Opacity != 1 {
		t.Fatalf("missing opacity decoded as %v, want 1", doc[0].Opacity)
	}
	if doc[1].Opacity != 0 {
		t.Fatalf("explicit zero opacity decoded as %v", doc[1].Opacity)
	}
}
