package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/example/drawpad/internal/scene"
)

// Images resolves the bitmap refs carried by image shapes.
type Images interface {
	Get(ref string) (image.Image, bool)
}

// Options configures a raster pass.
type Options struct {
	Width, Height int
	// Background fills the stage before any shape. Empty leaves it
	// transparent.
	Background string
	// View maps canvas coordinates onto the output. The zero value is
	// treated as identity.
	View gg.Matrix
	// Shadow, when set, is added around the PNG export.
	Shadow *Shadow
}

func (o Options) view() gg.Matrix {
	if o.View == (gg.Matrix{}) {
		return gg.Identity()
	}
	return o.View
}

// Raster draws doc onto a fresh image of the requested size. Shapes are
// drawn in document order so later shapes cover earlier ones.
func Raster(doc scene.Document, imgs Images, opts Options) (*image.RGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("raster: invalid size %dx%d", opts.Width, opts.Height)
	}
	dc := gg.NewContext(opts.Width, opts.Height)
	defer dc.Close()
	if opts.Background != "" {
		bg, err := scene.ParseColor(opts.Background)
		if err != nil {
			return nil, fmt.Errorf("raster: background: %w", err)
		}
		dc.ClearWithColor(gg.FromColor(bg))
	}
	view := opts.view()
	for _, s := range doc {
		var err error
		if s.Kind == scene.KindImage {
			err = drawImage(dc, view, s, imgs)
		} else {
			dc.SetTransform(view)
			err = drawShape(dc, s)
		}
		if err != nil {
			return nil, fmt.Errorf("raster: shape %s: %w", s.ID, err)
		}
	}
	if err := dc.FlushGPU(); err != nil {
		return nil, fmt.Errorf("raster: flush: %w", err)
	}
	img, ok := dc.Image().(*image.RGBA)
	if !ok {
		out := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
		xdraw.Draw(out, out.Bounds(), dc.Image(), image.Point{}, xdraw.Src)
		img = out
	}
	return img, nil
}

// EncodePNG rasters doc and writes it to w as PNG.
func EncodePNG(w io.Writer, doc scene.Document, imgs Images, opts Options) error {
	img, err := Raster(doc, imgs, opts)
	if err != nil {
		return err
	}
	if opts.Shadow != nil {
		img = opts.Shadow.Apply(img)
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func drawShape(dc *gg.Context, s scene.Shape) error {
	alpha := opacity(s.Opacity)
	switch s.Kind {
	case scene.KindRect:
		dc.DrawRectangle(s.X, s.Y, s.Width, s.Height)
	case scene.KindSquare:
		dc.DrawRectangle(s.X, s.Y, s.Size, s.Size)
	case scene.KindCircle:
		dc.DrawCircle(s.X, s.Y, s.Radius)
	case scene.KindTriangle:
		pts := s.TrianglePoints()
		polygon(dc, pts)
	case scene.KindLine, scene.KindStraightLine, scene.KindEraser:
		if len(s.Points) < 2 {
			return nil
		}
		dc.SetLineCap(gg.LineCapRound)
		dc.SetLineJoin(gg.LineJoinRound)
		pts := points(s.Points)
		if s.BrushType == scene.BrushWatercolor && s.Tension > 0 {
			spline(dc, pts, s.Tension)
		} else {
			polyline(dc, pts)
		}
		return stroke(dc, s, alpha)
	default:
		return nil
	}
	if err := fill(dc, s, alpha); err != nil {
		return err
	}
	return stroke(dc, s, alpha)
}

// fill paints the current path and keeps it for the outline.
func fill(dc *gg.Context, s scene.Shape, alpha float64) error {
	c, ok, err := paint(s.Fill, alpha)
	if err != nil || !ok {
		return err
	}
	dc.SetColor(c)
	return dc.FillPreserve()
}

func stroke(dc *gg.Context, s scene.Shape, alpha float64) error {
	defer dc.ClearPath()
	c, ok, err := paint(s.Stroke, alpha)
	if err != nil || !ok || s.StrokeWidth <= 0 {
		return err
	}
	dc.SetColor(c)
	dc.SetLineWidth(s.StrokeWidth)
	return dc.StrokePreserve()
}

// paint resolves a colour string with the shape opacity folded into alpha.
// Transparent or empty colours report false.
func paint(spec string, alpha float64) (color.Color, bool, error) {
	if spec == "" {
		return nil, false, nil
	}
	c, err := scene.ParseColor(spec)
	if err != nil {
		return nil, false, err
	}
	if c.A == 0 || alpha <= 0 {
		return nil, false, nil
	}
	rgba := gg.FromColor(c)
	rgba.A *= alpha
	return rgba.Color(), true, nil
}

// opacity clamps o to [0,1]. Shapes decoded without an opacity already
// carry 1, so 0 here means fully transparent.
func opacity(o float64) float64 {
	return math.Max(0, math.Min(1, o))
}

func points(flat []float64) []scene.Point {
	pts := make([]scene.Point, 0, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		pts = append(pts, scene.Point{X: flat[i], Y: flat[i+1]})
	}
	return pts
}

func polygon(dc *gg.Context, pts []scene.Point) {
	polyline(dc, pts)
	dc.ClosePath()
}

func polyline(dc *gg.Context, pts []scene.Point) {
	dc.MoveTo(pts[0].X, pts[0].Y)
	if len(pts) == 1 {
		// A single sample still leaves a round dot.
		dc.LineTo(pts[0].X, pts[0].Y)
		return
	}
	for _, p := range pts[1:] {
		dc.LineTo(p.X, p.Y)
	}
}

// spline draws a cardinal spline through pts as cubic Bézier segments.
func spline(dc *gg.Context, pts []scene.Point, tension float64) {
	if len(pts) < 3 {
		polyline(dc, pts)
		return
	}
	k := tension / 3
	dc.MoveTo(pts[0].X, pts[0].Y)
	for i := 0; i < len(pts)-1; i++ {
		p0 := pts[max(i-1, 0)]
		p1, p2 := pts[i], pts[i+1]
		p3 := pts[min(i+2, len(pts)-1)]
		c1 := scene.Point{X: p1.X + (p2.X-p0.X)*k, Y: p1.Y + (p2.Y-p0.Y)*k}
		c2 := scene.Point{X: p2.X - (p3.X-p1.X)*k, Y: p2.Y - (p3.Y-p1.Y)*k}
		dc.CubicTo(c1.X, c1.Y, c2.X, c2.Y, p2.X, p2.Y)
	}
}

// imageMatrix maps bitmap pixels onto the output: scale the source to the
// shape's displayed size, rotate about the shape origin, then apply view.
func imageMatrix(view gg.Matrix, s scene.Shape, b image.Rectangle) gg.Matrix {
	sx, sy := s.Scale()
	w := s.OriginalWidth * sx
	h := s.OriginalHeight * sy
	if w == 0 || h == 0 {
		w, h = s.Width, s.Height
	}
	m := view.Multiply(gg.Translate(s.X, s.Y))
	m = m.Multiply(gg.Rotate(s.Rotation * math.Pi / 180))
	m = m.Multiply(gg.Scale(w/float64(b.Dx()), h/float64(b.Dy())))
	return m.Multiply(gg.Translate(-float64(b.Min.X), -float64(b.Min.Y)))
}

// drawImage resamples the bitmap through its full affine onto a stage sized
// layer, then composites the layer with the shape opacity.
func drawImage(dc *gg.Context, view gg.Matrix, s scene.Shape, imgs Images) error {
	if imgs == nil {
		return nil
	}
	src, ok := imgs.Get(s.Bitmap)
	if !ok {
		return nil
	}
	b := src.Bounds()
	if b.Empty() || opacity(s.Opacity) == 0 {
		return nil
	}
	m := imageMatrix(view, s, b)
	layer := image.NewRGBA(image.Rect(0, 0, dc.Width(), dc.Height()))
	aff := f64.Aff3{m.A, m.B, m.C, m.D, m.E, m.F}
	xdraw.BiLinear.Transform(layer, aff, src, b, xdraw.Over, nil)
	dc.Identity()
	dc.DrawImageEx(gg.ImageBufFromImage(layer), gg.DrawImageOptions{
		Interpolation: gg.InterpNearest,
		Opacity:       opacity(s.Opacity),
		BlendMode:     gg.BlendNormal,
	})
	return nil
}
