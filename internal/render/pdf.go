package render

import (
	"bytes"
	"fmt"
	"image/png"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/example/drawpad/internal/scene"
)

// WritePDF writes doc as a single page PDF the size of the stage, one point
// per canvas unit. Shapes become vector paths and images are embedded PNGs.
// View is ignored; the page always shows the whole stage.
func WritePDF(w io.Writer, doc scene.Document, imgs Images, opts Options) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("pdf: invalid size %dx%d", opts.Width, opts.Height)
	}
	pw, ph := float64(opts.Width), float64(opts.Height)
	p := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: pw, Ht: ph},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()
	if opts.Background != "" {
		if ok, err := setFill(p, opts.Background); err != nil {
			return fmt.Errorf("pdf: background: %w", err)
		} else if ok {
			p.Rect(0, 0, pw, ph, "F")
		}
	}
	for _, s := range doc {
		if err := pdfShape(p, s, imgs); err != nil {
			return fmt.Errorf("pdf: shape %s: %w", s.ID, err)
		}
	}
	if err := p.Output(w); err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	return nil
}

func pdfShape(p *gofpdf.Fpdf, s scene.Shape, imgs Images) error {
	p.SetAlpha(opacity(s.Opacity), "Normal")
	defer p.SetAlpha(1, "Normal")
	if s.Kind == scene.KindImage {
		return pdfImage(p, s, imgs)
	}
	style, err := pdfStyle(p, s)
	if err != nil || style == "" {
		return err
	}
	switch s.Kind {
	case scene.KindRect:
		p.Rect(s.X, s.Y, s.Width, s.Height, style)
	case scene.KindSquare:
		p.Rect(s.X, s.Y, s.Size, s.Size, style)
	case scene.KindCircle:
		p.Circle(s.X, s.Y, s.Radius, style)
	case scene.KindTriangle:
		var pts []gofpdf.PointType
		for _, v := range s.TrianglePoints() {
			pts = append(pts, gofpdf.PointType{X: v.X, Y: v.Y})
		}
		p.Polygon(pts, style)
	case scene.KindLine, scene.KindStraightLine, scene.KindEraser:
		pts := points(s.Points)
		if len(pts) == 0 {
			return nil
		}
		p.SetLineCapStyle("round")
		p.SetLineJoinStyle("round")
		p.MoveTo(pts[0].X, pts[0].Y)
		if len(pts) == 1 {
			p.LineTo(pts[0].X, pts[0].Y)
		}
		if s.BrushType == scene.BrushWatercolor && s.Tension > 0 && len(pts) > 2 {
			k := s.Tension / 3
			for i := 0; i < len(pts)-1; i++ {
				p0 := pts[max(i-1, 0)]
				p1, p2 := pts[i], pts[i+1]
				p3 := pts[min(i+2, len(pts)-1)]
				p.CurveBezierCubicTo(
					p1.X+(p2.X-p0.X)*k, p1.Y+(p2.Y-p0.Y)*k,
					p2.X-(p3.X-p1.X)*k, p2.Y-(p3.Y-p1.Y)*k,
					p2.X, p2.Y)
			}
		} else {
			for _, v := range pts[1:] {
				p.LineTo(v.X, v.Y)
			}
		}
		p.DrawPath("D")
	}
	return p.Error()
}

// pdfStyle sets the fill and draw colours of s and returns the gofpdf style
// string, empty when nothing is visible. Strokes never fill.
func pdfStyle(p *gofpdf.Fpdf, s scene.Shape) (string, error) {
	style := ""
	if !s.Kind.IsStroke() {
		ok, err := setFill(p, s.Fill)
		if err != nil {
			return "", err
		}
		if ok {
			style = "F"
		}
	}
	if s.StrokeWidth > 0 {
		ok, err := setDraw(p, s.Stroke)
		if err != nil {
			return "", err
		}
		if ok {
			p.SetLineWidth(s.StrokeWidth)
			style = "D" + style
		}
	}
	if style == "DF" {
		style = "FD"
	}
	return style, nil
}

func setFill(p *gofpdf.Fpdf, spec string) (bool, error) {
	if spec == "" {
		return false, nil
	}
	c, err := scene.ParseColor(spec)
	if err != nil || c.A == 0 {
		return false, err
	}
	p.SetFillColor(int(c.R), int(c.G), int(c.B))
	return true, nil
}

func setDraw(p *gofpdf.Fpdf, spec string) (bool, error) {
	if spec == "" {
		return false, nil
	}
	c, err := scene.ParseColor(spec)
	if err != nil || c.A == 0 {
		return false, err
	}
	p.SetDrawColor(int(c.R), int(c.G), int(c.B))
	return true, nil
}

func pdfImage(p *gofpdf.Fpdf, s scene.Shape, imgs Images) error {
	if imgs == nil {
		return nil
	}
	src, ok := imgs.Get(s.Bitmap)
	if !ok {
		return nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		return fmt.Errorf("encode image: %w", err)
	}
	name := "img-" + s.Bitmap
	opt := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader(name, opt, &buf)
	sx, sy := s.Scale()
	w, h := s.OriginalWidth*sx, s.OriginalHeight*sy
	if w == 0 || h == 0 {
		w, h = s.Width, s.Height
	}
	p.TransformBegin()
	if s.Rotation != 0 {
		// PDF angles run counter-clockwise.
		p.TransformRotate(-s.Rotation, s.X, s.Y)
	}
	p.ImageOptions(name, s.X, s.Y, w, h, false, opt, 0, "")
	p.TransformEnd()
	return p.Error()
}
