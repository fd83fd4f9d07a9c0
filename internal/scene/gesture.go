package scene

import "math"

// EraserWidthFactor multiplies the brush size for eraser strokes.
const EraserWidthFactor = 5

// WatercolorTension is the spline tension used by the watercolor brush.
const WatercolorTension = 0.5

// Style carries the drawing settings a gesture starts with.
type Style struct {
	Color      string
	BrushSize  float64
	Opacity    float64
	BrushType  BrushType
	Background string
}

// Start creates the zero-extent shape a pointer-down at p produces for kind.
// It reports false for kinds that are not drawn by gesture.
func Start(kind Kind, p Point, st Style) (Shape, bool) {
	s := Shape{
		ID:          NewID(),
		Kind:        kind,
		X:           p.X,
		Y:           p.Y,
		Fill:        Transparent,
		Stroke:      st.Color,
		StrokeWidth: st.BrushSize,
		Opacity:     st.Opacity,
	}
	switch kind {
	case KindRect, KindSquare, KindCircle:
	case KindTriangle:
		s.Sides = 3
	case KindLine:
		s.X, s.Y = 0, 0
		s.Fill = ""
		s.Points = []float64{p.X, p.Y}
		s.BrushType = st.BrushType
		if s.BrushType == "" {
			s.BrushType = BrushNormal
		}
		if s.BrushType == BrushWatercolor {
			s.Tension = WatercolorTension
		}
		s.LineCap, s.LineJoin = "round", "round"
	case KindStraightLine:
		s.X, s.Y = 0, 0
		s.Fill = ""
		s.Points = []float64{p.X, p.Y, p.X, p.Y}
	case KindEraser:
		s.X, s.Y = 0, 0
		s.Fill = ""
		s.Points = []float64{p.X, p.Y}
		s.Stroke = st.Background
		if s.Stroke == "" {
			s.Stroke = "#FFFFFF"
		}
		s.StrokeWidth = st.BrushSize * EraserWidthFactor
		s.Opacity = 1
		s.LineCap, s.LineJoin = "round", "round"
	default:
		return Shape{}, false
	}
	return s, true
}

// Grow extends an in-progress shape towards p. The gesture anchor is the
// shape's own origin, or its first point for strokes.
func (s *Shape) Grow(p Point) {
	switch s.Kind {
	case KindRect:
		s.Width = p.X - s.X
		s.Height = p.Y - s.Y
	case KindSquare:
		s.Size = math.Max(math.Abs(p.X-s.X), math.Abs(p.Y-s.Y))
	case KindCircle, KindTriangle:
		s.Radius = math.Hypot(p.X-s.X, p.Y-s.Y)
	case KindLine:
		if s.BrushType == BrushSpray {
			return
		}
		s.Points = append(s.Points, p.X, p.Y)
	case KindEraser:
		s.Points = append(s.Points, p.X, p.Y)
	case KindStraightLine:
		if len(s.Points) < 2 {
			s.Points = []float64{p.X, p.Y, p.X, p.Y}
			return
		}
		s.Points = []float64{s.Points[0], s.Points[1], p.X, p.Y}
	}
}

// Translate moves the shape by (dx, dy). Strokes shift every point, other
// kinds move their origin.
func (s *Shape) Translate(dx, dy float64) {
	if s.Kind.IsStroke() {
		pts := make([]float64, len(s.Points))
		for i := 0; i+1 < len(s.Points); i += 2 {
			pts[i] = s.Points[i] + dx
			pts[i+1] = s.Points[i+1] + dy
		}
		s.Points = pts
		return
	}
	s.X += dx
	s.Y += dy
}
