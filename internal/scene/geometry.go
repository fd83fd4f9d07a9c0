package scene

import "math"

// minHitSlop is the smallest distance at which a thin stroke still counts
// as hit.
const minHitSlop = 3

// Rect is an axis-aligned box in canvas coordinates.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// RectFromPoints returns the normalised box spanned by a and b.
func RectFromPoints(a, b Point) Rect {
	return Rect{
		MinX: math.Min(a.X, b.X),
		MinY: math.Min(a.Y, b.Y),
		MaxX: math.Max(a.X, b.X),
		MaxY: math.Max(a.Y, b.Y),
	}
}

func (r Rect) Dx() float64 { return r.MaxX - r.MinX }
func (r Rect) Dy() float64 { return r.MaxY - r.MinY }

// Empty reports whether the box has no area.
func (r Rect) Empty() bool { return r.Dx() <= 0 || r.Dy() <= 0 }

func (r Rect) contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

func (r Rect) inset(d float64) Rect {
	return Rect{r.MinX + d, r.MinY + d, r.MaxX - d, r.MaxY - d}
}

// ImageCorners returns the four corners of an image shape after scale and
// rotation about its origin, clockwise from the origin.
func (s Shape) ImageCorners() [4]Point {
	sx, sy := s.Scale()
	w := s.OriginalWidth * sx
	h := s.OriginalHeight * sy
	rad := s.Rotation * math.Pi / 180
	sin, cos := math.Sincos(rad)
	rot := func(x, y float64) Point {
		return Point{X: s.X + x*cos - y*sin, Y: s.Y + x*sin + y*cos}
	}
	return [4]Point{rot(0, 0), rot(w, 0), rot(w, h), rot(0, h)}
}

// TrianglePoints returns the vertices of a triangle shape, first vertex up.
func (s Shape) TrianglePoints() []Point {
	n := s.Sides
	if n < 3 {
		n = 3
	}
	pts := make([]Point, n)
	base := -math.Pi/2 + s.Rotation*math.Pi/180
	for i := 0; i < n; i++ {
		a := base + 2*math.Pi*float64(i)/float64(n)
		pts[i] = Point{X: s.X + s.Radius*math.Cos(a), Y: s.Y + s.Radius*math.Sin(a)}
	}
	return pts
}

// Bounds returns the box covering the shape's geometry, stroke excluded.
func (s Shape) Bounds() Rect {
	switch s.Kind {
	case KindRect:
		return RectFromPoints(Point{s.X, s.Y}, Point{s.X + s.Width, s.Y + s.Height})
	case KindSquare:
		return RectFromPoints(Point{s.X, s.Y}, Point{s.X + s.Size, s.Y + s.Size})
	case KindCircle:
		return Rect{s.X - s.Radius, s.Y - s.Radius, s.X + s.Radius, s.Y + s.Radius}
	case KindTriangle:
		return boundsOf(s.TrianglePoints())
	case KindLine, KindStraightLine, KindEraser:
		pts := make([]Point, 0, len(s.Points)/2)
		for i := 0; i+1 < len(s.Points); i += 2 {
			pts = append(pts, Point{s.Points[i], s.Points[i+1]})
		}
		return boundsOf(pts)
	case KindImage:
		c := s.ImageCorners()
		return boundsOf(c[:])
	}
	return Rect{}
}

func boundsOf(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	r := Rect{pts[0].X, pts[0].Y, pts[0].X, pts[0].Y}
	for _, p := range pts[1:] {
		r.MinX = math.Min(r.MinX, p.X)
		r.MinY = math.Min(r.MinY, p.Y)
		r.MaxX = math.Max(r.MaxX, p.X)
		r.MaxY = math.Max(r.MaxY, p.Y)
	}
	return r
}

// Contains reports whether p hits the shape. Filled interiors count even
// when the fill is transparent.
func (s Shape) Contains(p Point) bool {
	half := math.Max(s.StrokeWidth/2, minHitSlop)
	switch s.Kind {
	case KindRect, KindSquare:
		return s.Bounds().inset(-half).contains(p)
	case KindCircle:
		return math.Hypot(p.X-s.X, p.Y-s.Y) <= s.Radius+half
	case KindTriangle:
		pts := s.TrianglePoints()
		if insidePolygon(pts, p) {
			return true
		}
		for i := range pts {
			if segmentDistance(p, pts[i], pts[(i+1)%len(pts)]) <= half {
				return true
			}
		}
		return false
	case KindLine, KindStraightLine, KindEraser:
		if len(s.Points) == 2 {
			return math.Hypot(p.X-s.Points[0], p.Y-s.Points[1]) <= half
		}
		for i := 0; i+3 < len(s.Points); i += 2 {
			a := Point{s.Points[i], s.Points[i+1]}
			b := Point{s.Points[i+2], s.Points[i+3]}
			if segmentDistance(p, a, b) <= half {
				return true
			}
		}
		return false
	case KindImage:
		c := s.ImageCorners()
		return insidePolygon(c[:], p)
	}
	return false
}

// HitTest returns the ID of the topmost shape under p.
func HitTest(doc Document, p Point) (string, bool) {
	for i := len(doc) - 1; i >= 0; i-- {
		if doc[i].Contains(p) {
			return doc[i].ID, true
		}
	}
	return "", false
}

func segmentDistance(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}

func insidePolygon(pts []Point, p Point) bool {
	in := false
	j := len(pts) - 1
	for i := range pts {
		pi, pj := pts[i], pts[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) &&
			p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			in = !in
		}
		j = i
	}
	return in
}
