package scene

import (
	"encoding/json"

	"github.com/brunoga/deep"
	"github.com/google/uuid"
)

// Kind discriminates the drawable primitives held in a Document.
type Kind string

const (
	KindRect         Kind = "rect"
	KindSquare       Kind = "square"
	KindCircle       Kind = "circle"
	KindTriangle     Kind = "triangle"
	KindLine         Kind = "line"
	KindStraightLine Kind = "straightLine"
	KindEraser       Kind = "eraser"
	KindImage        Kind = "image"
)

// IsStroke reports whether the kind stores its geometry as a point list.
func (k Kind) IsStroke() bool {
	return k == KindLine || k == KindStraightLine || k == KindEraser
}

// BrushType selects how freehand lines are laid down.
type BrushType string

const (
	BrushNormal     BrushType = "normal"
	BrushWatercolor BrushType = "watercolor"
	BrushSpray      BrushType = "spray"
)

// Transparent is the fill used by outlined shapes.
const Transparent = "transparent"

// Point is a position in canvas coordinates.
type Point struct {
	X, Y float64
}

// Shape is one drawable record. Which geometry fields are meaningful depends
// on Kind.
type Shape struct {
	ID   string `json:"id"`
	Kind Kind   `json:"type"`

	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Size     float64 `json:"size,omitempty"`
	Radius   float64 `json:"radius,omitempty"`
	Sides    int     `json:"sides,omitempty"`
	Rotation float64 `json:"rotation,omitempty"`

	Points    []float64 `json:"points,omitempty"`
	BrushType BrushType `json:"brushType,omitempty"`
	Tension   float64   `json:"tension,omitempty"`
	LineCap   string    `json:"lineCap,omitempty"`
	LineJoin  string    `json:"lineJoin,omitempty"`

	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	Opacity     float64 `json:"opacity"`

	ScaleX         float64 `json:"scaleX,omitempty"`
	ScaleY         float64 `json:"scaleY,omitempty"`
	OriginalWidth  float64 `json:"originalWidth,omitempty"`
	OriginalHeight float64 `json:"originalHeight,omitempty"`
	OriginalSrc    string  `json:"originalSrc,omitempty"`

	// Bitmap is the key of the decoded image in the owning bitmap store.
	// It is rebuilt from OriginalSrc on load and never serialized.
	Bitmap string `json:"-"`
}

// UnmarshalJSON decodes a shape, treating a missing opacity as opaque.
func (s *Shape) UnmarshalJSON(data []byte) error {
	type plain Shape
	p := plain{Opacity: 1}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = Shape(p)
	return nil
}

// NewID returns a fresh shape identifier.
func NewID() string { return uuid.NewString() }

// Scale returns the image scale factors, treating unset values as 1.
func (s Shape) Scale() (float64, float64) {
	sx, sy := s.ScaleX, s.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	return sx, sy
}

// Document is the ordered shape list. Later shapes draw on top.
type Document []Shape

// Clone returns a copy that shares no mutable state with d.
func (d Document) Clone() Document {
	if d == nil {
		return Document{}
	}
	return deep.MustCopy(d)
}

// IndexOf returns the position of the shape with id, or -1.
func (d Document) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range d {
		if d[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns the shape with id.
func (d Document) Find(id string) (Shape, bool) {
	i := d.IndexOf(id)
	if i < 0 {
		return Shape{}, false
	}
	return d[i], true
}

// Replace returns a new document with the shape matching s.ID swapped for s.
// The receiver is left untouched.
func (d Document) Replace(s Shape) (Document, bool) {
	i := d.IndexOf(s.ID)
	if i < 0 {
		return d, false
	}
	out := make(Document, len(d))
	copy(out, d)
	out[i] = s
	return out, true
}

// Remove returns a new document without the shape with id.
func (d Document) Remove(id string) (Document, bool) {
	i := d.IndexOf(id)
	if i < 0 {
		return d, false
	}
	out := make(Document, 0, len(d)-1)
	out = append(out, d[:i]...)
	out = append(out, d[i+1:]...)
	return out, true
}

// Append returns a new document with shapes added on top.
func (d Document) Append(shapes ...Shape) Document {
	out := make(Document, 0, len(d)+len(shapes))
	out = append(out, d...)
	return append(out, shapes...)
}
