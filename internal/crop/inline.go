package crop

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/example/drawpad/internal/scene"
)

// InlineRect maps a crop rectangle dragged on the surface from a to b into
// the local display space of image shape s. view is the stage transform
// from canvas to surface coordinates. It also returns the canvas position of
// the rectangle's top-left corner, which becomes the cropped image's origin.
// Image rotation is not taken into account.
func InlineRect(view gg.Matrix, s scene.Shape, a, b scene.Point) (scene.Rect, scene.Point) {
	inv := view.Invert()
	tl := inv.TransformPoint(gg.Pt(math.Min(a.X, b.X), math.Min(a.Y, b.Y)))
	br := inv.TransformPoint(gg.Pt(math.Max(a.X, b.X), math.Max(a.Y, b.Y)))
	sx, sy := s.Scale()
	local := scene.Rect{
		MinX: (tl.X - s.X) / sx,
		MinY: (tl.Y - s.Y) / sy,
		MaxX: (br.X - s.X) / sx,
		MaxY: (br.Y - s.Y) / sy,
	}
	return local, scene.Point{X: tl.X, Y: tl.Y}
}
