// Package crop cuts sub-regions out of image shapes, either from a rectangle
// drawn over the canvas or from the modal cropper.
package crop

import (
	"errors"
	"image"
	"image/draw"
	"math"

	"github.com/example/drawpad/internal/scene"
)

// ErrEmpty is returned when a crop selection has no area.
var ErrEmpty = errors.New("crop selection is empty")

// Scale converts display units into source pixels.
type Scale struct {
	X, Y float64
}

// Extract copies the part of src covered by r. r is in display units and is
// multiplied by scale to find the source pixels. Parts of the selection that
// fall outside src are left transparent.
func Extract(src image.Image, scale Scale, r scene.Rect) (*image.RGBA, error) {
	if scale.X <= 0 || scale.Y <= 0 {
		return nil, ErrEmpty
	}
	b := src.Bounds()
	rect := image.Rect(
		int(math.Round(r.MinX*scale.X)),
		int(math.Round(r.MinY*scale.Y)),
		int(math.Round(r.MaxX*scale.X)),
		int(math.Round(r.MaxY*scale.Y)),
	).Add(b.Min)
	if rect.Dx() <= 0 || rect.Dy() <= 0 {
		return nil, ErrEmpty
	}
	from := rect.Intersect(b)
	if from.Empty() {
		return nil, ErrEmpty
	}
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(out, from.Sub(rect.Min), src, from.Min, draw.Src)
	return out, nil
}
