package render

import (
	"image"
	"image/color"
	"image/draw"
)

// Shadow describes a blurred drop shadow added around a flattened export.
type Shadow struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// DefaultShadow is the shadow used by `export png -shadow`.
func DefaultShadow() Shadow {
	return Shadow{Radius: 16, Offset: image.Pt(10, 10), Opacity: 0.45}
}

// Apply returns img composited over its own blurred silhouette. The result
// grows to hold the shadow and always starts at the origin. A shadow with no
// opacity returns img unchanged.
func (s Shadow) Apply(img *image.RGBA) *image.RGBA {
	if img == nil || img.Bounds().Empty() || s.Opacity <= 0 {
		return img
	}
	alpha := min(s.Opacity, 1)
	radius := max(s.Radius, 0)

	src := img.Bounds()
	padded := src.Inset(-radius)
	cast := padded.Add(s.Offset)
	all := src.Union(cast)

	mask := image.NewAlpha(padded.Sub(padded.Min))
	for y := src.Min.Y; y < src.Max.Y; y++ {
		for x := src.Min.X; x < src.Max.X; x++ {
			if a := img.RGBAAt(x, y).A; a != 0 {
				mask.SetAlpha(x-padded.Min.X, y-padded.Min.Y, color.Alpha{A: a})
			}
		}
	}
	mask = boxBlur(mask, radius)

	out := image.NewRGBA(all.Sub(all.Min))
	tint := image.NewUniform(color.RGBA{A: uint8(alpha*255 + 0.5)})
	draw.DrawMask(out, mask.Bounds().Add(cast.Min.Sub(all.Min)), tint, image.Point{}, mask, image.Point{}, draw.Over)
	draw.Draw(out, src.Sub(all.Min), img, src.Min, draw.Over)
	return out
}

// boxBlur runs a horizontal then a vertical running-sum pass of the given
// radius over m.
func boxBlur(m *image.Alpha, radius int) *image.Alpha {
	if radius == 0 {
		return m
	}
	w, h := m.Bounds().Dx(), m.Bounds().Dy()
	pass := func(dst, src *image.Alpha, n, length int, at func(i, j int) int) {
		sums := make([]int, length+1)
		for i := 0; i < n; i++ {
			for j := 0; j < length; j++ {
				sums[j+1] = sums[j] + int(src.Pix[at(i, j)])
			}
			for j := 0; j < length; j++ {
				lo, hi := max(j-radius, 0), min(j+radius, length-1)
				dst.Pix[at(i, j)] = uint8((sums[hi+1] - sums[lo]) / (hi - lo + 1))
			}
		}
	}
	tmp := image.NewAlpha(m.Bounds())
	pass(tmp, m, h, w, func(y, x int) int { return y*m.Stride + x })
	out := image.NewAlpha(m.Bounds())
	pass(out, tmp, w, h, func(x, y int) int { return y*m.Stride + x })
	return out
}
