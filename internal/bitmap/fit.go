package bitmap

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// InsertFraction is the share of the smaller stage side an inserted image
// may occupy before it is scaled down.
const InsertFraction = 0.8

// MaxInsertDimension returns the largest side an inserted image keeps on a
// stage of the given size.
func MaxInsertDimension(stageW, stageH float64) float64 {
	return math.Min(stageW, stageH) * InsertFraction
}

// Fit scales (w, h) down so neither side exceeds maxDim, keeping the aspect
// ratio. Sizes already within bounds are returned unchanged.
func Fit(w, h, maxDim float64) (float64, float64) {
	if w <= maxDim && h <= maxDim {
		return w, h
	}
	if w > h {
		return maxDim, h / w * maxDim
	}
	return w / h * maxDim, maxDim
}

// Resize resamples img to w x h pixels with Catmull-Rom filtering.
func Resize(img image.Image, w, h int) *image.RGBA {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return ToRGBA(img)
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
