package appstate

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/example/drawpad/internal/scene"
)

func setThickPixel(img *image.RGBA, x, y, thick int, col color.Color) {
	r := thick / 2
	b := img.Bounds()
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			if p := image.Pt(x+dx, y+dy); p.In(b) {
				img.Set(p.X, p.Y, col)
			}
		}
	}
}

// drawLine is a Bresenham line with square pixels of the given thickness.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy
	for {
		setThickPixel(img, x0, y0, thick, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	drawLine(img, rect.Min.X, rect.Min.Y, rect.Max.X-1, rect.Min.Y, col, thick)
	drawLine(img, rect.Max.X-1, rect.Min.Y, rect.Max.X-1, rect.Max.Y-1, col, thick)
	drawLine(img, rect.Max.X-1, rect.Max.Y-1, rect.Min.X, rect.Max.Y-1, col, thick)
	drawLine(img, rect.Min.X, rect.Max.Y-1, rect.Min.X, rect.Min.Y, col, thick)
}

// drawDashedLine alternates c1 and c2 every dash pixels along the segment.
func drawDashedLine(img *image.RGBA, a, b scene.Point, dash int, c1, c2 color.Color) {
	length := math.Hypot(b.X-a.X, b.Y-a.Y)
	steps := int(math.Ceil(length))
	if dash < 1 {
		dash = 1
	}
	b0 := img.Bounds()
	for i := 0; i <= steps; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		x := int(math.Round(a.X + (b.X-a.X)*t))
		y := int(math.Round(a.Y + (b.Y-a.Y)*t))
		if !image.Pt(x, y).In(b0) {
			continue
		}
		if (i/dash)%2 == 0 {
			img.Set(x, y, c1)
		} else {
			img.Set(x, y, c2)
		}
	}
}

// drawDashedPolygon outlines the closed polygon through pts.
func drawDashedPolygon(img *image.RGBA, pts []scene.Point, dash int, c1, c2 color.Color) {
	for i := range pts {
		drawDashedLine(img, pts[i], pts[(i+1)%len(pts)], dash, c1, c2)
	}
}

func rectCorners(r scene.Rect) []scene.Point {
	return []scene.Point{{X: r.MinX, Y: r.MinY}, {X: r.MaxX, Y: r.MinY}, {X: r.MaxX, Y: r.MaxY}, {X: r.MinX, Y: r.MaxY}}
}

// drawHandle draws a filled square selection handle.
func drawHandle(img *image.RGBA, r image.Rectangle, fill, border color.Color) {
	draw.Draw(img, r, &image.Uniform{fill}, image.Point{}, draw.Src)
	drawRect(img, r, border, 1)
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	rect = rect.Intersect(dst.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x-rect.Min.X)/size+(y-rect.Min.Y)/size)%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

func toRect(r scene.Rect) image.Rectangle {
	return image.Rect(int(math.Floor(r.MinX)), int(math.Floor(r.MinY)), int(math.Ceil(r.MaxX)), int(math.Ceil(r.MaxY)))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
