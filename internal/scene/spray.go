package scene

import (
	"math"
	"math/rand"
)

// SprayRadius bounds how far spray dots land from the pointer.
const SprayRadius = 20

// SprayDensity is the number of dots produced per sample for a brush size.
func SprayDensity(brushSize float64) int {
	return int(brushSize * 2)
}

// Spray returns the filled dots laid down by one spray sample at p. Each dot
// is an independent circle shape.
func Spray(rng *rand.Rand, p Point, st Style) []Shape {
	n := SprayDensity(st.BrushSize)
	dots := make([]Shape, 0, n)
	for i := 0; i < n; i++ {
		r := rng.Float64() * SprayRadius
		a := rng.Float64() * 2 * math.Pi
		dots = append(dots, Shape{
			ID:      NewID(),
			Kind:    KindCircle,
			X:       p.X + r*math.Cos(a),
			Y:       p.Y + r*math.Sin(a),
			Radius:  rng.Float64()*st.BrushSize/2 + 0.5,
			Fill:    st.Color,
			Opacity: rng.Float64() * 0.7 * st.Opacity,
		})
	}
	return dots
}
