// Package surface defines the drawing contract the visualizers paint onto and
// its ebiten-backed implementation.
package surface

import (
	"image/color"
	"math"
)

// Blend selects how new paint combines with the existing pixels.
type Blend int

const (
	// BlendSourceOver is ordinary alpha compositing.
	BlendSourceOver Blend = iota
	// BlendScreen brightens: result = src + dst*(1-src).
	BlendScreen
)

func (b Blend) String() string {
	switch b {
	case BlendScreen:
		return "screen"
	default:
		return "source-over"
	}
}

// Surface is a 2D drawing context. Coordinates are in surface pixels with the
// origin at the top-left corner.
type Surface interface {
	FillRect(x, y, w, h float64, c color.Color)
	StrokeRect(x, y, w, h, lineWidth float64, c color.Color)
	FillCircle(cx, cy, r float64, c color.Color)
	StrokeCircle(cx, cy, r, lineWidth float64, c color.Color)
	Line(x0, y0, x1, y1, lineWidth float64, c color.Color)
	// RadialGradient fills a disc that fades linearly from inner at the
	// centre to outer at radius r.
	RadialGradient(cx, cy, r float64, inner, outer color.Color)
	SetBlend(b Blend)
}

// Finite reports whether every value is a real number.
func Finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
