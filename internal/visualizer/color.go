package visualizer

import (
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// hsla converts CSS-style hue (degrees, any range), saturation, lightness and
// alpha (all 0-1) into a straight-alpha color.
func hsla(h, s, l, a float64) color.NRGBA {
	h = math.Mod(finite(h), 360)
	if h < 0 {
		h += 360
	}
	r, g, b := colorful.Hsl(h, clamp01(s), clamp01(l)).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha(a)}
}

func rgba(r, g, b, a float64) color.NRGBA {
	return color.NRGBA{R: channel(r), G: channel(g), B: channel(b), A: alpha(a)}
}

func withAlpha(c colorful.Color, a float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha(a)}
}

// channel rounds and clamps a 0-255 color component.
func channel(v float64) uint8 {
	v = math.Round(finite(v))
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

func alpha(a float64) uint8 {
	return uint8(math.Round(clamp01(finite(a)) * 255))
}
