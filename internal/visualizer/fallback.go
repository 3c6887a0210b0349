package visualizer

import (
	"image/color"
	"math"

	"github.com/iburimskiy/spectral-visualizer/internal/spectrum"
	"github.com/iburimskiy/spectral-visualizer/internal/surface"
)

var fallbackGreen = color.NRGBA{G: 255, A: 255}

// DrawBars paints one vertical bar per bin along the bottom edge.
func DrawBars(s surface.Surface, width, height int, samples spectrum.Buffer, sensitivity float64) {
	n := len(samples)
	if n == 0 {
		return
	}
	w, h := float64(width), float64(height)
	barWidth := w / float64(n) * 2.5
	x := 0.0
	for i, v := range samples {
		frac := float64(i) / float64(n)
		barHeight := float64(v) / 255 * h * sensitivity
		s.FillRect(x, h-barHeight, barWidth, barHeight, rgba(barHeight+25*frac, 250*frac, 50, 1))
		x += barWidth + 1
	}
}

// DrawWave paints the spectrum as a polyline across the surface.
func DrawWave(s surface.Surface, width, height int, samples spectrum.Buffer, sensitivity float64) {
	n := len(samples)
	if n == 0 {
		return
	}
	w, h := float64(width), float64(height)
	slice := w / float64(n)

	px, py := 0.0, 0.0
	x := 0.0
	for i, v := range samples {
		y := float64(v) / 128 * sensitivity * h / 2
		if i > 0 {
			s.Line(px, py, x, y, 2, fallbackGreen)
		}
		px, py = x, y
		x += slice
	}
	s.Line(px, py, w, h/2, 2, fallbackGreen)
}

// DrawCircular paints a ring with one radial spoke per bin.
func DrawCircular(s surface.Surface, width, height int, samples spectrum.Buffer, sensitivity float64) {
	w, h := float64(width), float64(height)
	cx, cy := w/2, h/2
	radius := math.Min(w, h) / 3

	s.StrokeCircle(cx, cy, radius, 1, fallbackGreen)

	n := len(samples)
	if n == 0 {
		return
	}
	step := math.Pi * 2 / float64(n)
	for i, v := range samples {
		spoke := float64(v) / 255 * radius * sensitivity
		cos, sin := math.Cos(step*float64(i)), math.Sin(step*float64(i))
		s.Line(cx+cos*radius, cy+sin*radius, cx+cos*(radius+spoke), cy+sin*(radius+spoke), 1,
			hsla(float64(i)/float64(n)*360, 1, 0.5, 1))
	}
}
