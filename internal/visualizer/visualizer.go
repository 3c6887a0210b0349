// Package visualizer implements the rendering strategies that turn one frame
// of spectrum magnitudes into a picture.
//
// Four strategies keep their own simulation state between frames
// (constellation, synaptic, rainbow square, quantum ripple). Three more
// (bars, wave, circular) are stateless drawers. All of them are selected by a
// Kind and held in a Strategy.
package visualizer

import (
	"image/color"
	"math"
	"math/rand"
	"time"

	"github.com/iburimskiy/spectral-visualizer/internal/spectrum"
)

// Visualizer paints one frame per Draw call. Draw must not retain samples
// after it returns and must tolerate any buffer, including an empty one.
type Visualizer interface {
	Draw(samples spectrum.Buffer, sensitivity float64)
}

// Interactive visualizers react to pointer input in surface coordinates.
type Interactive interface {
	HandleInteraction(x, y float64)
}

// Options carries the non-geometric dependencies of a strategy.
type Options struct {
	// Rand drives initial placement and respawns. Nil means a time-seeded source.
	Rand *rand.Rand
	// Now is the wall clock used for breathing effects. Nil means time.Now.
	Now func() time.Time
}

func (o Options) rng() *rand.Rand {
	if o.Rand != nil {
		return o.Rand
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func (o Options) clock() func() time.Time {
	if o.Now != nil {
		return o.Now
	}
	return time.Now
}

// trailFade is the translucent black each strategy lays over the previous
// frame before drawing.
var trailFade = color.NRGBA{A: 26}

// finite degrades NaN and infinities to zero.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// wrap maps v into [0, n) with toroidal wraparound.
func wrap(v, n float64) float64 {
	if n <= 0 {
		return 0
	}
	v = math.Mod(v, n)
	if v < 0 {
		v += n
	}
	if v >= n {
		v = 0
	}
	return v
}

// clampBelow keeps v inside [0, n), n exclusive.
func clampBelow(v, n float64) float64 {
	if n <= 0 || v < 0 {
		return 0
	}
	if v >= n {
		return math.Nextafter(n, 0)
	}
	return v
}
