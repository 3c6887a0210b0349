package visualizer

import (
	"math"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/spectral-visualizer/internal/spectrum"
	"github.com/iburimskiy/spectral-visualizer/internal/surface"
)

const (
	levelRetain     = 0.8
	riseRate        = 0.1
	colorThreshold  = 0.5
	trailCount      = 6
	trailStep       = 15.0
	breathPeriodMs  = 200.0
	breathAmplitude = 0.1
)

var rainbowPalette = []colorful.Color{
	colorful.MustParseHex("#FF0000"),
	colorful.MustParseHex("#FF7F00"),
	colorful.MustParseHex("#FFFF00"),
	colorful.MustParseHex("#00FF00"),
	colorful.MustParseHex("#0000FF"),
	colorful.MustParseHex("#4B0082"),
	colorful.MustParseHex("#9400D3"),
}

// glowPasses approximate a soft 20px shadow around the outline.
var glowPasses = []struct{ width, alpha float64 }{
	{18, 0.08},
	{12, 0.15},
	{6, 0.3},
}

// RainbowSquare is a square that rises and swells with the bass, leaves
// rainbow trails, and steps through the palette on loud passages.
type RainbowSquare struct {
	surf          surface.Surface
	width, height float64
	now           func() time.Time

	baseSize   float64
	colorIndex int
	y          float64
	level      float64
}

// NewRainbowSquare centres the square vertically at rest.
func NewRainbowSquare(s surface.Surface, width, height int, opts Options) *RainbowSquare {
	w, h := float64(width), float64(height)
	return &RainbowSquare{
		surf:     s,
		width:    w,
		height:   h,
		now:      opts.clock(),
		baseSize: math.Min(w, h) / 4,
		y:        h / 2,
	}
}

// Level is the smoothed low-frequency level.
func (r *RainbowSquare) Level() float64 { return r.level }

// ColorIndex is the palette position of the main square.
func (r *RainbowSquare) ColorIndex() int { return r.colorIndex }

func (r *RainbowSquare) update(samples spectrum.Buffer, sensitivity float64) {
	// Bass emphasis: only the lowest third of the spectrum counts.
	avg := finite(samples.Mean(0, len(samples)/3))
	raw := finite(avg / 255 * sensitivity)
	r.level = r.level*levelRetain + raw*(1-levelRetain)

	target := r.height - r.level*r.height
	r.y += (target - r.y) * riseRate
}

func (r *RainbowSquare) pulseSize() float64 {
	base := r.baseSize + r.level*r.baseSize
	ms := float64(r.now().UnixNano()) / float64(time.Millisecond)
	return base + math.Sin(ms/breathPeriodMs)*base*breathAmplitude
}

// Draw eases the square toward its target height and paints trails, body
// and glow.
func (r *RainbowSquare) Draw(samples spectrum.Buffer, sensitivity float64) {
	r.surf.FillRect(0, 0, r.width, r.height, trailFade)

	r.update(samples, sensitivity)
	size := r.pulseSize()
	cx := r.width / 2
	n := len(rainbowPalette)

	for i := trailCount - 1; i >= 0; i-- {
		trail := size - float64(i)*trailStep
		a := 1 - float64(i)/float64(trailCount-1)
		c := rainbowPalette[(r.colorIndex-i+n*trailCount)%n]
		r.surf.FillRect(cx-trail/2, r.y-trail/2, trail, trail, withAlpha(c, a))
	}

	current := rainbowPalette[r.colorIndex]
	x, y := cx-size/2, r.y-size/2
	r.surf.FillRect(x, y, size, size, withAlpha(current, 1))
	for _, g := range glowPasses {
		r.surf.StrokeRect(x, y, size, size, g.width, withAlpha(current, g.alpha))
	}
	r.surf.StrokeRect(x, y, size, size, 2, withAlpha(current, 1))

	if r.level > colorThreshold {
		r.colorIndex = (r.colorIndex + 1) % n
	}
}
