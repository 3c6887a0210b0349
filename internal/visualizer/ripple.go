package visualizer

import (
	"math"

	"github.com/iburimskiy/spectral-visualizer/internal/spectrum"
	"github.com/iburimskiy/spectral-visualizer/internal/surface"
)

const (
	rippleParticles   = 50
	interferenceRange = 100.0
	rippleTimeInc     = 0.1
)

type wavelet struct {
	x, y      float64
	amplitude float64
	phase     float64
	frequency float64
}

// QuantumRipple orbits particles around fixed anchors; their orbit radius and
// speed follow the spectrum, and nearby anchors are joined by additive
// interference lines.
type QuantumRipple struct {
	surf          surface.Surface
	width, height float64
	particles     []wavelet
	time          float64
}

// NewQuantumRipple scatters the anchors and randomizes phases.
func NewQuantumRipple(s surface.Surface, width, height int, opts Options) *QuantumRipple {
	rng := opts.rng()
	q := &QuantumRipple{
		surf:      s,
		width:     float64(width),
		height:    float64(height),
		particles: make([]wavelet, rippleParticles),
	}
	for i := range q.particles {
		q.particles[i] = wavelet{
			x:         rng.Float64() * q.width,
			y:         rng.Float64() * q.height,
			amplitude: rng.Float64()*20 + 10,
			phase:     rng.Float64() * math.Pi * 2,
			frequency: rng.Float64()*0.02 + 0.01,
		}
	}
	return q
}

// position is the particle's drawn location, wrapped onto the surface.
func (q *QuantumRipple) position(p *wavelet) (float64, float64) {
	arg := q.time*p.frequency + p.phase
	x := wrap(p.x+math.Sin(arg)*p.amplitude, q.width)
	y := wrap(p.y+math.Cos(arg)*p.amplitude, q.height)
	return x, y
}

// Draw advances the shared clock by one frame.
func (q *QuantumRipple) Draw(samples spectrum.Buffer, sensitivity float64) {
	q.surf.FillRect(0, 0, q.width, q.height, trailFade)

	overall := finite(samples.Average() / 255 * sensitivity)

	for i := range q.particles {
		p := &q.particles[i]
		audio := finite(samples.Level(samples.Index(i, len(q.particles))) * sensitivity)

		p.amplitude = 10 + audio*40
		p.frequency = 0.01 + audio*0.03

		x, y := q.position(p)
		hue := audio * 360
		q.surf.RadialGradient(x, y, p.amplitude, hsla(hue, 1, 0.5, 0.8), hsla(hue, 1, 0.5, 0))
	}

	q.surf.SetBlend(surface.BlendScreen)
	for i := 0; i < len(q.particles); i++ {
		for j := i + 1; j < len(q.particles); j++ {
			a, b := &q.particles[i], &q.particles[j]
			d := math.Hypot(b.x-a.x, b.y-a.y)
			if d < interferenceRange {
				q.surf.Line(a.x, a.y, b.x, b.y, 2, hsla(overall*360, 1, 0.5, 1-d/interferenceRange))
			}
		}
	}
	q.surf.SetBlend(surface.BlendSourceOver)

	q.time += rippleTimeInc
}
