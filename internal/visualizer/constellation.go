package visualizer

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/iburimskiy/spectral-visualizer/internal/spectrum"
	"github.com/iburimskiy/spectral-visualizer/internal/surface"
)

const (
	constellationParticles = 100
	connectionDistance     = 100.0
)

var constellationLink = color.NRGBA{R: 255, G: 255, B: 255, A: 26}

type star struct {
	x, y  float64
	size  float64
	color color.NRGBA
	speed float64
}

// Constellation drifts particles upward and links neighbours with faint
// lines. Each particle's size and hue follow its frequency bin.
type Constellation struct {
	surf          surface.Surface
	width, height float64
	rng           *rand.Rand
	particles     []star
}

// NewConstellation scatters the particles over a width x height surface.
func NewConstellation(s surface.Surface, width, height int, opts Options) *Constellation {
	c := &Constellation{
		surf:   s,
		width:  float64(width),
		height: float64(height),
		rng:    opts.rng(),
	}
	c.particles = make([]star, constellationParticles)
	for i := range c.particles {
		c.particles[i] = star{
			x:     c.rng.Float64() * c.width,
			y:     c.rng.Float64() * c.height,
			size:  c.rng.Float64()*2 + 1,
			color: hsla(c.rng.Float64()*360, 0.5, 0.5, 1),
			speed: c.rng.Float64()*0.5 + 0.1,
		}
	}
	return c
}

func (c *Constellation) update(samples spectrum.Buffer) {
	for i := range c.particles {
		p := &c.particles[i]
		p.y -= p.speed
		if p.y < 0 {
			// Respawn along the bottom edge.
			p.y = wrap(p.y, c.height)
			p.x = c.rng.Float64() * c.width
		}

		// The raw 0-255 magnitude doubles as the hue in degrees.
		v := float64(samples.At(samples.Index(i, len(c.particles))))
		p.size = v/255*3 + 1
		p.color = hsla(v, 0.5, 0.5, 1)
	}
}

func (c *Constellation) drawConnections() {
	for i := 0; i < len(c.particles); i++ {
		for j := i + 1; j < len(c.particles); j++ {
			a, b := &c.particles[i], &c.particles[j]
			if math.Hypot(a.x-b.x, a.y-b.y) < connectionDistance {
				c.surf.Line(a.x, a.y, b.x, b.y, 0.5, constellationLink)
			}
		}
	}
}

func (c *Constellation) drawParticles() {
	for _, p := range c.particles {
		c.surf.FillCircle(p.x, p.y, p.size, p.color)
	}
}

// Draw advances the particles one frame and paints them.
func (c *Constellation) Draw(samples spectrum.Buffer, sensitivity float64) {
	c.surf.FillRect(0, 0, c.width, c.height, trailFade)

	c.update(samples)
	c.drawConnections()
	c.drawParticles()
}
