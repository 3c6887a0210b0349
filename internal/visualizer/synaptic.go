package visualizer

import (
	"math"
	"math/rand"

	"github.com/iburimskiy/spectral-visualizer/internal/spectrum"
	"github.com/iburimskiy/spectral-visualizer/internal/surface"
)

const (
	synapticNodes   = 32 // half of a 64-point transform
	maxConnections  = 3
	touchRadius     = 20.0
	synapticTimeInc = 0.1
)

type node struct {
	x, y        float64
	bin         int
	connections []int
	intensity   float64
}

// Synaptic is a network of nodes, one per low frequency bin, joined by
// fixed random connections. Nodes wander and glow with their bin's energy.
type Synaptic struct {
	surf          surface.Surface
	width, height float64
	nodes         []node
	time          float64
}

// NewSynaptic places the nodes at random and wires each to one to three
// distinct other nodes.
func NewSynaptic(s surface.Surface, width, height int, opts Options) *Synaptic {
	rng := opts.rng()
	n := &Synaptic{
		surf:   s,
		width:  float64(width),
		height: float64(height),
		nodes:  make([]node, synapticNodes),
	}
	for i := range n.nodes {
		n.nodes[i] = node{
			x:           rng.Float64() * n.width,
			y:           rng.Float64() * n.height,
			bin:         i,
			connections: randomConnections(rng, i, synapticNodes),
		}
	}
	return n
}

func randomConnections(rng *rand.Rand, self, count int) []int {
	want := rng.Intn(maxConnections) + 1
	if want > count-1 {
		want = count - 1
	}
	conns := make([]int, 0, want)
	for len(conns) < want {
		c := rng.Intn(count)
		if c == self || contains(conns, c) {
			continue
		}
		conns = append(conns, c)
	}
	return conns
}

func contains(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func (n *Synaptic) update(samples spectrum.Buffer) {
	for i := range n.nodes {
		nd := &n.nodes[i]
		nd.intensity = samples.Level(nd.bin)

		angle := (n.time + float64(i)) * 0.05
		dist := nd.intensity * 2
		nd.x = clampBelow(nd.x+math.Cos(angle)*dist, n.width)
		nd.y = clampBelow(nd.y+math.Sin(angle)*dist, n.height)
	}
}

func (n *Synaptic) drawConnections() {
	for _, nd := range n.nodes {
		for _, ci := range nd.connections {
			other := n.nodes[ci]
			intensity := (nd.intensity + other.intensity) / 2
			n.surf.Line(nd.x, nd.y, other.x, other.y, intensity*3, rgba(255, 255, 255, intensity*0.5))
		}
	}
}

func (n *Synaptic) drawNodes() {
	for _, nd := range n.nodes {
		radius := nd.intensity*10 + 2
		hue := float64(nd.bin) * (360.0 / synapticNodes)
		n.surf.FillCircle(nd.x, nd.y, radius, hsla(hue, 1, 0.5, nd.intensity))
	}
}

// Draw moves the nodes, then paints connections beneath the nodes. The
// network ignores sensitivity.
func (n *Synaptic) Draw(samples spectrum.Buffer, sensitivity float64) {
	n.surf.FillRect(0, 0, n.width, n.height, trailFade)

	n.update(samples)
	n.drawConnections()
	n.drawNodes()

	n.time += synapticTimeInc
}

// HandleInteraction lights up the node nearest to (x, y), if it is within
// reach, together with its direct connections.
func (n *Synaptic) HandleInteraction(x, y float64) {
	closest, best := -1, math.Inf(1)
	for i, nd := range n.nodes {
		if d := math.Hypot(nd.x-x, nd.y-y); d < best {
			closest, best = i, d
		}
	}
	if closest < 0 || best >= touchRadius {
		return
	}

	n.nodes[closest].intensity = 1
	for _, ci := range n.nodes[closest].connections {
		n.nodes[ci].intensity = 1
	}
}
