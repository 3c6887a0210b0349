package visualizer

import (
	"fmt"

	"github.com/iburimskiy/spectral-visualizer/internal/spectrum"
	"github.com/iburimskiy/spectral-visualizer/internal/surface"
)

// Strategy is the active rendering strategy together with its identity.
// Stateful kinds carry a Visualizer; stateless kinds dispatch to the pure
// drawers. Interaction is routed by Kind, never by inspecting the
// Visualizer's concrete type.
type Strategy struct {
	kind          Kind
	surf          surface.Surface
	width, height int

	vis Visualizer
	net *Synaptic
}

// NewStrategy builds a fresh strategy of the given kind for a width x height
// surface. Any previous state is the caller's to drop.
func NewStrategy(kind Kind, s surface.Surface, width, height int, opts Options) (*Strategy, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
	st := &Strategy{kind: kind, surf: s, width: width, height: height}
	switch kind {
	case KindConstellation:
		st.vis = NewConstellation(s, width, height, opts)
	case KindSynaptic:
		st.net = NewSynaptic(s, width, height, opts)
		st.vis = st.net
	case KindRainbowSquare:
		st.vis = NewRainbowSquare(s, width, height, opts)
	case KindQuantumRipple:
		st.vis = NewQuantumRipple(s, width, height, opts)
	}
	return st, nil
}

// Kind returns the strategy's identity.
func (s *Strategy) Kind() Kind { return s.kind }

// Size returns the dimensions the strategy was built for.
func (s *Strategy) Size() (int, int) { return s.width, s.height }

// Visualizer returns the stateful visualizer, or nil for stateless kinds.
func (s *Strategy) Visualizer() Visualizer { return s.vis }

// Draw paints one frame.
func (s *Strategy) Draw(samples spectrum.Buffer, sensitivity float64) {
	if s.vis != nil {
		s.vis.Draw(samples, sensitivity)
		return
	}
	switch s.kind {
	case KindBars:
		DrawBars(s.surf, s.width, s.height, samples, sensitivity)
	case KindWave:
		DrawWave(s.surf, s.width, s.height, samples, sensitivity)
	case KindCircular:
		DrawCircular(s.surf, s.width, s.height, samples, sensitivity)
	}
}

// HandleInteraction forwards a pointer event when the kind accepts one and
// reports whether it was forwarded.
func (s *Strategy) HandleInteraction(x, y float64) bool {
	if !s.kind.Interactive() {
		return false
	}
	s.net.HandleInteraction(x, y)
	return true
}
