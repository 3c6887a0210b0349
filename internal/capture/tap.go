package capture

import (
	"github.com/faiface/beep"

	"github.com/iburimskiy/spectral-visualizer/internal/spectrum"
)

// visualTap wraps a beep.Streamer and mirrors every played sample, mixed down
// to mono, into an analyser so the renderer sees what the speaker plays.
type visualTap struct {
	Source   beep.Streamer
	analyser *spectrum.Analyser
	mono     []float64
}

func newVisualTap(src beep.Streamer, analyser *spectrum.Analyser) *visualTap {
	return &visualTap{
		Source:   src,
		analyser: analyser,
	}
}

func (t *visualTap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n > 0 {
		if cap(t.mono) < n {
			t.mono = make([]float64, n)
		}
		mono := t.mono[:n]
		for i := 0; i < n; i++ {
			mono[i] = (samples[i][0] + samples[i][1]) * 0.5
		}
		t.analyser.Write(mono)
	}
	return n, ok
}

func (t *visualTap) Err() error { return t.Source.Err() }
