package spectrum

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"sync"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// ErrFFTSize is returned for transform sizes that are not a power of two in
// the supported range.
var ErrFFTSize = errors.New("spectrum: fft size must be a power of two between 32 and 32768")

// AnalyserConfig mirrors the knobs of a browser AnalyserNode.
type AnalyserConfig struct {
	FFTSize     int     `yaml:"fft_size"`
	MinDecibels float64 `yaml:"min_decibels"`
	MaxDecibels float64 `yaml:"max_decibels"`
	Smoothing   float64 `yaml:"smoothing"`
}

// DefaultAnalyserConfig returns the settings the visualizer was tuned for:
// 512 bins, a -90..-10 dB window and heavy temporal smoothing.
func DefaultAnalyserConfig() AnalyserConfig {
	return AnalyserConfig{
		FFTSize:     1024,
		MinDecibels: -90,
		MaxDecibels: -10,
		Smoothing:   0.85,
	}
}

// Validate checks the transform size, the decibel range and the smoothing
// constant.
func (c AnalyserConfig) Validate() error {
	if c.FFTSize < 32 || c.FFTSize > 32768 || c.FFTSize&(c.FFTSize-1) != 0 {
		return fmt.Errorf("%w: got %d", ErrFFTSize, c.FFTSize)
	}
	if c.MinDecibels >= c.MaxDecibels {
		return fmt.Errorf("spectrum: min decibels %.1f must be below max decibels %.1f", c.MinDecibels, c.MaxDecibels)
	}
	if c.Smoothing < 0 || c.Smoothing >= 1 {
		return fmt.Errorf("spectrum: smoothing %.2f outside [0, 1)", c.Smoothing)
	}
	return nil
}

// Analyser turns a stream of mono time-domain samples into byte magnitudes.
//
// Write may be called from an audio callback goroutine while the render
// goroutine calls ByteFrequencyData; ByteFrequencyData itself must not be
// called concurrently with itself.
type Analyser struct {
	cfg AnalyserConfig

	mu   sync.Mutex
	ring []float64
	pos  int

	window []float64
	frame  []float64
	smooth []float64
}

// NewAnalyser validates cfg and allocates the ring and scratch buffers.
func NewAnalyser(cfg AnalyserConfig) (*Analyser, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Analyser{
		cfg:    cfg,
		ring:   make([]float64, cfg.FFTSize),
		window: window.Blackman(cfg.FFTSize),
		frame:  make([]float64, cfg.FFTSize),
		smooth: make([]float64, cfg.FFTSize/2),
	}, nil
}

// Bins is the number of magnitudes produced per frame.
func (a *Analyser) Bins() int {
	return a.cfg.FFTSize / 2
}

// Write appends mono samples to the ring, overwriting the oldest.
func (a *Analyser) Write(samples []float64) {
	a.mu.Lock()
	for _, s := range samples {
		a.ring[a.pos] = s
		a.pos = (a.pos + 1) % len(a.ring)
	}
	a.mu.Unlock()
}

// WriteFloat32 is Write for float32 capture callbacks.
func (a *Analyser) WriteFloat32(samples []float32) {
	a.mu.Lock()
	for _, s := range samples {
		a.ring[a.pos] = float64(s)
		a.pos = (a.pos + 1) % len(a.ring)
	}
	a.mu.Unlock()
}

// ByteFrequencyData fills dst with the current spectrum, one byte per bin.
// Bins beyond the analyser's range are zeroed.
func (a *Analyser) ByteFrequencyData(dst Buffer) {
	n := len(a.ring)

	// Copy the newest n samples in chronological order.
	a.mu.Lock()
	for i := 0; i < n; i++ {
		a.frame[i] = a.ring[(a.pos+i)%n] * a.window[i]
	}
	a.mu.Unlock()

	spectrum := fft.FFTReal(a.frame)

	tau := a.cfg.Smoothing
	span := a.cfg.MaxDecibels - a.cfg.MinDecibels
	for k := range dst {
		if k >= len(a.smooth) {
			dst[k] = 0
			continue
		}
		mag := cmplx.Abs(spectrum[k]) / float64(n)
		a.smooth[k] = tau*a.smooth[k] + (1-tau)*mag

		if a.smooth[k] <= 0 {
			dst[k] = 0
			continue
		}
		db := 20 * math.Log10(a.smooth[k])
		scaled := 255 * (db - a.cfg.MinDecibels) / span
		switch {
		case math.IsNaN(scaled) || scaled <= 0:
			dst[k] = 0
		case scaled >= 255:
			dst[k] = 255
		default:
			dst[k] = uint8(scaled)
		}
	}
}
