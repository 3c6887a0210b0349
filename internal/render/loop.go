// Package render drives the active strategy once per display frame.
//
// A Loop is not safe for concurrent use: ticks, resizes, selection changes
// and pointer events must all arrive on the same goroutine, which is what
// ebiten's Update/Draw cycle gives us.
package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"
	"math"

	"github.com/iburimskiy/spectral-visualizer/internal/capture"
	"github.com/iburimskiy/spectral-visualizer/internal/spectrum"
	"github.com/iburimskiy/spectral-visualizer/internal/surface"
	"github.com/iburimskiy/spectral-visualizer/internal/visualizer"
)

const (
	MinSensitivity     = 0.5
	MaxSensitivity     = 4.0
	DefaultSensitivity = 1.5
)

// frameFade is laid over the whole surface at the start of every tick.
var frameFade = color.NRGBA{A: 51}

// State is the loop's capture state.
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Config is the initial setup of a Loop.
type Config struct {
	Width, Height int
	Kind          visualizer.Kind
	Sensitivity   float64
	Options       visualizer.Options
	Logger        *log.Logger
}

// Loop owns the sample buffer, the capture session and the active strategy.
type Loop struct {
	surf          surface.Surface
	width, height int
	opts          visualizer.Options
	logger        *log.Logger

	kind        visualizer.Kind
	active      *visualizer.Strategy
	sensitivity float64

	session capture.Session
	samples spectrum.Buffer
	state   State
	frames  uint64
}

// New builds an idle loop with a fresh strategy of cfg.Kind.
func New(surf surface.Surface, cfg Config) (*Loop, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	l := &Loop{
		surf:        surf,
		width:       cfg.Width,
		height:      cfg.Height,
		opts:        cfg.Options,
		logger:      logger,
		sensitivity: DefaultSensitivity,
	}
	if cfg.Sensitivity != 0 {
		l.SetSensitivity(cfg.Sensitivity)
	}
	if err := l.Select(cfg.Kind); err != nil {
		return nil, err
	}
	return l, nil
}

// State reports whether a capture session is bound.
func (l *Loop) State() State { return l.state }

// Kind is the current selection.
func (l *Loop) Kind() visualizer.Kind { return l.kind }

// Strategy returns the active strategy.
func (l *Loop) Strategy() *visualizer.Strategy { return l.active }

// Size returns the current surface dimensions.
func (l *Loop) Size() (int, int) { return l.width, l.height }

// Frames counts the ticks that reached a strategy.
func (l *Loop) Frames() uint64 { return l.frames }

// Samples exposes the buffer filled on the last tick, nil when idle.
func (l *Loop) Samples() spectrum.Buffer { return l.samples }

func (l *Loop) Sensitivity() float64 { return l.sensitivity }

// SetSensitivity stores v clamped into [MinSensitivity, MaxSensitivity].
func (l *Loop) SetSensitivity(v float64) {
	switch {
	case math.IsNaN(v):
		v = DefaultSensitivity
	case v < MinSensitivity:
		v = MinSensitivity
	case v > MaxSensitivity:
		v = MaxSensitivity
	}
	l.sensitivity = v
}

// Bind adopts a started capture session and enters Running. A session that
// was already bound is closed first.
func (l *Loop) Bind(s capture.Session) {
	if s == nil {
		return
	}
	if l.session != nil {
		if err := l.session.Close(); err != nil {
			l.logger.Printf("closing previous capture session: %v", err)
		}
	}
	l.session = s
	l.samples = spectrum.New(s.Bins())
	l.state = Running
}

// Stop releases the capture session and returns to Idle. It is safe to call
// when nothing is bound.
func (l *Loop) Stop() error {
	s := l.session
	l.session = nil
	l.samples = nil
	l.state = Idle
	if s == nil {
		return nil
	}
	if err := s.Close(); err != nil {
		return fmt.Errorf("render: close capture session: %w", err)
	}
	return nil
}

// Select swaps in a freshly built strategy of kind k; prior state is dropped.
func (l *Loop) Select(k visualizer.Kind) error {
	st, err := visualizer.NewStrategy(k, l.surf, l.width, l.height, l.opts)
	if err != nil {
		return err
	}
	l.kind = k
	l.active = st
	return nil
}

// Resize records the new surface size and rebuilds the active strategy for
// it. Simulation state is discarded.
func (l *Loop) Resize(width, height int) {
	if width == l.width && height == l.height {
		return
	}
	l.width, l.height = width, height
	if err := l.Select(l.kind); err != nil {
		l.logger.Printf("rebuilding %s after resize: %v", l.kind, err)
	}
}

// Click forwards a pointer event to the active strategy when its kind is
// interactive and reports whether it was delivered.
func (l *Loop) Click(x, y float64) bool {
	if l.active == nil || !l.kind.Interactive() {
		return false
	}
	return l.active.HandleInteraction(x, y)
}

// Tick renders one frame. While idle it does nothing. A failing read drops
// the session and returns the loop to Idle.
func (l *Loop) Tick() {
	if l.state != Running || l.session == nil {
		return
	}

	if err := l.session.Read(l.samples); err != nil {
		if !errors.Is(err, capture.ErrClosed) {
			l.logger.Printf("capture read failed, stopping: %v", err)
		}
		if cerr := l.Stop(); cerr != nil {
			l.logger.Printf("%v", cerr)
		}
		return
	}

	l.surf.FillRect(0, 0, float64(l.width), float64(l.height), frameFade)
	if l.active != nil {
		l.active.Draw(l.samples, l.sensitivity)
	}
	l.frames++
}
