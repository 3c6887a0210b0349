// Package capture provides the audio sources that feed the render loop:
// live microphone input through PortAudio and file playback through beep.
package capture

import (
	"context"
	"errors"
	"time"

	"github.com/iburimskiy/spectral-visualizer/internal/spectrum"
)

var (
	// ErrUnavailable reports that no capture session could be started:
	// permission denied, no device, a cancelled file dialog or an unreadable file.
	ErrUnavailable = errors.New("capture: audio input unavailable")

	// ErrClosed is returned by Read after the session has been closed.
	ErrClosed = errors.New("capture: session closed")
)

// Source starts capture sessions. Open may block (device negotiation, file
// dialogs) and must honour ctx cancellation where it can.
type Source interface {
	Open(ctx context.Context) (Session, error)
}

// Session is a live capture. The number of bins is fixed for its lifetime.
type Session interface {
	// Bins is the length of the buffer Read expects.
	Bins() int
	// Read overwrites dst with the most recent spectrum.
	Read(dst spectrum.Buffer) error
	// Close releases the audio resource. It is safe to call more than once.
	Close() error
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (Session, error)

func (f SourceFunc) Open(ctx context.Context) (Session, error) { return f(ctx) }

// Playback is implemented by sessions that play a finite track.
type Playback interface {
	Title() string
	Progress() (pos, total time.Duration)
}

var _ Playback = (*fileSession)(nil)
