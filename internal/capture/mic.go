package capture

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"

	"github.com/iburimskiy/spectral-visualizer/internal/spectrum"
)

const (
	DefaultSampleRate      = 44100
	DefaultFramesPerBuffer = 512
)

// MicSource captures the default PortAudio input device.
type MicSource struct {
	SampleRate      float64
	FramesPerBuffer int
	Analyser        spectrum.AnalyserConfig
}

// NewMicSource returns a microphone source with the default rate and buffer.
func NewMicSource(cfg spectrum.AnalyserConfig) *MicSource {
	return &MicSource{
		SampleRate:      DefaultSampleRate,
		FramesPerBuffer: DefaultFramesPerBuffer,
		Analyser:        cfg,
	}
}

// Open initializes PortAudio and starts a mono input stream whose callback
// feeds the analyser.
func (m *MicSource) Open(ctx context.Context) (Session, error) {
	analyser, err := spectrum.NewAnalyser(m.Analyser)
	if err != nil {
		return nil, err
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: portaudio init: %v", ErrUnavailable, err)
	}

	stream, err := portaudio.OpenDefaultStream(1, 0, m.SampleRate, m.FramesPerBuffer, func(in []float32) {
		analyser.WriteFloat32(in)
	})
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("%w: open input stream: %v", ErrUnavailable, err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("%w: start input stream: %v", ErrUnavailable, err)
	}

	s := &micSession{stream: stream, analyser: analyser}
	if err := ctx.Err(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

type micSession struct {
	stream   *portaudio.Stream
	analyser *spectrum.Analyser
	closed   atomic.Bool
	once     sync.Once
	err      error
}

func (s *micSession) Bins() int { return s.analyser.Bins() }

func (s *micSession) Read(dst spectrum.Buffer) error {
	if s.closed.Load() {
		return ErrClosed
	}
	s.analyser.ByteFrequencyData(dst)
	return nil
}

func (s *micSession) Close() error {
	s.once.Do(func() {
		s.closed.Store(true)
		if err := s.stream.Stop(); err != nil {
			s.err = err
		}
		if err := s.stream.Close(); err != nil && s.err == nil {
			s.err = err
		}
		_ = portaudio.Terminate()
	})
	return s.err
}

// Device describes a capture-capable PortAudio device.
type Device struct {
	Name              string
	HostAPI           string
	MaxInputChannels  int
	DefaultSampleRate float64
	Default           bool
}

// InputDevices lists the devices that can record at least one channel.
func InputDevices() ([]Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: portaudio init: %v", ErrUnavailable, err)
	}
	defer portaudio.Terminate()

	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("capture: list devices: %w", err)
	}
	def, _ := portaudio.DefaultInputDevice()

	var out []Device
	for _, d := range infos {
		if d.MaxInputChannels < 1 {
			continue
		}
		dev := Device{
			Name:              d.Name,
			MaxInputChannels:  d.MaxInputChannels,
			DefaultSampleRate: d.DefaultSampleRate,
			Default:           def != nil && def.Name == d.Name,
		}
		if d.HostApi != nil {
			dev.HostAPI = d.HostApi.Name
		}
		out = append(out, dev)
	}
	return out, nil
}
