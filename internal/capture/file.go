package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/spectral-visualizer/internal/spectrum"
)

// ErrUnsupportedFormat is wrapped (together with ErrUnavailable) when the
// file extension has no decoder.
var ErrUnsupportedFormat = errors.New("capture: unsupported file type")

// FileSource plays an audio file through the speaker and analyses what is
// played. An empty Path asks the user for a file with a native dialog.
type FileSource struct {
	Path     string
	Analyser spectrum.AnalyserConfig
}

type decodeFunc func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)

func decoderFor(path string) (decodeFunc, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(f) }, nil
	case ".mp3":
		return func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return mp3.Decode(f) }, nil
	case ".flac":
		return func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return flac.Decode(f) }, nil
	default:
		return nil, fmt.Errorf("%w: %w %q", ErrUnavailable, ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func selectFile() (string, error) {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Audio File"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: []string{"*.wav", "*.mp3", "*.flac"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", fmt.Errorf("%w: no file selected", ErrUnavailable)
		}
		return "", fmt.Errorf("%w: file dialog: %v", ErrUnavailable, err)
	}
	return filename, nil
}

// Open decodes the file and starts playback.
func (s *FileSource) Open(ctx context.Context) (Session, error) {
	analyser, err := spectrum.NewAnalyser(s.Analyser)
	if err != nil {
		return nil, err
	}

	path := s.Path
	if path == "" {
		if path, err = selectFile(); err != nil {
			return nil, err
		}
	}
	decode, err := decoderFor(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	streamer, format, err := decode(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: decode %s: %v", ErrUnavailable, filepath.Base(path), err)
	}
	if err := ctx.Err(); err != nil {
		_ = streamer.Close()
		_ = f.Close()
		return nil, err
	}

	if err := initSpeaker(format.SampleRate); err != nil {
		_ = streamer.Close()
		_ = f.Close()
		return nil, fmt.Errorf("%w: speaker: %v", ErrUnavailable, err)
	}

	// streamer -> tap -> ctrl -> speaker
	tap := newVisualTap(streamer, analyser)
	ctrl := &beep.Ctrl{Streamer: tap}
	session := &fileSession{
		file:     f,
		streamer: streamer,
		format:   format,
		ctrl:     ctrl,
		analyser: analyser,
		name:     filepath.Base(path),
	}
	speaker.Play(beep.Seq(ctrl, beep.Callback(session.finish)))
	return session, nil
}

var (
	speakerMu   sync.Mutex
	speakerRate beep.SampleRate
)

// initSpeaker (re)initializes the shared speaker when the sample rate
// changes and otherwise stops whatever is playing.
func initSpeaker(sr beep.SampleRate) error {
	speakerMu.Lock()
	defer speakerMu.Unlock()

	if speakerRate == sr {
		speaker.Clear()
		return nil
	}
	if speakerRate != 0 {
		speaker.Clear()
	}
	if err := speaker.Init(sr, sr.N(time.Second/20)); err != nil {
		return err
	}
	speakerRate = sr
	return nil
}

type fileSession struct {
	name string

	file     io.Closer
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	analyser *spectrum.Analyser

	closed atomic.Bool
	once   sync.Once
}

func (s *fileSession) Bins() int { return s.analyser.Bins() }

// Read keeps returning (decaying) data after playback ends; only Close ends
// the session.
func (s *fileSession) Read(dst spectrum.Buffer) error {
	if s.closed.Load() {
		return ErrClosed
	}
	s.analyser.ByteFrequencyData(dst)
	return nil
}

func (s *fileSession) Title() string { return s.name }

// Progress reports the playback position and the track length.
func (s *fileSession) Progress() (pos, total time.Duration) {
	if s.closed.Load() {
		return 0, 0
	}
	speaker.Lock()
	p, n := s.streamer.Position(), s.streamer.Len()
	speaker.Unlock()
	return s.format.SampleRate.D(p), s.format.SampleRate.D(n)
}

// finish runs on the speaker goroutine when the stream is exhausted.
func (s *fileSession) finish() {
	s.analyser.Write(make([]float64, s.analyser.Bins()*2))
}

func (s *fileSession) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		speaker.Lock()
		s.ctrl.Paused = true
		speaker.Unlock()
		speaker.Clear()
		if cerr := s.streamer.Close(); cerr != nil {
			err = cerr
		}
		// mp3 streamers close the file themselves.
		if cerr := s.file.Close(); cerr != nil && !errors.Is(cerr, os.ErrClosed) && err == nil {
			err = cerr
		}
	})
	return err
}
