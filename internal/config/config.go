package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/iburimskiy/spectral-visualizer/internal/render"
	"github.com/iburimskiy/spectral-visualizer/internal/spectrum"
	"github.com/iburimskiy/spectral-visualizer/internal/visualizer"
)

const (
	WindowWidth  = 800
	WindowHeight = 400

	MinSensitivity     = render.MinSensitivity
	MaxSensitivity     = render.MaxSensitivity
	DefaultSensitivity = render.DefaultSensitivity

	// Button dimensions
	ButtonWidth  = 120
	ButtonHeight = 40
	ButtonX      = 20
	ButtonY      = 20

	// Status line
	StatusX = 20
	StatusY = 70

	SensitivityStep = 0.1
)

const (
	SourceMic  = "mic"
	SourceFile = "file"
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Width       int                     `yaml:"width"`
	Height      int                     `yaml:"height"`
	Strategy    visualizer.Kind         `yaml:"strategy"`
	Sensitivity float64                 `yaml:"sensitivity"`
	Source      string                  `yaml:"source"`
	File        string                  `yaml:"file,omitempty"`
	Seed        int64                   `yaml:"seed"`
	Fullscreen  bool                    `yaml:"fullscreen"`
	Verbose     bool                    `yaml:"verbose"`
	Analyser    spectrum.AnalyserConfig `yaml:"analyser"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:       WindowWidth,
		Height:      WindowHeight,
		Strategy:    visualizer.KindQuantumRipple,
		Sensitivity: DefaultSensitivity,
		Source:      SourceMic,
		Analyser:    spectrum.DefaultAnalyserConfig(),
	}
}

// Load reads a yaml file over the defaults; keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	return LoadInto(path, DefaultConfig())
}

// LoadInto reads a yaml file over a copy of base, so a preset survives keys
// the file leaves out. base itself is not modified.
func LoadInto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: window %dx%d", ErrInvalid, c.Width, c.Height)
	}
	if !c.Strategy.Valid() {
		return fmt.Errorf("%w: strategy %s", ErrInvalid, c.Strategy)
	}
	if math.IsNaN(c.Sensitivity) || c.Sensitivity < MinSensitivity || c.Sensitivity > MaxSensitivity {
		return fmt.Errorf("%w: sensitivity %.2f outside [%.1f, %.1f]", ErrInvalid, c.Sensitivity, MinSensitivity, MaxSensitivity)
	}
	switch c.Source {
	case SourceMic, SourceFile:
	default:
		return fmt.Errorf("%w: source %q", ErrInvalid, c.Source)
	}
	if err := c.Analyser.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}
