package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/iburimskiy/spectral-visualizer/internal/visualizer"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Strategy != visualizer.KindQuantumRipple {
		t.Errorf("expected strategy quantumRipple, got %s", cfg.Strategy)
	}
	if cfg.Width != 800 || cfg.Height != 400 {
		t.Errorf("expected 800x400, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Analyser.FFTSize != 1024 {
		t.Errorf("expected fft size 1024, got %d", cfg.Analyser.FFTSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -4 }},
		{"unknown strategy", func(c *Config) { c.Strategy = visualizer.Kind(99) }},
		{"low sensitivity", func(c *Config) { c.Sensitivity = 0.1 }},
		{"high sensitivity", func(c *Config) { c.Sensitivity = 12 }},
		{"nan sensitivity", func(c *Config) { c.Sensitivity = math.NaN() }},
		{"unknown source", func(c *Config) { c.Source = "line-in" }},
		{"odd fft size", func(c *Config) { c.Analyser.FFTSize = 1000 }},
		{"inverted decibels", func(c *Config) { c.Analyser.MinDecibels = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			cfg := DefaultConfig()
			tt.mutate(cfg)
			g.Expect(cfg.Validate()).To(MatchError(ErrInvalid))
		})
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	g := NewWithT(t)
	path := filepath.Join(t.TempDir(), "visualizer.yaml")
	data := "strategy: synaptic\nsensitivity: 2.5\nanalyser:\n  smoothing: 0.5\n"
	g.Expect(os.WriteFile(path, []byte(data), 0644)).To(Succeed())

	cfg, err := Load(path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(cfg.Strategy).To(Equal(visualizer.KindSynaptic))
	g.Expect(cfg.Sensitivity).To(Equal(2.5))
	g.Expect(cfg.Analyser.Smoothing).To(Equal(0.5))
	g.Expect(cfg.Analyser.FFTSize).To(Equal(1024))
	g.Expect(cfg.Width).To(Equal(WindowWidth))
}

func TestLoadIntoKeepsPreset(t *testing.T) {
	g := NewWithT(t)
	path := filepath.Join(t.TempDir(), "visualizer.yaml")
	g.Expect(os.WriteFile(path, []byte("width: 640\n"), 0644)).To(Succeed())

	base := GetPreset("club")
	cfg, err := LoadInto(path, base)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(cfg.Width).To(Equal(640))
	g.Expect(cfg.Strategy).To(Equal(visualizer.KindRainbowSquare))
	g.Expect(cfg.Sensitivity).To(Equal(2.5))
	g.Expect(cfg.Analyser.Smoothing).To(Equal(0.6))
	g.Expect(cfg.Analyser.MaxDecibels).To(Equal(-10.0))

	// The base is copied, not overwritten.
	g.Expect(base.Width).To(Equal(WindowWidth))
}

func TestLoadRejectsUnknownStrategyName(t *testing.T) {
	g := NewWithT(t)
	path := filepath.Join(t.TempDir(), "visualizer.yaml")
	g.Expect(os.WriteFile(path, []byte("strategy: spectrogram\n"), 0644)).To(Succeed())

	_, err := Load(path)
	g.Expect(err).To(MatchError(visualizer.ErrUnknownKind))
}

func TestStrategySavedByName(t *testing.T) {
	g := NewWithT(t)
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := DefaultConfig()
	cfg.Strategy = visualizer.KindRainbowSquare
	g.Expect(Save(path, cfg)).To(Succeed())

	data, err := os.ReadFile(path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(string(data)).To(ContainSubstring("strategy: rainbowSquare"))
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	g := NewWithT(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	g.Expect(os.WriteFile(path, []byte("source: line-in\n"), 0644)).To(Succeed())

	_, err := Load(path)
	g.Expect(err).To(MatchError(ErrInvalid))

	g.Expect(os.WriteFile(path, []byte("width: [1, 2\n"), 0644)).To(Succeed())
	_, err = Load(path)
	g.Expect(err).To(HaveOccurred())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	g.Expect(err).To(MatchError(os.ErrNotExist))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	g := NewWithT(t)
	path := filepath.Join(t.TempDir(), "out.yaml")

	cfg := DefaultConfig()
	cfg.Strategy = visualizer.KindRainbowSquare
	cfg.Source = SourceFile
	cfg.File = "/music/track.flac"
	cfg.Seed = 42
	g.Expect(Save(path, cfg)).To(Succeed())

	back, err := Load(path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(back).To(Equal(cfg))
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("club")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Strategy != visualizer.KindRainbowSquare {
		t.Errorf("expected strategy rainbowSquare, got %s", cfg.Strategy)
	}
	if cfg.Width != WindowWidth {
		t.Errorf("preset should keep default width, got %d", cfg.Width)
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValidate(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for _, name := range names {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}
