package config

import (
	"sort"

	"github.com/iburimskiy/spectral-visualizer/internal/spectrum"
	"github.com/iburimskiy/spectral-visualizer/internal/visualizer"
)

var Presets = map[string]*Config{
	"ambient": {
		Strategy: visualizer.KindConstellation, Sensitivity: 1.0,
		Analyser: spectrum.AnalyserConfig{FFTSize: 2048, MinDecibels: -100, MaxDecibels: -20, Smoothing: 0.92},
	},
	"club": {
		Strategy: visualizer.KindRainbowSquare, Sensitivity: 2.5,
		Analyser: spectrum.AnalyserConfig{FFTSize: 1024, MinDecibels: -80, MaxDecibels: -10, Smoothing: 0.6},
	},
	"neural": {
		Strategy: visualizer.KindSynaptic, Sensitivity: 1.5,
		Analyser: spectrum.AnalyserConfig{FFTSize: 512, MinDecibels: -90, MaxDecibels: -10, Smoothing: 0.8},
	},
	"ripple": {
		Strategy: visualizer.KindQuantumRipple, Sensitivity: 1.5,
		Analyser: spectrum.AnalyserConfig{FFTSize: 1024, MinDecibels: -90, MaxDecibels: -10, Smoothing: 0.85},
	},
}

// GetPreset returns the defaults with the named preset applied, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Strategy = p.Strategy
	cfg.Sensitivity = p.Sensitivity
	cfg.Analyser = p.Analyser
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
