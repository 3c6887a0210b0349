package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/iburimskiy/spectral-visualizer/internal/capture"
	"github.com/iburimskiy/spectral-visualizer/internal/config"
	"github.com/iburimskiy/spectral-visualizer/internal/game"
	"github.com/iburimskiy/spectral-visualizer/internal/spectrum"
	"github.com/iburimskiy/spectral-visualizer/internal/visualizer"
)

var (
	configFile  string
	preset      string
	strategy    string
	sensitivity float64
	source      string
	file        string
	width       int
	height      int
	seed        int64
	fullscreen  bool
	verbose     bool

	probeFrames   int
	probeInterval time.Duration
	probeBands    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "spectral-visualizer",
		Short:        "real-time audio spectrum visualizer",
		SilenceUsage: true,
		RunE:         runVisualizer,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&source, "source", config.SourceMic, "audio source: mic or file")
	pf.StringVar(&file, "file", "", "audio file to play (wav, mp3, flac)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log to stderr")

	rootCmd.Flags().StringVar(&strategy, "strategy", visualizer.KindQuantumRipple.String(), "initial strategy")
	rootCmd.Flags().Float64Var(&sensitivity, "sensitivity", config.DefaultSensitivity, "amplitude multiplier")
	rootCmd.Flags().IntVar(&width, "width", config.WindowWidth, "window width")
	rootCmd.Flags().IntVar(&height, "height", config.WindowHeight, "window height")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	rootCmd.Flags().BoolVar(&fullscreen, "fullscreen", false, "start fullscreen")

	devicesCmd := &cobra.Command{
		Use:   "devices",
		Short: "list audio input devices",
		RunE:  listDevices,
	}

	probeCmd := &cobra.Command{
		Use:   "probe",
		Short: "capture for a moment and plot the average spectrum",
		RunE:  probe,
	}
	probeCmd.Flags().IntVar(&probeFrames, "frames", 60, "frames to average")
	probeCmd.Flags().DurationVar(&probeInterval, "interval", time.Second/60, "time between frames")
	probeCmd.Flags().IntVar(&probeBands, "bands", 80, "plot width in bands")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %-8s %s\n", p, config.Presets[p].Strategy)
			}
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the effective configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(devicesCmd, probeCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers defaults, preset, config file and explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.LoadInto(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("strategy") {
		kind, err := visualizer.ParseKind(strategy)
		if err != nil {
			return nil, err
		}
		cfg.Strategy = kind
	}
	if flags.Changed("sensitivity") {
		cfg.Sensitivity = sensitivity
	}
	if flags.Changed("source") {
		cfg.Source = source
	}
	if flags.Changed("file") {
		cfg.File = file
		if !flags.Changed("source") {
			cfg.Source = config.SourceFile
		}
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("fullscreen") {
		cfg.Fullscreen = fullscreen
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *log.Logger {
	if !cfg.Verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "visualizer: ", log.LstdFlags)
}

func runVisualizer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	g, err := game.NewGame(cfg, newLogger(cfg), game.DefaultSources)
	if err != nil {
		return err
	}
	defer g.Close()

	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle("Spectral Visualizer - Space: Start/Stop, 1-7: Strategy, Esc/Q: Quit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(cfg.Fullscreen)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func listDevices(cmd *cobra.Command, args []string) error {
	devices, err := capture.InputDevices()
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		fmt.Println("no input devices")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DEFAULT\tNAME\tHOST API\tCHANNELS\tRATE")
	for _, d := range devices {
		mark := ""
		if d.Default {
			mark = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.0f\n", mark, d.Name, d.HostAPI, d.MaxInputChannels, d.DefaultSampleRate)
	}
	return w.Flush()
}

func probe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if probeFrames < 1 || probeBands < 1 {
		return fmt.Errorf("frames and bands must be positive")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	session, err := game.DefaultSources(cfg).Open(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	buf := spectrum.New(session.Bins())
	var acc []float64
	peak := 0.0

	ticker := time.NewTicker(probeInterval)
	defer ticker.Stop()
	for range probeFrames {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := session.Read(buf); err != nil {
			return err
		}
		bands := buf.Bands(probeBands)
		if acc == nil {
			acc = make([]float64, len(bands))
		}
		for i, v := range bands {
			acc[i] += v / float64(probeFrames)
		}
		peak = max(peak, buf.Average())
	}
	if len(acc) == 0 {
		return fmt.Errorf("capture produced no bins")
	}

	graph := asciigraph.Plot(acc,
		asciigraph.Height(12),
		asciigraph.Width(len(acc)),
		asciigraph.Caption(fmt.Sprintf("average spectrum over %d frames (0-255)", probeFrames)),
	)
	fmt.Println(graph)
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BINS\tMEAN\tPEAK FRAME MEAN")
	fmt.Fprintf(w, "%d\t%.1f\t%.1f\n", len(buf), mean(acc), peak)
	return w.Flush()
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}
