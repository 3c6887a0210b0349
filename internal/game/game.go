package game

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/spectral-visualizer/internal/capture"
	"github.com/iburimskiy/spectral-visualizer/internal/config"
	"github.com/iburimskiy/spectral-visualizer/internal/render"
	"github.com/iburimskiy/spectral-visualizer/internal/surface"
	"github.com/iburimskiy/spectral-visualizer/internal/visualizer"
)

const helpLine = "Space start/stop | 1-7 strategy | <- -> cycle | up/down sensitivity | F fullscreen | O open file | Q quit"

// SourceFactory picks the capture source for a configuration.
type SourceFactory func(cfg *config.Config) capture.Source

// DefaultSources opens the microphone, or the configured file when the
// source is "file". An empty file path brings up a file dialog.
func DefaultSources(cfg *config.Config) capture.Source {
	if cfg.Source == config.SourceFile {
		return &capture.FileSource{Path: cfg.File, Analyser: cfg.Analyser}
	}
	return capture.NewMicSource(cfg.Analyser)
}

type startResult struct {
	session capture.Session
	err     error
}

var digitKeys = [...]ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
	ebiten.KeyDigit5, ebiten.KeyDigit6, ebiten.KeyDigit7,
}

type binding struct {
	key  ebiten.Key
	run  func()
	quit bool
}

// Game adapts the render loop to ebiten's Update/Draw cycle.
type Game struct {
	cfg     *config.Config
	logger  *log.Logger
	sources SourceFactory
	now     func() time.Time

	loop      *render.Loop
	canvas    *surface.Canvas
	offscreen *ebiten.Image

	// capture start in flight
	pending chan startResult
	cancel  context.CancelFunc

	startedAt time.Time
	playback  capture.Playback

	bindings []binding
	prevKey  map[ebiten.Key]bool

	buttonHovered bool
	buttonPressed bool

	lastErr error
}

func NewGame(cfg *config.Config, logger *log.Logger, sources SourceFactory) (*Game, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if sources == nil {
		sources = DefaultSources
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := &Game{
		cfg:     cfg,
		logger:  logger,
		sources: sources,
		now:     time.Now,
		canvas:  surface.NewCanvas(nil),
		prevKey: map[ebiten.Key]bool{},
	}
	var err error
	g.loop, err = render.New(g.canvas, render.Config{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Kind:        cfg.Strategy,
		Sensitivity: cfg.Sensitivity,
		Options:     visualizer.Options{Rand: rand.New(rand.NewSource(seed))},
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}
	g.bindings = g.defaultBindings()
	return g, nil
}

func (g *Game) defaultBindings() []binding {
	b := []binding{
		{key: ebiten.KeySpace, run: g.toggle},
		{key: ebiten.KeyArrowRight, run: func() { g.selectKind(g.loop.Kind().Next()) }},
		{key: ebiten.KeyArrowLeft, run: func() { g.selectKind(g.loop.Kind().Prev()) }},
		{key: ebiten.KeyArrowUp, run: func() { g.nudgeSensitivity(config.SensitivityStep) }},
		{key: ebiten.KeyArrowDown, run: func() { g.nudgeSensitivity(-config.SensitivityStep) }},
		{key: ebiten.KeyF, run: func() { ebiten.SetFullscreen(!ebiten.IsFullscreen()) }},
		{key: ebiten.KeyO, run: g.openFile},
		{key: ebiten.KeyEscape, quit: true},
		{key: ebiten.KeyQ, quit: true},
	}
	for i, k := range visualizer.Kinds() {
		b = append(b, binding{key: digitKeys[i], run: func() { g.selectKind(k) }})
	}
	return b
}

// Loop exposes the render loop.
func (g *Game) Loop() *render.Loop { return g.loop }

// press runs the binding for k. Quit bindings end the game with
// ebiten.Termination; unbound keys do nothing.
func (g *Game) press(k ebiten.Key) error {
	for _, b := range g.bindings {
		if b.key != k {
			continue
		}
		if b.quit {
			return ebiten.Termination
		}
		b.run()
		return nil
	}
	return nil
}

func (g *Game) Update() error {
	g.adopt()

	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}
	for _, b := range g.bindings {
		if justPressed(b.key) {
			if err := g.press(b.key); err != nil {
				return err
			}
		}
	}

	mouseX, mouseY := ebiten.CursorPosition()
	g.buttonHovered = mouseX >= config.ButtonX && mouseX <= config.ButtonX+config.ButtonWidth &&
		mouseY >= config.ButtonY && mouseY <= config.ButtonY+config.ButtonHeight

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if g.buttonHovered {
			g.buttonPressed = true
		} else {
			g.loop.Click(float64(mouseX), float64(mouseY))
		}
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if g.buttonPressed && g.buttonHovered {
			g.toggle()
		}
		g.buttonPressed = false
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	g.ensureTarget(w, h)
	g.loop.Resize(w, h)
	g.loop.Tick()

	screen.DrawImage(g.offscreen, nil)
	g.drawButton(screen)
	ebitenutil.DebugPrintAt(screen, g.status(), config.StatusX, config.StatusY)
	ebitenutil.DebugPrintAt(screen, helpLine, config.StatusX, h-20)
}

// ensureTarget keeps the canvas bound to an offscreen image of the window size.
func (g *Game) ensureTarget(w, h int) {
	if g.canvas.Available() && g.offscreen.Bounds().Dx() == w && g.offscreen.Bounds().Dy() == h {
		return
	}
	if g.offscreen != nil {
		g.offscreen.Deallocate()
	}
	g.offscreen = ebiten.NewImage(w, h)
	g.canvas.Bind(g.offscreen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return max(outsideWidth, 1), max(outsideHeight, 1)
}

func (g *Game) drawButton(screen *ebiten.Image) {
	var bgColor color.Color
	if g.buttonPressed {
		bgColor = color.RGBA{R: 60, G: 80, B: 120, A: 255}
	} else if g.buttonHovered {
		bgColor = color.RGBA{R: 80, G: 100, B: 140, A: 255}
	} else {
		bgColor = color.RGBA{R: 100, G: 120, B: 160, A: 255}
	}
	vector.DrawFilledRect(screen, config.ButtonX, config.ButtonY, config.ButtonWidth, config.ButtonHeight, bgColor, false)

	borderColor := color.RGBA{R: 150, G: 170, B: 200, A: 255}
	vector.StrokeRect(screen, config.ButtonX, config.ButtonY, config.ButtonWidth, config.ButtonHeight, 2, borderColor, false)

	text := g.buttonLabel()
	textWidth := len(text) * 6 // debug font glyphs are 6px wide
	textX := config.ButtonX + (config.ButtonWidth-textWidth)/2
	textY := config.ButtonY + (config.ButtonHeight-16)/2
	ebitenutil.DebugPrintAt(screen, text, textX, textY)
}

func (g *Game) buttonLabel() string {
	switch {
	case g.pending != nil:
		return "Starting..."
	case g.loop.State() == render.Running:
		return "Stop"
	default:
		return "Start"
	}
}

func (g *Game) status() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s | sensitivity %.1f", g.loop.Kind().Title(), g.loop.Sensitivity())
	switch {
	case g.pending != nil:
		b.WriteString(" | starting capture")
	case g.loop.State() == render.Running:
		if g.playback != nil {
			pos, total := g.playback.Progress()
			fmt.Fprintf(&b, " | %s %s / %s", g.playback.Title(), formatDuration(pos), formatDuration(total))
		} else {
			fmt.Fprintf(&b, " | listening %s", formatDuration(g.now().Sub(g.startedAt)))
		}
	default:
		b.WriteString(" | stopped")
	}
	if g.lastErr != nil {
		b.WriteString(" | Error: " + g.lastErr.Error())
	}
	return b.String()
}

func (g *Game) toggle() {
	if g.pending != nil || g.loop.State() == render.Running {
		g.stop()
		return
	}
	g.start(g.sources(g.cfg))
}

// start opens src on its own goroutine; the session is picked up by adopt.
func (g *Game) start(src capture.Source) {
	if g.pending != nil || g.loop.State() == render.Running {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan startResult, 1)
	g.pending, g.cancel = ch, cancel
	g.lastErr = nil

	go func() {
		s, err := src.Open(ctx)
		ch <- startResult{session: s, err: err}
	}()
}

// adopt binds a finished start to the loop without blocking.
func (g *Game) adopt() {
	if g.pending == nil {
		return
	}
	select {
	case res := <-g.pending:
		g.pending = nil
		g.cancel()
		g.cancel = nil
		if res.err != nil {
			if !errors.Is(res.err, context.Canceled) {
				g.lastErr = res.err
			}
			g.logger.Printf("capture start failed: %v", res.err)
			return
		}
		g.loop.Bind(res.session)
		g.startedAt = g.now()
		g.playback, _ = res.session.(capture.Playback)
		g.logger.Printf("capture started: %d bins", res.session.Bins())
	default:
	}
}

// stop abandons any start in flight and stops the loop.
func (g *Game) stop() {
	if g.pending != nil {
		g.cancel()
		go closeLate(g.pending, g.logger)
		g.pending, g.cancel = nil, nil
	}
	g.playback = nil
	if err := g.loop.Stop(); err != nil {
		g.lastErr = err
		g.logger.Printf("%v", err)
	}
}

// Close stops capture; ebiten calls nothing on exit so main does.
func (g *Game) Close() {
	g.stop()
}

// closeLate releases a session that finished opening after it was abandoned.
func closeLate(ch <-chan startResult, logger *log.Logger) {
	res := <-ch
	if res.session == nil {
		return
	}
	if err := res.session.Close(); err != nil {
		logger.Printf("closing abandoned capture session: %v", err)
	}
}

func (g *Game) openFile() {
	g.stop()
	g.start(&capture.FileSource{Analyser: g.cfg.Analyser})
}

func (g *Game) selectKind(k visualizer.Kind) {
	if err := g.loop.Select(k); err != nil {
		g.logger.Printf("select %d: %v", int(k), err)
		return
	}
	g.logger.Printf("strategy: %s", k)
}

func (g *Game) nudgeSensitivity(delta float64) {
	g.loop.SetSensitivity(g.loop.Sensitivity() + delta)
}
