//go:build ebiten

package app

import (
	"time"

	"gol-canvas/internal/core"
	"gol-canvas/internal/loop"
	"gol-canvas/internal/render"
	"gol-canvas/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts a Session to the ebiten.Game interface. Frames the controller
// requests are run from Update at the configured tick rate.
type Game struct {
	session *Session
	backend *render.Ebiten
	sched   *loop.QueueScheduler
	timer   *core.FixedStep
	overlay *ui.Overlay

	started bool
	width   int
	height  int
}

// New constructs a Game for cfg.
func New(cfg *Config) (*Game, error) {
	backend := render.NewEbiten(1, 1)
	sched := &loop.QueueScheduler{}
	s, err := NewSession(cfg, backend, sched)
	if err != nil {
		return nil, err
	}
	c := s.Renderer.Canvas()
	canvas := int(c.W)
	backend.SetDisplaySize(canvas, canvas)
	return &Game{
		session: s,
		backend: backend,
		sched:   sched,
		timer:   core.NewFixedStep(cfg.TPS),
		overlay: ui.NewOverlay(),
		width:   canvas,
		height:  canvas,
	}, nil
}

// WindowSize returns the initial window size: the canvas at one pixel per
// canvas unit.
func (g *Game) WindowSize() (int, int) {
	c := g.session.Renderer.Canvas()
	return int(c.W), int(c.H)
}

// Title returns the window title.
func (g *Game) Title() string { return "gol-canvas: " + g.session.Automaton.Name() }

// Close releases the session.
func (g *Game) Close() error { return g.session.Close() }

// Update handles input and runs the pending frame when a tick is due.
func (g *Game) Update() error {
	if !g.started {
		g.started = true
		if err := g.session.Start(); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	ctl := g.session.Controller
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		ctl.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		ctl.Resume()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) && ctl.State() == loop.Paused {
		if err := ctl.Step(); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.session.Reset(g.session.Seed()); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		if err := g.session.Reset(time.Now().UnixNano()); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.overlay.Toggle()
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if _, err := g.session.Click(float64(x), float64(y)); err != nil {
			return err
		}
	}
	// Paused frames are not scheduled, so follow a window resize here.
	drawn := g.session.Renderer.DrawnSize()
	if ctl.State() == loop.Paused && (int(drawn.W) != g.width || int(drawn.H) != g.height) {
		if err := ctl.DrawOnly(); err != nil {
			return err
		}
	}

	if g.timer.ShouldStep() {
		g.sched.Flush()
	}
	return ctl.Err()
}

// Draw presents the latest frame and the status overlay.
func (g *Game) Draw(screen *ebiten.Image) {
	g.backend.Present(screen)
	g.overlay.Draw(screen, g.session.Status())
}

// Layout uses the window size as the display size so the backing store
// follows the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		g.width, g.height = outsideWidth, outsideHeight
		g.backend.SetDisplaySize(outsideWidth, outsideHeight)
	}
	return g.width, g.height
}
