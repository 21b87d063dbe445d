package app

import (
	"fmt"
	"sort"
	"strings"

	"gol-canvas/internal/core"
	"gol-canvas/internal/dirty"
	"gol-canvas/internal/geom"
	"gol-canvas/internal/input"
	"gol-canvas/internal/loop"
	"gol-canvas/internal/render"
	"gol-canvas/internal/scene"
	"gol-canvas/internal/trace"
	"gol-canvas/internal/ui"
)

// Session owns one automaton and everything that keeps it on screen.
type Session struct {
	Automaton  core.Automaton
	World      *scene.World
	Sync       *dirty.Synchronizer
	Renderer   *render.Renderer
	Controller *loop.Controller
	Input      *input.Handler

	cellSize int
	seed     int64
	trace    *trace.Writer
}

// NewSession wires an automaton chosen by cfg to backend b. Frames are
// requested from sched. The caller must Close the session.
func NewSession(cfg *Config, b render.Backend, sched loop.Scheduler) (*Session, error) {
	factory, ok := core.Automata()[cfg.Sim]
	if !ok {
		return nil, fmt.Errorf("app: unknown automaton %q (have %s)", cfg.Sim, strings.Join(automatonNames(), ", "))
	}
	strategy, err := dirty.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	if cfg.CellSize <= 0 {
		return nil, fmt.Errorf("app: cell size must be positive, got %d", cfg.CellSize)
	}

	a := factory(cfg.FactoryConfig())
	a.Reset(cfg.Seed)
	size := a.Size()
	palette := scene.DefaultPalette()

	world := scene.BuildWorld(size, cfg.CellSize, scene.WithPalette(palette))
	sync := dirty.New(world, size,
		dirty.WithStrategy(strategy),
		dirty.WithAuditEvery(cfg.AuditEvery),
		dirty.WithPalette(palette))

	canvas := geom.Square(geom.CanvasSize(size, cfg.CellSize))
	renderer, err := render.New(b, render.CellShader(), canvas, palette.Background)
	if err != nil {
		return nil, err
	}

	s := &Session{
		Automaton: a,
		World:     world,
		Sync:      sync,
		Renderer:  renderer,
		cellSize:  cfg.CellSize,
		seed:      cfg.Seed,
	}

	var opts []loop.Option
	if cfg.StartPaused {
		opts = append(opts, loop.StartPaused())
	}
	if cfg.Trace != "" {
		w, err := trace.Create(cfg.Trace)
		if err != nil {
			return nil, fmt.Errorf("app: trace: %w", err)
		}
		s.trace = w
		opts = append(opts, loop.WithObserver(w.Observe(func(err error) {
			core.Logger().Warn("trace write failed", "path", cfg.Trace, "err", err)
		})))
	}
	s.Controller = loop.New(a, world, sync, renderer, sched, opts...)
	s.Input = input.NewHandler(a, sync, s.Controller, cfg.CellSize)

	core.Logger().Info("session ready",
		"automaton", a.Name(),
		"size", size,
		"cell_size", cfg.CellSize,
		"canvas", canvas.W,
		"strategy", strategy,
		"drawables", world.Len())
	return s, nil
}

// Click toggles the cell under (x, y), given in pixels of the surface the
// latest frame was drawn to. A resize the renderer has not drawn yet does not
// change the mapping, since the screen still shows the old frame.
func (s *Session) Click(x, y float64) (core.Cell, error) {
	return s.Input.OnPointer(input.PointerEvent{X: x, Y: y, Display: s.Renderer.DrawnSize()})
}

// Start draws the initial state and begins the loop unless paused.
func (s *Session) Start() error { return s.Controller.Start() }

// CellSize returns the edge of one cell in canvas units.
func (s *Session) CellSize() int { return s.cellSize }

// Seed returns the seed of the latest reset.
func (s *Session) Seed() int64 { return s.seed }

// Reset reseeds the automaton and redraws it. The next sync compares the
// whole snapshot since a reset reports no changed cells.
func (s *Session) Reset(seed int64) error {
	s.seed = seed
	s.Automaton.Reset(seed)
	s.Sync.Invalidate()
	core.Logger().Info("reset", "automaton", s.Automaton.Name(), "seed", seed)
	return s.Controller.DrawOnly()
}

// Status summarizes the latest frame for the overlay.
func (s *Session) Status() ui.Status {
	return ui.Status{
		Automaton: s.Automaton.Name(),
		Size:      s.Automaton.Size(),
		Report:    s.Controller.Last(),
		Fallback:  s.Sync.Fallback(),
	}
}

// Close flushes the frame trace, if any.
func (s *Session) Close() error {
	if s.trace == nil {
		return nil
	}
	err := s.trace.Close()
	s.trace = nil
	return err
}

func automatonNames() []string {
	names := make([]string, 0, len(core.Automata()))
	for name := range core.Automata() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
