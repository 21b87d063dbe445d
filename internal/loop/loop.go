// Package loop drives the advance, synchronize and draw cycle.
//
// A Controller is either Running or Paused. While running, each frame
// advances the automaton, synchronizes the world and draws it, then asks the
// Scheduler for the next frame. Pausing stops the rescheduling; a frame
// already queued finds the controller paused and returns without work. Edits
// made while paused are shown with DrawOnly, which synchronizes and draws
// without advancing.
package loop

import (
	"fmt"
	"time"

	"gol-canvas/internal/core"
	"gol-canvas/internal/dirty"
	"gol-canvas/internal/render"
	"gol-canvas/internal/scene"
)

// State is the run state of a Controller.
type State uint8

const (
	// Running frames advance the automaton and reschedule themselves.
	Running State = iota
	// Paused frames are not scheduled.
	Paused
)

func (s State) String() string {
	if s == Paused {
		return "paused"
	}
	return "running"
}

// RunState is the mutable state of a Controller.
type RunState struct {
	Paused    bool
	LastFrame time.Time
}

// Synchronizer reconciles the world with the automaton.
type Synchronizer interface {
	Sync(src dirty.Source) (dirty.Stats, error)
}

// Drawer draws the world.
type Drawer interface {
	DrawFrame(w *scene.World) (render.FrameStats, error)
}

// Report describes one completed frame.
type Report struct {
	Frame      uint64
	Generation uint64
	Advanced   bool
	State      State
	At         time.Time
	Delta      time.Duration
	FPS        float64
	Sync       dirty.Stats
	Draw       render.FrameStats
}

// Observer receives a Report after every frame.
type Observer func(Report)

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithObserver registers a frame observer.
func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observers = append(c.observers, o) }
}

// StartPaused makes the controller begin in the Paused state.
func StartPaused() Option {
	return func(c *Controller) { c.state.Paused = true }
}

// Controller owns the RunState and runs frames on a single goroutine.
type Controller struct {
	automaton core.Automaton
	world     *scene.World
	sync      Synchronizer
	drawer    Drawer
	sched     Scheduler
	now       func() time.Time
	observers []Observer

	state     RunState
	clock     FrameClock
	scheduled bool
	frames    uint64
	last      Report
	err       error
}

// New returns a Controller. Call Start to draw the first frame.
func New(a core.Automaton, w *scene.World, s Synchronizer, d Drawer, sched Scheduler, opts ...Option) *Controller {
	c := &Controller{
		automaton: a,
		world:     w,
		sync:      s,
		drawer:    d,
		sched:     sched,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State reports whether the controller is running or paused.
func (c *Controller) State() State {
	if c.state.Paused {
		return Paused
	}
	return Running
}

// RunState returns a copy of the run state.
func (c *Controller) RunState() RunState { return c.state }

// Err returns the error that stopped the loop, if any.
func (c *Controller) Err() error { return c.err }

// Last returns the report of the latest frame.
func (c *Controller) Last() Report { return c.last }

// Start draws the initial state without advancing and, when running,
// schedules the first frame.
func (c *Controller) Start() error {
	if err := c.DrawOnly(); err != nil {
		return err
	}
	if !c.state.Paused {
		c.schedule()
	}
	return nil
}

// TogglePause flips between Running and Paused and returns the new state.
func (c *Controller) TogglePause() State {
	if c.state.Paused {
		c.Resume()
	} else {
		c.Pause()
	}
	return c.State()
}

// Pause stops rescheduling.
func (c *Controller) Pause() {
	if c.state.Paused {
		return
	}
	c.state.Paused = true
	core.Logger().Info("paused", "generation", c.automaton.Generation())
}

// Resume switches to Running and schedules a frame unless one is pending.
func (c *Controller) Resume() {
	if !c.state.Paused {
		return
	}
	c.state.Paused = false
	core.Logger().Info("resumed", "generation", c.automaton.Generation())
	c.schedule()
}

// DrawOnly synchronizes and draws without advancing the automaton.
func (c *Controller) DrawOnly() error {
	return c.runFrame(false)
}

// Step advances one generation and draws it. It is meant for single
// stepping while paused and does not schedule anything.
func (c *Controller) Step() error {
	return c.runFrame(true)
}

func (c *Controller) schedule() {
	if c.scheduled || c.err != nil {
		return
	}
	c.scheduled = true
	c.sched.RequestFrame(c.frame)
}

// frame is the scheduled callback.
func (c *Controller) frame() {
	c.scheduled = false
	if c.state.Paused || c.err != nil {
		return
	}
	if err := c.runFrame(true); err != nil {
		return
	}
	if !c.state.Paused {
		c.schedule()
	}
}

func (c *Controller) runFrame(advance bool) error {
	if c.err != nil {
		return c.err
	}
	if advance {
		c.automaton.Advance()
	}
	syncStats, err := c.sync.Sync(c.automaton)
	if err != nil {
		return c.fail(fmt.Errorf("loop: synchronize generation %d: %w", c.automaton.Generation(), err))
	}
	drawStats, err := c.drawer.DrawFrame(c.world)
	if err != nil {
		return c.fail(fmt.Errorf("loop: draw generation %d: %w", c.automaton.Generation(), err))
	}

	now := c.now()
	delta := c.clock.Sample(now)
	c.state.LastFrame = now
	c.frames++
	c.last = Report{
		Frame:      c.frames,
		Generation: c.automaton.Generation(),
		Advanced:   advance,
		State:      c.State(),
		At:         now,
		Delta:      delta,
		FPS:        c.clock.FPS(),
		Sync:       syncStats,
		Draw:       drawStats,
	}
	core.Logger().Debug("frame",
		"frame", c.frames,
		"generation", c.last.Generation,
		"advanced", advance,
		"flips", syncStats.Flips,
		"draw_calls", drawStats.DrawCalls,
		"uploaded", drawStats.UploadedBytes)
	for _, o := range c.observers {
		o(c.last)
	}
	return nil
}

func (c *Controller) fail(err error) error {
	c.err = err
	core.Logger().Error("frame failed; loop stopped", "err", err)
	return err
}
