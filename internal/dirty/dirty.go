// Package dirty keeps the cell drawables of a scene.World in step with an
// automaton's state.
//
// Two strategies are available. PerCell keeps one drawable per cell and only
// touches the cells the automaton reports as changed. FullRebuild folds every
// cell into two aggregate buffers, alive and dead, rebuilt from the snapshot
// on each sync.
//
// The per-cell strategy trusts the automaton's change report until an audit
// proves otherwise. Audits compare the whole snapshot against what the world
// shows. One runs on the first delta sync, every auditEvery delta syncs, and
// whenever the automaton advanced a generation but reported no changes. When
// an audit finds a
// cell the report missed, the synchronizer repairs it and compares the full
// snapshot on every later sync.
package dirty

import (
	"fmt"

	"gol-canvas/internal/core"
	"gol-canvas/internal/scene"
)

// Strategy selects how cell state reaches the world.
type Strategy string

const (
	// PerCell flips individual cell drawables.
	PerCell Strategy = "percell"
	// FullRebuild regenerates the alive and dead aggregate buffers.
	FullRebuild Strategy = "full"
)

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case PerCell, FullRebuild:
		return Strategy(s), nil
	case "":
		return PerCell, nil
	}
	return "", fmt.Errorf("dirty: unknown strategy %q", s)
}

// Source is the read side of an automaton.
type Source interface {
	Size() int
	Snapshot() []uint8
	ChangedCells() []core.Cell
}

// Stats describes one sync.
type Stats struct {
	Strategy    Strategy
	Reported    int  // cells in the change report
	Duplicates  int  // repeated entries in the report, applied once
	Flips       int  // cells whose rendered state changed
	Alive       int  // alive cells, counted by full comparisons and rebuilds
	FullCompare bool // the whole snapshot was compared
	Audited     bool
	Repaired    int // mismatches an audit found outside the report
	Fallback    bool
}

// DefaultAuditEvery is the number of delta syncs between audits.
const DefaultAuditEvery = 30

// generationSource is implemented by sources that count generations. It lets
// the synchronizer notice an advance that came with an empty report.
type generationSource interface {
	Generation() uint64
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithStrategy selects the synchronization strategy.
func WithStrategy(st Strategy) Option {
	return func(s *Synchronizer) { s.strategy = st }
}

// WithAuditEvery sets how many delta syncs pass between audits. Values <= 0
// select DefaultAuditEvery.
func WithAuditEvery(n int) Option {
	return func(s *Synchronizer) {
		if n <= 0 {
			n = DefaultAuditEvery
		}
		s.auditEvery = n
	}
}

// WithPalette sets the aggregate colors used by FullRebuild.
func WithPalette(p scene.Palette) Option {
	return func(s *Synchronizer) { s.palette = p }
}

// Synchronizer applies automaton state to a World built by scene.BuildWorld.
type Synchronizer struct {
	world      *scene.World
	size       int
	strategy   Strategy
	auditEvery int
	palette    scene.Palette

	names    []string
	rendered []bool // alive state the world currently shows, per cell
	stamp    []uint64
	pass     uint64
	dirty    []int

	primed     bool
	fallback   bool
	audits     int
	sinceAudit int
	lastGen    uint64
	haveGen    bool

	attached bool
	geometry [][]float32
	aliveBuf [2][]float32
	deadBuf  [2][]float32
	front    int
}

// New returns a Synchronizer for a world of side size.
func New(world *scene.World, size int, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		world:      world,
		size:       size,
		strategy:   PerCell,
		auditEvery: DefaultAuditEvery,
		palette:    scene.DefaultPalette(),
	}
	for _, opt := range opts {
		opt(s)
	}
	total := size * size
	s.names = make([]string, total)
	for i := range s.names {
		c := core.CellAt(i, size)
		s.names[i] = scene.CellName(c.Row, c.Col)
	}
	s.rendered = make([]bool, total)
	s.stamp = make([]uint64, total)
	return s
}

// Strategy reports the active strategy.
func (s *Synchronizer) Strategy() Strategy { return s.strategy }

// Fallback reports whether the change report has been found incomplete.
func (s *Synchronizer) Fallback() bool { return s.fallback }

// Invalidate forces the next sync to compare the whole snapshot, e.g. after
// the automaton was reset.
func (s *Synchronizer) Invalidate() { s.primed = false }

// MarkDirty queues a cell for reconciliation on the next sync, in addition to
// whatever the automaton reports.
func (s *Synchronizer) MarkDirty(c core.Cell) {
	if !c.InRange(s.size) {
		return
	}
	s.dirty = append(s.dirty, core.Index(c, s.size))
}

// Touch reconciles one cell with the snapshot immediately. FullRebuild has no
// per-cell drawables to flip, so it only queues the cell.
func (s *Synchronizer) Touch(src Source, c core.Cell) error {
	if s.strategy == FullRebuild {
		s.MarkDirty(c)
		return nil
	}
	snap, err := s.snapshot(src)
	if err != nil {
		return err
	}
	if err := s.checkCell(c); err != nil {
		return err
	}
	_, err = s.reconcile(core.Index(c, s.size), snap)
	return err
}

// Sync brings the world up to date with src.
func (s *Synchronizer) Sync(src Source) (Stats, error) {
	st := Stats{Strategy: s.strategy}
	var err error
	switch s.strategy {
	case FullRebuild:
		err = s.syncFull(src, &st)
	default:
		err = s.syncPerCell(src, &st)
	}
	if err != nil {
		return st, err
	}
	st.Fallback = s.fallback
	return st, s.ensureGrid()
}

func (s *Synchronizer) snapshot(src Source) ([]uint8, error) {
	if src.Size() != s.size {
		return nil, fmt.Errorf("dirty: source size %d, world size %d", src.Size(), s.size)
	}
	snap := src.Snapshot()
	if len(snap) != s.size*s.size {
		return nil, fmt.Errorf("dirty: snapshot holds %d cells, expected %d", len(snap), s.size*s.size)
	}
	return snap, nil
}

// checkCell lets the registry reject cells outside the grid so callers see a
// *scene.NotFoundError naming the missing drawable.
func (s *Synchronizer) checkCell(c core.Cell) error {
	if c.InRange(s.size) {
		return nil
	}
	if err := s.world.SetFields(scene.CellName(c.Row, c.Col), scene.Patch{}); err != nil {
		return fmt.Errorf("dirty: changed cell (%d,%d): %w", c.Row, c.Col, err)
	}
	return &core.OutOfRangeCellError{Cell: c, Size: s.size}
}

func (s *Synchronizer) reconcile(idx int, snap []uint8) (bool, error) {
	alive := snap[idx] != 0
	if s.rendered[idx] == alive {
		return false, nil
	}
	if err := s.world.SetVisible(s.names[idx], alive); err != nil {
		return false, err
	}
	s.rendered[idx] = alive
	return true, nil
}

func (s *Synchronizer) compareAll(snap []uint8, st *Stats) (int, error) {
	flips := 0
	for idx := range snap {
		if snap[idx] != 0 {
			st.Alive++
		}
		flipped, err := s.reconcile(idx, snap)
		if err != nil {
			return flips, err
		}
		if flipped {
			flips++
		}
	}
	st.FullCompare = true
	return flips, nil
}

func (s *Synchronizer) ensureGrid() error {
	grid, ok := s.world.Get(scene.GridName)
	if !ok {
		return &scene.NotFoundError{Name: scene.GridName}
	}
	if grid.Visible {
		return nil
	}
	return s.world.SetVisible(scene.GridName, true)
}
