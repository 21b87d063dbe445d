package dirty

import (
	"errors"
	"testing"

	"gol-canvas/internal/core"
	"gol-canvas/internal/scene"
)

// scripted is an automaton double whose Advance applies a fixed list of
// flips. report overrides what ChangedCells returns when set.
type scripted struct {
	size    int
	cells   []uint8
	flips   []core.Cell
	report  []core.Cell
	changed []core.Cell
	gen     uint64
}

func newScripted(size int) *scripted {
	return &scripted{size: size, cells: make([]uint8, size*size)}
}

func (s *scripted) Size() int          { return s.size }
func (s *scripted) Snapshot() []uint8  { return s.cells }
func (s *scripted) Generation() uint64 { return s.gen }
func (s *scripted) ChangedCells() []core.Cell {
	if s.report != nil {
		return s.report
	}
	return s.changed
}

func (s *scripted) Advance() {
	s.changed = s.changed[:0]
	for _, c := range s.flips {
		s.cells[core.Index(c, s.size)] ^= 1
		s.changed = append(s.changed, c)
	}
	s.gen++
}

func visibility(w *scene.World, size int) []bool {
	out := make([]bool, size*size)
	for i := range out {
		c := core.CellAt(i, size)
		d, _ := w.Get(scene.CellName(c.Row, c.Col))
		out[i] = d.Visible
	}
	return out
}

func TestPerCellFlipsOnlyReportedCell(t *testing.T) {
	const n = 6
	w := scene.BuildWorld(n, 5)
	src := newScripted(n)
	src.cells[0] = 1
	s := New(w, n)

	if _, err := s.Sync(src); err != nil {
		t.Fatalf("initial sync: %v", err)
	}
	before := visibility(w, n)

	src.flips = []core.Cell{{Row: 2, Col: 3}}
	src.Advance()
	st, err := s.Sync(src)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	after := visibility(w, n)

	target := 3 + 2*n
	for i := range after {
		if i == target {
			if after[i] == before[i] {
				t.Fatalf("cell index %d not toggled", i)
			}
			continue
		}
		if after[i] != before[i] {
			t.Fatalf("cell index %d changed, only %d should", i, target)
		}
	}
	if st.Flips != 1 || st.Reported != 1 || st.Repaired != 0 || s.Fallback() {
		t.Fatalf("stats = %+v, fallback=%v", st, s.Fallback())
	}
}

func TestFirstSyncReconcilesWholeSnapshot(t *testing.T) {
	const n = 4
	w := scene.BuildWorld(n, 3)
	src := newScripted(n)
	for i := range src.cells {
		if i%2 == 0 {
			src.cells[i] = 1
		}
	}
	st, err := New(w, n).Sync(src)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if !st.FullCompare || st.Alive != 8 || st.Flips != 8 {
		t.Fatalf("stats = %+v", st)
	}
	for i, v := range visibility(w, n) {
		if v != (i%2 == 0) {
			t.Fatalf("cell %d visible=%v", i, v)
		}
	}
}

func TestDuplicatesAppliedOnce(t *testing.T) {
	const n = 4
	w := scene.BuildWorld(n, 3)
	src := newScripted(n)
	s := New(w, n)
	if _, err := s.Sync(src); err != nil {
		t.Fatalf("initial sync: %v", err)
	}

	src.flips = []core.Cell{{Row: 1, Col: 1}}
	src.Advance()
	src.report = []core.Cell{{Row: 1, Col: 1}, {Row: 1, Col: 1}}
	st, err := s.Sync(src)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if st.Duplicates != 1 || st.Flips != 1 {
		t.Fatalf("stats = %+v", st)
	}
	if d, _ := w.Get(scene.CellName(1, 1)); !d.Visible {
		t.Fatalf("cell (1,1) not visible")
	}
}

func TestIncompleteReportTriggersFallback(t *testing.T) {
	const n = 5
	w := scene.BuildWorld(n, 3)
	src := newScripted(n)
	s := New(w, n, WithAuditEvery(1000))
	if _, err := s.Sync(src); err != nil {
		t.Fatalf("initial sync: %v", err)
	}

	// Two cells flip but only one is reported.
	src.flips = []core.Cell{{Row: 0, Col: 1}, {Row: 4, Col: 4}}
	src.Advance()
	src.report = []core.Cell{{Row: 0, Col: 1}}
	st, err := s.Sync(src)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if !st.Audited || st.Repaired != 1 || !s.Fallback() {
		t.Fatalf("stats = %+v fallback=%v", st, s.Fallback())
	}
	if d, _ := w.Get(scene.CellName(4, 4)); !d.Visible {
		t.Fatalf("missed cell not repaired")
	}

	// Later syncs compare everything even with an empty report.
	src.flips = []core.Cell{{Row: 3, Col: 0}}
	src.Advance()
	src.report = []core.Cell{}
	st, err = s.Sync(src)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if !st.FullCompare || st.Flips != 1 {
		t.Fatalf("fallback sync stats = %+v", st)
	}
	if d, _ := w.Get(scene.CellName(3, 0)); !d.Visible {
		t.Fatalf("fallback sync missed (3,0)")
	}
}

func TestEmptyReportAfterAdvanceIsAudited(t *testing.T) {
	const n = 6
	w := scene.BuildWorld(n, 3)
	src := newScripted(n)
	s := New(w, n, WithAuditEvery(1000))
	if _, err := s.Sync(src); err != nil {
		t.Fatalf("initial sync: %v", err)
	}

	// The first delta sync is complete and passes its audit.
	src.flips = []core.Cell{{Row: 1, Col: 1}}
	src.Advance()
	st, err := s.Sync(src)
	if err != nil {
		t.Fatalf("first delta sync: %v", err)
	}
	if !st.Audited || st.Repaired != 0 || s.Fallback() {
		t.Fatalf("first delta sync stats = %+v fallback=%v", st, s.Fallback())
	}

	// The next generation flips (4,4) but reports nothing.
	src.flips = []core.Cell{{Row: 4, Col: 4}}
	src.Advance()
	src.report = []core.Cell{}
	st, err = s.Sync(src)
	if err != nil {
		t.Fatalf("silent sync: %v", err)
	}
	if !st.Audited || st.Repaired != 1 || !s.Fallback() {
		t.Fatalf("silent sync stats = %+v fallback=%v", st, s.Fallback())
	}
	if d, _ := w.Get(scene.CellName(4, 4)); !d.Visible {
		t.Fatalf("(4,4) alive but hidden")
	}
}

func TestEmptyReportWithoutAdvanceIsNotAudited(t *testing.T) {
	const n = 4
	w := scene.BuildWorld(n, 3)
	src := newScripted(n)
	s := New(w, n, WithAuditEvery(1000))
	for i := 0; i < 2; i++ {
		if _, err := s.Sync(src); err != nil {
			t.Fatalf("sync %d: %v", i, err)
		}
	}
	st, err := s.Sync(src)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if st.Audited {
		t.Fatalf("redraw without advance audited: %+v", st)
	}
}

func TestPartialReportCaughtByPeriodicAudit(t *testing.T) {
	const n, every = 6, 4
	w := scene.BuildWorld(n, 3)
	src := newScripted(n)
	s := New(w, n, WithAuditEvery(every))
	if _, err := s.Sync(src); err != nil {
		t.Fatalf("initial sync: %v", err)
	}
	src.flips = []core.Cell{{Row: 0, Col: 0}}
	src.Advance()
	if st, err := s.Sync(src); err != nil || !st.Audited || s.Fallback() {
		t.Fatalf("first delta sync stats = %+v err=%v", st, err)
	}

	// From here on (3,3) turns on but only (0,0) is reported each time.
	src.flips = []core.Cell{{Row: 0, Col: 0}, {Row: 3, Col: 3}}
	src.Advance()
	src.report = []core.Cell{{Row: 0, Col: 0}}
	src.flips = []core.Cell{{Row: 0, Col: 0}}
	hidden := 0
	for i := 0; i < 2*every; i++ {
		if i > 0 {
			src.Advance()
		}
		if _, err := s.Sync(src); err != nil {
			t.Fatalf("sync %d: %v", i, err)
		}
		if d, _ := w.Get(scene.CellName(3, 3)); !d.Visible {
			hidden++
		}
	}
	if !s.Fallback() {
		t.Fatalf("missed cell never triggered fallback")
	}
	if hidden >= every {
		t.Fatalf("(3,3) hidden for %d syncs, audit interval is %d", hidden, every)
	}
}

func TestWithAuditEveryRejectsNonPositive(t *testing.T) {
	s := New(scene.BuildWorld(2, 3), 2, WithAuditEvery(0))
	if s.auditEvery != DefaultAuditEvery {
		t.Fatalf("auditEvery = %d, want %d", s.auditEvery, DefaultAuditEvery)
	}
}

func TestOutOfRangeReportPropagatesNotFound(t *testing.T) {
	const n = 3
	w := scene.BuildWorld(n, 3)
	src := newScripted(n)
	s := New(w, n)
	if _, err := s.Sync(src); err != nil {
		t.Fatalf("initial sync: %v", err)
	}
	src.report = []core.Cell{{Row: 0, Col: n}}
	_, err := s.Sync(src)
	var nf *scene.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, expected NotFoundError", err)
	}
	if nf.Name != scene.CellName(0, n) {
		t.Fatalf("not found name = %q", nf.Name)
	}
}

func TestMarkDirtyCoversUnreportedToggle(t *testing.T) {
	const n = 4
	w := scene.BuildWorld(n, 3)
	src := newScripted(n)
	s := New(w, n, WithAuditEvery(1000))
	if _, err := s.Sync(src); err != nil {
		t.Fatalf("initial sync: %v", err)
	}
	// Burn the initial audit.
	if _, err := s.Sync(src); err != nil {
		t.Fatalf("second sync: %v", err)
	}

	src.cells[core.Index(core.Cell{Row: 2, Col: 2}, n)] = 1
	s.MarkDirty(core.Cell{Row: 2, Col: 2})
	st, err := s.Sync(src)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if st.Flips != 1 || st.Audited {
		t.Fatalf("stats = %+v", st)
	}
	if d, _ := w.Get(scene.CellName(2, 2)); !d.Visible {
		t.Fatalf("dirty cell not reconciled")
	}
}

func TestGridStaysVisible(t *testing.T) {
	const n = 2
	w := scene.BuildWorld(n, 3)
	if err := w.SetVisible(scene.GridName, false); err != nil {
		t.Fatalf("hide grid: %v", err)
	}
	for _, st := range []Strategy{PerCell, FullRebuild} {
		if _, err := New(w, n, WithStrategy(st)).Sync(newScripted(n)); err != nil {
			t.Fatalf("%s sync: %v", st, err)
		}
		if d, _ := w.Get(scene.GridName); !d.Visible {
			t.Fatalf("%s left the grid hidden", st)
		}
	}
}

func TestFullRebuildAggregates(t *testing.T) {
	const n, c = 3, 5
	w := scene.BuildWorld(n, c)
	src := newScripted(n)
	src.cells[core.Index(core.Cell{Row: 1, Col: 2}, n)] = 1
	s := New(w, n, WithStrategy(FullRebuild))

	st, err := s.Sync(src)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if st.Alive != 1 {
		t.Fatalf("alive = %d, expected 1", st.Alive)
	}
	alive, ok := w.Get(scene.AliveCellsName)
	if !ok || len(alive.Vertices) != 12 {
		t.Fatalf("alive aggregate = %+v", alive)
	}
	if alive.Vertices[0] != 13 || alive.Vertices[1] != 7 {
		t.Fatalf("alive aggregate starts at (%v,%v), expected cell (1,2) at (13,7)", alive.Vertices[0], alive.Vertices[1])
	}
	dead, _ := w.Get(scene.DeadCellsName)
	if len(dead.Vertices) != 12*(n*n-1) {
		t.Fatalf("dead aggregate holds %d scalars", len(dead.Vertices))
	}
	for _, v := range visibility(w, n) {
		if v {
			t.Fatalf("per-cell drawable left visible under full rebuild")
		}
	}
	cell, _ := w.Get(scene.CellName(1, 2))
	if len(cell.Vertices) != 12 || cell.Vertices[0] != 13 {
		t.Fatalf("cell geometry changed: %v", cell.Vertices)
	}

	rev := alive.Revision
	src.cells[0] = 1
	if _, err := s.Sync(src); err != nil {
		t.Fatalf("second sync: %v", err)
	}
	alive, _ = w.Get(scene.AliveCellsName)
	if len(alive.Vertices) != 24 || alive.Revision == rev {
		t.Fatalf("alive aggregate after second sync = %d scalars, rev %d", len(alive.Vertices), alive.Revision)
	}
}

func TestParseStrategy(t *testing.T) {
	if st, err := ParseStrategy(""); err != nil || st != PerCell {
		t.Fatalf("empty strategy = %q, %v", st, err)
	}
	if _, err := ParseStrategy("bogus"); err == nil {
		t.Fatalf("bogus strategy accepted")
	}
}
