package core

// Cell addresses one grid cell by row and column.
type Cell struct {
	Row int
	Col int
}

// Index returns the row-major slice index of c in a square grid of side size.
func Index(c Cell, size int) int { return c.Col + c.Row*size }

// CellAt is the inverse of Index.
func CellAt(idx, size int) Cell { return Cell{Row: idx / size, Col: idx % size} }

// InRange reports whether c lies inside a square grid of side size.
func (c Cell) InRange(size int) bool {
	return c.Row >= 0 && c.Row < size && c.Col >= 0 && c.Col < size
}

// Automaton is the cell-state source the renderer keeps in sync with. All
// automata are square and binary as far as rendering is concerned: Snapshot
// holds one byte per cell and any non-zero byte is an alive cell.
type Automaton interface {
	Name() string
	Size() int
	Reset(seed int64)
	// Advance computes the next generation.
	Advance()
	// ToggleCell flips one cell. Callers must keep row and col in range.
	ToggleCell(row, col int)
	// Snapshot exposes the current state in row-major order. The slice is
	// owned by the automaton and must not be written by callers.
	Snapshot() []uint8
	// ChangedCells lists the cells flipped by the latest Advance plus the
	// cells toggled since. It is empty before the first Advance.
	ChangedCells() []Cell
	Generation() uint64
}

// Factory constructs an Automaton using an optional configuration map.
type Factory func(cfg map[string]string) Automaton

var automata = map[string]Factory{}

// Register adds an automaton factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	automata[name] = f
}

// Automata exposes the registry of available automaton factories.
func Automata() map[string]Factory {
	return automata
}
