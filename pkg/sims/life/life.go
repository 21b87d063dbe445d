package life

import (
	"gol-canvas/internal/core"
)

// Life implements Conway's Game of Life on a square torus.
type Life struct {
	size    int
	pattern string
	cur     []uint8
	nxt     []uint8
	changed []core.Cell
	gen     uint64
}

// New returns a Life simulation of side size seeded with the classic pattern.
func New(size int) *Life {
	return NewWithConfig(Config{Size: size, Pattern: PatternClassic})
}

// NewWithConfig returns a Life simulation for the given configuration.
func NewWithConfig(c Config) *Life {
	if c.Size <= 0 {
		c.Size = 1
	}
	cells := make([]uint8, c.Size*c.Size)
	l := &Life{size: c.Size, pattern: c.Pattern, cur: cells, nxt: make([]uint8, len(cells))}
	l.Reset(0)
	return l
}

// Name returns the simulation identifier.
func (l *Life) Name() string { return "life" }

// Size returns the grid side length.
func (l *Life) Size() int { return l.size }

// Snapshot exposes the current grid values.
func (l *Life) Snapshot() []uint8 { return l.cur }

// ChangedCells lists cells flipped by the last Advance and toggled since.
func (l *Life) ChangedCells() []core.Cell { return l.changed }

// Generation returns the number of Advance calls since the last Reset.
func (l *Life) Generation() uint64 { return l.gen }

// Reset reseeds the board. The classic pattern ignores seed.
func (l *Life) Reset(seed int64) {
	switch l.pattern {
	case PatternRandom:
		core.NewRNG(seed).FillBinary(l.cur)
	case PatternEmpty:
		for i := range l.cur {
			l.cur[i] = 0
		}
	default:
		for i := range l.cur {
			l.cur[i] = 0
			if i%3 == 0 || i%7 == 0 {
				l.cur[i] = 1
			}
		}
	}
	l.changed = l.changed[:0]
	l.gen = 0
}

// ToggleCell flips one cell. Out-of-range coordinates are ignored.
func (l *Life) ToggleCell(row, col int) {
	c := core.Cell{Row: row, Col: col}
	if !c.InRange(l.size) {
		return
	}
	idx := core.Index(c, l.size)
	l.cur[idx] ^= 1
	l.changed = append(l.changed, c)
}

// Advance moves the simulation forward by one generation.
func (l *Life) Advance() {
	n := l.size
	for row := 0; row < n; row++ {
		north := (row - 1 + n) % n
		south := (row + 1) % n
		for col := 0; col < n; col++ {
			west := (col - 1 + n) % n
			east := (col + 1) % n
			neighbors := int(l.cur[west+north*n]) + int(l.cur[col+north*n]) + int(l.cur[east+north*n]) +
				int(l.cur[west+row*n]) + int(l.cur[east+row*n]) +
				int(l.cur[west+south*n]) + int(l.cur[col+south*n]) + int(l.cur[east+south*n])
			idx := col + row*n
			alive := l.cur[idx] == 1
			l.nxt[idx] = 0
			if (alive && (neighbors == 2 || neighbors == 3)) || (!alive && neighbors == 3) {
				l.nxt[idx] = 1
			}
		}
	}
	l.changed = core.AppendDiff(l.changed[:0], l.cur, l.nxt, n)
	l.cur, l.nxt = l.nxt, l.cur
	l.gen++
}

func init() {
	core.Register("life", func(cfg map[string]string) core.Automaton {
		return NewWithConfig(FromMap(cfg))
	})
}
