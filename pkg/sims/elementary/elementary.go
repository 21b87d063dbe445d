package elementary

import (
	"strconv"

	"gol-canvas/internal/core"
)

// Config holds parameters for the elementary cellular automaton.
type Config struct {
	Size int
	Rule uint8
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Size: 64, Rule: 110}
}

// FromMap populates a Config from a string map.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["size"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Size = parsed
		}
	}
	if v, ok := cfg["rule"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 && parsed <= 255 {
			c.Rule = uint8(parsed)
		}
	}
	return c
}

// Elementary implements a one-dimensional Wolfram code. Row 0 holds the
// newest generation and older rows scroll downwards.
type Elementary struct {
	size    int
	rule    uint8
	cur     []uint8
	prev    []uint8
	tmp     []uint8
	changed []core.Cell
	gen     uint64
}

// New creates an automaton with the given side length and rule.
func New(size int, rule uint8) *Elementary {
	if size <= 0 {
		size = 1
	}
	total := size * size
	e := &Elementary{
		size: size,
		rule: rule,
		cur:  make([]uint8, total),
		prev: make([]uint8, total),
		tmp:  make([]uint8, size),
	}
	e.Reset(0)
	return e
}

// Name returns the simulation identifier.
func (e *Elementary) Name() string { return "elementary" }

// Size returns the grid side length.
func (e *Elementary) Size() int { return e.size }

// Snapshot exposes the render buffer.
func (e *Elementary) Snapshot() []uint8 { return e.cur }

// ChangedCells lists cells flipped by the last Advance and toggled since.
func (e *Elementary) ChangedCells() []core.Cell { return e.changed }

// Generation returns the number of Advance calls since the last Reset.
func (e *Elementary) Generation() uint64 { return e.gen }

// Reset clears the grid and seeds the top row with a single active cell.
func (e *Elementary) Reset(seed int64) {
	for i := range e.cur {
		e.cur[i] = 0
	}
	e.cur[e.size/2] = 1
	e.changed = e.changed[:0]
	e.gen = 0
}

// ToggleCell flips one cell. Out-of-range coordinates are ignored.
func (e *Elementary) ToggleCell(row, col int) {
	c := core.Cell{Row: row, Col: col}
	if !c.InRange(e.size) {
		return
	}
	e.cur[core.Index(c, e.size)] ^= 1
	e.changed = append(e.changed, c)
}

// Advance computes the next generation and scrolls history downwards.
func (e *Elementary) Advance() {
	n := e.size
	copy(e.prev, e.cur)
	copy(e.tmp, e.cur[:n])
	copy(e.cur[n:], e.prev[:n*(n-1)])
	for x := 0; x < n; x++ {
		left := e.tmp[(x-1+n)%n]
		center := e.tmp[x]
		right := e.tmp[(x+1)%n]
		idx := (left << 2) | (center << 1) | right
		e.cur[x] = (e.rule >> idx) & 1
	}
	e.changed = core.AppendDiff(e.changed[:0], e.prev, e.cur, n)
	e.gen++
}

func init() {
	core.Register("elementary", func(cfg map[string]string) core.Automaton {
		c := FromMap(cfg)
		return New(c.Size, c.Rule)
	})
}
