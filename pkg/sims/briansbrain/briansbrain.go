package briansbrain

import (
	"strconv"

	"gol-canvas/internal/core"
)

const (
	stateDead  = 0
	stateOn    = 1
	stateDying = 2
)

// Brain implements Brian's Brain. Only firing cells count as alive in the
// snapshot; dying cells render as dead.
type Brain struct {
	size    int
	cur     []uint8
	nxt     []uint8
	bits    []uint8
	prev    []uint8
	changed []core.Cell
	gen     uint64
}

// New creates a Brain simulation of side size.
func New(size int) *Brain {
	if size <= 0 {
		size = 1
	}
	total := size * size
	b := &Brain{
		size: size,
		cur:  make([]uint8, total),
		nxt:  make([]uint8, total),
		bits: make([]uint8, total),
		prev: make([]uint8, total),
	}
	b.Reset(0)
	return b
}

// Name identifies the simulation.
func (b *Brain) Name() string { return "briansbrain" }

// Size returns the grid side length.
func (b *Brain) Size() int { return b.size }

// Snapshot exposes the firing bit of every cell.
func (b *Brain) Snapshot() []uint8 { return b.bits }

// ChangedCells lists cells whose firing bit flipped in the last Advance, plus
// cells toggled since.
func (b *Brain) ChangedCells() []core.Cell { return b.changed }

// Generation returns the number of Advance calls since the last Reset.
func (b *Brain) Generation() uint64 { return b.gen }

// Reset randomizes cells into dead or firing states.
func (b *Brain) Reset(seed int64) {
	rng := core.NewRNG(seed)
	for i := range b.cur {
		if rng.OneIn(8) {
			b.cur[i] = stateOn
			continue
		}
		b.cur[i] = stateDead
	}
	b.refreshBits()
	b.changed = b.changed[:0]
	b.gen = 0
}

// ToggleCell switches a cell between firing and dead.
func (b *Brain) ToggleCell(row, col int) {
	c := core.Cell{Row: row, Col: col}
	if !c.InRange(b.size) {
		return
	}
	idx := core.Index(c, b.size)
	if b.cur[idx] == stateOn {
		b.cur[idx] = stateDead
		b.bits[idx] = 0
	} else {
		b.cur[idx] = stateOn
		b.bits[idx] = 1
	}
	b.changed = append(b.changed, c)
}

// Advance moves the automaton forward by one tick.
func (b *Brain) Advance() {
	n := b.size
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			idx := col + row*n
			switch b.cur[idx] {
			case stateOn:
				b.nxt[idx] = stateDying
			case stateDying:
				b.nxt[idx] = stateDead
			default:
				neighbors := 0
				for dr := -1; dr <= 1; dr++ {
					for dc := -1; dc <= 1; dc++ {
						if dr == 0 && dc == 0 {
							continue
						}
						nr := (row + dr + n) % n
						nc := (col + dc + n) % n
						if b.cur[nc+nr*n] == stateOn {
							neighbors++
						}
					}
				}
				if neighbors == 2 {
					b.nxt[idx] = stateOn
				} else {
					b.nxt[idx] = stateDead
				}
			}
		}
	}
	b.cur, b.nxt = b.nxt, b.cur
	copy(b.prev, b.bits)
	b.refreshBits()
	b.changed = core.AppendDiff(b.changed[:0], b.prev, b.bits, n)
	b.gen++
}

func (b *Brain) refreshBits() {
	for i, s := range b.cur {
		b.bits[i] = 0
		if s == stateOn {
			b.bits[i] = 1
		}
	}
}

func init() {
	core.Register("briansbrain", func(cfg map[string]string) core.Automaton {
		size := 64
		if v, ok := cfg["size"]; ok {
			if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
				size = parsed
			}
		}
		return New(size)
	})
}
