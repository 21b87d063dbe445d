// Package input turns pointer clicks into cell toggles.
package input

import (
	"fmt"

	"gol-canvas/internal/core"
	"gol-canvas/internal/dirty"
	"gol-canvas/internal/geom"
	"gol-canvas/internal/loop"
)

// PointerEvent is a click in display pixels. Display is the on-screen size of
// the surface the pointer position is relative to.
type PointerEvent struct {
	X, Y    float64
	Display geom.Extent
}

// Synchronizer is the part of dirty.Synchronizer the handler needs.
type Synchronizer interface {
	Touch(src dirty.Source, c core.Cell) error
	MarkDirty(c core.Cell)
}

// Controller is the part of loop.Controller the handler needs.
type Controller interface {
	State() loop.State
	DrawOnly() error
}

// Handler toggles the cell under a click.
type Handler struct {
	automaton core.Automaton
	sync      Synchronizer
	ctl       Controller
	canvas    geom.Extent
	cellSize  int
}

// NewHandler returns a Handler for a grid drawn with cellSize pixel cells.
func NewHandler(a core.Automaton, s Synchronizer, ctl Controller, cellSize int) *Handler {
	return &Handler{
		automaton: a,
		sync:      s,
		ctl:       ctl,
		canvas:    geom.Square(geom.CanvasSize(a.Size(), cellSize)),
		cellSize:  cellSize,
	}
}

// OnPointer toggles the clicked cell. While paused the change is drawn
// immediately; while running the next frame picks it up.
func (h *Handler) OnPointer(ev PointerEvent) (core.Cell, error) {
	size := h.automaton.Size()
	cell := geom.PointerToCell(geom.Point{X: ev.X, Y: ev.Y}, h.canvas, ev.Display, size, h.cellSize)
	if err := core.CheckCell(cell, size); err != nil {
		return cell, fmt.Errorf("input: %w", err)
	}
	h.automaton.ToggleCell(cell.Row, cell.Col)
	core.Logger().Debug("cell toggled", "row", cell.Row, "col", cell.Col, "state", h.ctl.State())

	if h.ctl.State() == loop.Paused {
		if err := h.sync.Touch(h.automaton, cell); err != nil {
			return cell, fmt.Errorf("input: %w", err)
		}
		return cell, h.ctl.DrawOnly()
	}
	h.sync.MarkDirty(cell)
	return cell, nil
}
