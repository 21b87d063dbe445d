package scene

import (
	"image/color"
	"strconv"

	"gol-canvas/internal/geom"
)

// GridName names the drawable holding the grid lines.
const GridName = "grid"

// Aggregate drawables used by the full rebuild strategy.
const (
	AliveCellsName = "cells/alive"
	DeadCellsName  = "cells/dead"
)

// CellName returns the registry key of the drawable for (row, col).
func CellName(row, col int) string {
	return "cell/" + strconv.Itoa(row) + "/" + strconv.Itoa(col)
}

// Palette holds the colors used for a world.
type Palette struct {
	Background color.RGBA
	Alive      color.RGBA
	Dead       color.RGBA
	Grid       color.RGBA
}

// DefaultPalette draws black cells on white with light grey grid lines.
func DefaultPalette() Palette {
	return Palette{
		Background: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		Alive:      color.RGBA{A: 0xff},
		Dead:       color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		Grid:       color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff},
	}
}

// BuildOption customizes BuildWorld.
type BuildOption func(*buildConfig)

type buildConfig struct {
	palette Palette
}

// WithPalette overrides the default palette.
func WithPalette(p Palette) BuildOption {
	return func(c *buildConfig) { c.palette = p }
}

// BuildWorld creates the drawables for a grid of side size: size*size cell
// quads, all hidden (dead), followed by the visible grid lines.
func BuildWorld(size, cellSize int, opts ...BuildOption) *World {
	cfg := buildConfig{palette: DefaultPalette()}
	for _, opt := range opts {
		opt(&cfg)
	}
	w := NewWorld()
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			w.Add(Drawable{
				Name:     CellName(row, col),
				Kind:     Triangles,
				Color:    cfg.palette.Alive,
				Vertices: geom.CellVertices(cellSize, row, col),
			})
		}
	}
	w.Add(Drawable{
		Name:     GridName,
		Kind:     Lines,
		Color:    cfg.palette.Grid,
		Vertices: geom.GridVertices(size, cellSize),
		Visible:  true,
	})
	return w
}
