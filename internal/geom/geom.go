// Package geom converts between grid cells, pixel space and vertex geometry.
//
// Cells are laid out with a one pixel gutter: cell (row, col) covers the
// square starting at (col*(c+1)+1, row*(c+1)+1) with side c, where c is the
// cell size in pixels. Screen X always selects the column and screen Y the
// row, both when generating vertices and when mapping a pointer back.
package geom

import (
	"math"

	"gol-canvas/internal/core"
)

// Point is a position in pixels.
type Point struct {
	X, Y float64
}

// Extent is a width and height in pixels.
type Extent struct {
	W, H float64
}

// Square returns an Extent with equal sides.
func Square(side int) Extent { return Extent{W: float64(side), H: float64(side)} }

// CanvasSize returns the side of the square canvas, in pixels, for a grid of
// side size with cells of cellSize pixels.
func CanvasSize(size, cellSize int) int { return size*cellSize + size }

// CellOrigin returns the top-left pixel of the cell.
func CellOrigin(cellSize, row, col int) (x, y int) {
	return col*(cellSize+1) + 1, row*(cellSize+1) + 1
}

// CellVertices returns the two triangles covering the cell as six (x, y)
// pairs: (x,y) (x2,y) (x,y2) (x,y2) (x2,y) (x2,y2).
func CellVertices(cellSize, row, col int) []float32 {
	return AppendCellVertices(make([]float32, 0, 12), cellSize, row, col)
}

// AppendCellVertices appends the cell's twelve vertex scalars to dst.
func AppendCellVertices(dst []float32, cellSize, row, col int) []float32 {
	x, y := CellOrigin(cellSize, row, col)
	x2, y2 := x+cellSize, y+cellSize
	fx, fy, fx2, fy2 := float32(x), float32(y), float32(x2), float32(y2)
	return append(dst,
		fx, fy,
		fx2, fy,
		fx, fy2,

		fx, fy2,
		fx2, fy,
		fx2, fy2,
	)
}

// GridVertices returns the line list separating the cells: for every i in
// [0, size] one vertical and one horizontal line through the centre of the
// gutter pixel at i*(cellSize+1). Each line is two (x, y) pairs, so the
// result holds 8*(size+1) scalars.
func GridVertices(size, cellSize int) []float32 {
	end := float32(size*(cellSize+1) + 1)
	out := make([]float32, 0, 8*(size+1))
	for i := 0; i <= size; i++ {
		at := float32(i*(cellSize+1)) + 0.5
		out = append(out,
			at, 0, at, end, // vertical
			0, at, end, at, // horizontal
		)
	}
	return out
}

// PointerToCell maps a pointer position in display pixels to the cell under
// it. The position is first scaled by canvas/display to undo any difference
// between the backing store and its on-screen size. The result is always
// clamped into the grid.
func PointerToCell(p Point, canvas, display Extent, gridSize, cellSize int) core.Cell {
	sx := scaleAxis(p.X, canvas.W, display.W)
	sy := scaleAxis(p.Y, canvas.H, display.H)
	pitch := float64(cellSize + 1)
	return core.Cell{
		Row: clampIndex(sy/pitch, gridSize),
		Col: clampIndex(sx/pitch, gridSize),
	}
}

func scaleAxis(v, canvas, display float64) float64 {
	if display <= 0 || canvas <= 0 {
		return v
	}
	return v * canvas / display
}

func clampIndex(v float64, n int) int {
	if n <= 0 || math.IsNaN(v) || v < 0 {
		return 0
	}
	if v >= float64(n) {
		return n - 1
	}
	return int(math.Floor(v))
}
