package core

import "fmt"

// OutOfRangeCellError reports a cell outside [0,Size) on either axis. Pointer
// mapping clamps, so seeing one means a caller skipped the mapper.
type OutOfRangeCellError struct {
	Cell Cell
	Size int
}

func (e *OutOfRangeCellError) Error() string {
	return fmt.Sprintf("cell (%d,%d) outside %dx%d grid", e.Cell.Row, e.Cell.Col, e.Size, e.Size)
}

// CheckCell returns an *OutOfRangeCellError when c is not inside the grid.
func CheckCell(c Cell, size int) error {
	if !c.InRange(size) {
		return &OutOfRangeCellError{Cell: c, Size: size}
	}
	return nil
}
