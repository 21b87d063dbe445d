package core

// AppendDiff appends to dst every cell whose alive bit differs between prev
// and cur. Both slices must hold size*size values.
func AppendDiff(dst []Cell, prev, cur []uint8, size int) []Cell {
	for i := range cur {
		if (prev[i] != 0) != (cur[i] != 0) {
			dst = append(dst, CellAt(i, size))
		}
	}
	return dst
}
