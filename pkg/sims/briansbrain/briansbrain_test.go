package briansbrain

import "testing"

func TestFiringCellDiesAndSnapshotTracksIt(t *testing.T) {
	b := New(6)
	for i := range b.cur {
		b.cur[i] = stateDead
	}
	b.refreshBits()

	b.ToggleCell(2, 2)
	if b.Snapshot()[2+2*6] != 1 {
		t.Fatalf("toggled cell not firing")
	}

	b.Advance()
	if b.Snapshot()[2+2*6] != 0 {
		t.Fatalf("firing cell still alive after one tick")
	}
	if b.cur[2+2*6] != stateDying {
		t.Fatalf("firing cell state = %d, expected dying", b.cur[2+2*6])
	}

	found := false
	for _, c := range b.ChangedCells() {
		if c.Row == 2 && c.Col == 2 {
			found = true
		}
	}
	if !found {
		t.Fatalf("changed cells %v miss (2,2)", b.ChangedCells())
	}
}
