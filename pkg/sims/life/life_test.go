package life

import (
	"testing"

	"gol-canvas/internal/core"
)

func TestBlinkerOscillation(t *testing.T) {
	life := NewWithConfig(Config{Size: 5, Pattern: PatternEmpty})

	n := life.Size()
	set := func(row, col int) { life.Snapshot()[col+row*n] = 1 }
	set(1, 2)
	set(2, 2)
	set(3, 2)

	life.Advance()
	cells := life.Snapshot()

	expects := map[[2]int]bool{
		{2, 1}: true,
		{2, 2}: true,
		{2, 3}: true,
	}

	for row := 0; row < 5; row++ {
		for col := 0; col < 5; col++ {
			alive := cells[col+row*n] == 1
			_, shouldBeAlive := expects[[2]int{row, col}]
			if shouldBeAlive != alive {
				t.Fatalf("cell (%d,%d) alive=%v, expected %v", row, col, alive, shouldBeAlive)
			}
		}
	}

	life.Advance()
	cells = life.Snapshot()

	expects = map[[2]int]bool{
		{1, 2}: true,
		{2, 2}: true,
		{3, 2}: true,
	}

	for row := 0; row < 5; row++ {
		for col := 0; col < 5; col++ {
			alive := cells[col+row*n] == 1
			_, shouldBeAlive := expects[[2]int{row, col}]
			if shouldBeAlive != alive {
				t.Fatalf("after second step cell (%d,%d) alive=%v, expected %v", row, col, alive, shouldBeAlive)
			}
		}
	}
	if life.Generation() != 2 {
		t.Fatalf("generation = %d, expected 2", life.Generation())
	}
}

func TestChangedCellsReportsBlinkerFlips(t *testing.T) {
	life := NewWithConfig(Config{Size: 5, Pattern: PatternEmpty})
	if got := len(life.ChangedCells()); got != 0 {
		t.Fatalf("changed cells before first advance = %d, expected 0", got)
	}
	n := life.Size()
	for _, row := range []int{1, 2, 3} {
		life.Snapshot()[2+row*n] = 1
	}

	life.Advance()

	want := map[core.Cell]bool{
		{Row: 1, Col: 2}: true,
		{Row: 3, Col: 2}: true,
		{Row: 2, Col: 1}: true,
		{Row: 2, Col: 3}: true,
	}
	changed := life.ChangedCells()
	if len(changed) != len(want) {
		t.Fatalf("changed cells = %v, expected %d entries", changed, len(want))
	}
	for _, c := range changed {
		if !want[c] {
			t.Fatalf("unexpected changed cell (%d,%d)", c.Row, c.Col)
		}
	}
}

func TestToggleCellIsReportedUntilNextAdvance(t *testing.T) {
	life := NewWithConfig(Config{Size: 4, Pattern: PatternEmpty})
	life.ToggleCell(1, 3)

	if life.Snapshot()[3+1*4] != 1 {
		t.Fatalf("toggled cell not alive")
	}
	changed := life.ChangedCells()
	if len(changed) != 1 || changed[0] != (core.Cell{Row: 1, Col: 3}) {
		t.Fatalf("changed cells = %v, expected [(1,3)]", changed)
	}
	if life.Generation() != 0 {
		t.Fatalf("toggle advanced generation to %d", life.Generation())
	}

	life.ToggleCell(9, 9)
	if len(life.ChangedCells()) != 1 {
		t.Fatalf("out-of-range toggle was recorded")
	}
}

func TestClassicPattern(t *testing.T) {
	life := New(4)
	for i, v := range life.Snapshot() {
		want := uint8(0)
		if i%3 == 0 || i%7 == 0 {
			want = 1
		}
		if v != want {
			t.Fatalf("cell %d = %d, expected %d", i, v, want)
		}
	}
}

func TestRegisteredFactoryHonorsConfig(t *testing.T) {
	factory, ok := core.Automata()["life"]
	if !ok {
		t.Fatalf("life not registered")
	}
	a := factory(map[string]string{"size": "12", "pattern": "empty"})
	if a.Size() != 12 {
		t.Fatalf("size = %d, expected 12", a.Size())
	}
	for i, v := range a.Snapshot() {
		if v != 0 {
			t.Fatalf("cell %d alive in empty pattern", i)
		}
	}
}
