package ui

import (
	"strings"
	"testing"

	"gol-canvas/internal/dirty"
	"gol-canvas/internal/loop"
	"gol-canvas/internal/render"
)

func TestStatusLines(t *testing.T) {
	s := Status{
		Automaton: "life",
		Size:      64,
		Report: loop.Report{
			Generation: 12345,
			State:      loop.Paused,
			FPS:        59.94,
			Sync:       dirty.Stats{Strategy: dirty.PerCell, Flips: 7},
			Draw:       render.FrameStats{DrawCalls: 3, Vertices: 2400, UploadedBytes: 2048},
		},
	}
	lines := s.Lines()
	if len(lines) != 3 {
		t.Fatalf("lines = %v", lines)
	}
	if lines[0] != "life 64x64  gen 12,345  paused" {
		t.Fatalf("first line %q", lines[0])
	}
	if lines[1] != "59.9 fps  3 draws  2,400 verts" {
		t.Fatalf("second line %q", lines[1])
	}
	if lines[2] != "percell 7 flips  2.0 kB uploaded" {
		t.Fatalf("third line %q", lines[2])
	}

	s.Fallback = true
	if !strings.Contains(s.String(), "full compare") {
		t.Fatalf("fallback not shown: %q", s.String())
	}
}
