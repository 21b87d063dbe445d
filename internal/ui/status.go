package ui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"gol-canvas/internal/loop"
)

// Status is the information shown in the overlay.
type Status struct {
	Automaton string
	Size      int
	Report    loop.Report
	Fallback  bool
}

// Lines formats s as overlay text, one entry per line.
func (s Status) Lines() []string {
	r := s.Report
	lines := []string{
		fmt.Sprintf("%s %dx%d  gen %s  %s", s.Automaton, s.Size, s.Size, humanize.Comma(int64(r.Generation)), r.State),
		fmt.Sprintf("%.1f fps  %d draws  %s verts", r.FPS, r.Draw.DrawCalls, humanize.Comma(int64(r.Draw.Vertices))),
		fmt.Sprintf("%s %d flips  %s uploaded", r.Sync.Strategy, r.Sync.Flips, humanize.Bytes(uint64(r.Draw.UploadedBytes))),
	}
	if s.Fallback {
		lines = append(lines, "change report incomplete: full compare")
	}
	return lines
}

// String joins Lines with newlines.
func (s Status) String() string { return strings.Join(s.Lines(), "\n") }
