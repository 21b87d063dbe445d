package trace

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gol-canvas/internal/dirty"
	"gol-canvas/internal/loop"
	"gol-canvas/internal/render"
)

func TestObserverRecordsFrames(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	if err != nil {
		t.Fatalf("writer: %v", err)
	}
	var failures []error
	obs := w.Observe(func(err error) { failures = append(failures, err) })
	at := time.UnixMilli(5000)
	obs(loop.Report{
		Frame: 1, Generation: 0, State: loop.Paused, At: at,
		Sync: dirty.Stats{Strategy: dirty.PerCell, Flips: 10, FullCompare: true},
		Draw: render.FrameStats{DrawCalls: 11, Vertices: 78, UploadedBytes: 312, Resized: true},
	})
	obs(loop.Report{
		Frame: 2, Generation: 1, Advanced: true, State: loop.Running, At: at.Add(16 * time.Millisecond),
		Delta: 16 * time.Millisecond,
		Sync:  dirty.Stats{Strategy: dirty.PerCell, Reported: 3, Flips: 3, Audited: true},
		Draw:  render.FrameStats{DrawCalls: 12},
	})
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if len(failures) != 0 {
		t.Fatalf("observer errors: %v", failures)
	}

	recs, err := ReadAll(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("records = %d, expected 2", len(recs))
	}
	if recs[0].State != "paused" || recs[0].UnixMs != 5000 || !recs[0].Resized || recs[0].UploadedBytes != 312 {
		t.Fatalf("first record = %+v", recs[0])
	}
	if !recs[1].Advanced || recs[1].DeltaMs != 16 || recs[1].Reported != 3 || !recs[1].Audited {
		t.Fatalf("second record = %+v", recs[1])
	}
}

func TestCreateMakesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "frames.jsonl.zst")
	w, err := Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := w.Write(Record{Frame: 7}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	recs, err := ReadAll(f)
	if err != nil || len(recs) != 1 || recs[0].Frame != 7 {
		t.Fatalf("read back %v, %v", recs, err)
	}
}
