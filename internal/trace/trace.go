// Package trace writes one JSON line per rendered frame into a zstd stream.
package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"gol-canvas/internal/loop"
)

// Record is the serialized form of a loop.Report.
type Record struct {
	Frame         uint64  `json:"frame"`
	Generation    uint64  `json:"generation"`
	Advanced      bool    `json:"advanced"`
	State         string  `json:"state"`
	UnixMs        int64   `json:"unix_ms"`
	DeltaMs       float64 `json:"delta_ms"`
	FPS           float64 `json:"fps"`
	Strategy      string  `json:"strategy"`
	Reported      int     `json:"reported"`
	Flips         int     `json:"flips"`
	Audited       bool    `json:"audited,omitempty"`
	Repaired      int     `json:"repaired,omitempty"`
	Fallback      bool    `json:"fallback,omitempty"`
	DrawCalls     int     `json:"draw_calls"`
	Vertices      int     `json:"vertices"`
	UploadedBytes int     `json:"uploaded_bytes"`
	Resized       bool    `json:"resized,omitempty"`
}

// FromReport converts a frame report.
func FromReport(r loop.Report) Record {
	return Record{
		Frame:         r.Frame,
		Generation:    r.Generation,
		Advanced:      r.Advanced,
		State:         r.State.String(),
		UnixMs:        r.At.UnixMilli(),
		DeltaMs:       float64(r.Delta) / float64(time.Millisecond),
		FPS:           r.FPS,
		Strategy:      string(r.Sync.Strategy),
		Reported:      r.Sync.Reported,
		Flips:         r.Sync.Flips,
		Audited:       r.Sync.Audited,
		Repaired:      r.Sync.Repaired,
		Fallback:      r.Sync.Fallback,
		DrawCalls:     r.Draw.DrawCalls,
		Vertices:      r.Draw.Vertices,
		UploadedBytes: r.Draw.UploadedBytes,
		Resized:       r.Draw.Resized,
	}
}

// Writer encodes records as zstd compressed JSON lines.
type Writer struct {
	c   io.Closer
	enc *zstd.Encoder
	w   *bufio.Writer
}

// Create opens path for writing, creating parent directories.
func Create(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w, err := NewWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return w, nil
}

// NewWriter wraps dst. Close closes dst when it is an io.Closer.
func NewWriter(dst io.Writer) (*Writer, error) {
	enc, err := zstd.NewWriter(dst, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	w := &Writer{enc: enc, w: bufio.NewWriter(enc)}
	if c, ok := dst.(io.Closer); ok {
		w.c = c
	}
	return w, nil
}

// Write appends one record.
func (w *Writer) Write(rec Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Observe adapts the writer to loop.Observer; errors are passed to onErr.
func (w *Writer) Observe(onErr func(error)) loop.Observer {
	return func(r loop.Report) {
		if err := w.Write(FromReport(r)); err != nil && onErr != nil {
			onErr(err)
		}
	}
}

// Close flushes buffered records and finishes the zstd frame.
func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		_ = w.enc.Close()
		return err
	}
	if err := w.enc.Close(); err != nil {
		return err
	}
	if w.c != nil {
		return w.c.Close()
	}
	return nil
}

// ReadAll decodes every record from a trace stream.
func ReadAll(src io.Reader) ([]Record, error) {
	dec, err := zstd.NewReader(src)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	defer dec.Close()
	var out []Record
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		var rec Record
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return out, fmt.Errorf("trace: line %d: %w", len(out)+1, err)
		}
		out = append(out, rec)
	}
	return out, sc.Err()
}
