// Package rendertest provides a render.Backend that records commands.
package rendertest

import (
	"image/color"

	"gol-canvas/internal/render"
	"gol-canvas/internal/scene"
)

// Draw is one recorded draw call.
type Draw struct {
	Name  string
	Kind  scene.Kind
	Count int
	Color color.RGBA
}

// Frame holds the commands issued between two clears.
type Frame struct {
	Draws      []Draw
	Resolution [2]float32
}

// Names lists the drawable names drawn in the frame, in order.
func (f Frame) Names() []string {
	out := make([]string, len(f.Draws))
	for i, d := range f.Draws {
		out[i] = d.Name
	}
	return out
}

// Recorder implements render.Backend without drawing anything.
type Recorder struct {
	// CompileErr, when set, is returned by Compile.
	CompileErr error

	Display [2]int
	Backing [2]int
	Resizes int
	Uploads int
	Frames  []Frame

	resolution [2]float32
	color      color.RGBA
	bound      string
	revisions  map[string]uint64
}

// NewRecorder returns a Recorder with a w by h display.
func NewRecorder(w, h int) *Recorder {
	return &Recorder{Display: [2]int{w, h}, revisions: make(map[string]uint64)}
}

// Compile returns CompileErr or a program handle.
func (r *Recorder) Compile(src render.ShaderSource) (render.Program, error) {
	if r.CompileErr != nil {
		return nil, r.CompileErr
	}
	if err := render.CheckUniforms(src); err != nil {
		return nil, err
	}
	return src.Name, nil
}

// Use accepts any program; the recorder has no pipeline state.
func (r *Recorder) Use(render.Program) {}

// DisplaySize returns Display.
func (r *Recorder) DisplaySize() (int, int) { return r.Display[0], r.Display[1] }

// Resize records the new backing size.
func (r *Recorder) Resize(w, h int) error {
	r.Backing = [2]int{w, h}
	r.Resizes++
	return nil
}

// Clear starts a new frame.
func (r *Recorder) Clear(color.RGBA) {
	r.Frames = append(r.Frames, Frame{Resolution: r.resolution})
}

// SetResolution stores the resolution for the next frame.
func (r *Recorder) SetResolution(w, h float32) { r.resolution = [2]float32{w, h} }

// SetColor stores the color attached to later draws.
func (r *Recorder) SetColor(c color.RGBA) { r.color = c }

// Upload binds the named buffer and counts uploads of new revisions.
func (r *Recorder) Upload(key render.BufferKey, data []float32) bool {
	r.bound = key.Name
	if rev, ok := r.revisions[key.Name]; ok && rev == key.Revision {
		return false
	}
	r.revisions[key.Name] = key.Revision
	r.Uploads++
	return true
}

// Draw records a draw of the bound buffer into the current frame.
func (r *Recorder) Draw(kind scene.Kind, count int) error {
	if len(r.Frames) == 0 {
		r.Frames = append(r.Frames, Frame{Resolution: r.resolution})
	}
	f := &r.Frames[len(r.Frames)-1]
	f.Draws = append(f.Draws, Draw{Name: r.bound, Kind: kind, Count: count, Color: r.color})
	return nil
}

// Last returns the most recent frame.
func (r *Recorder) Last() Frame {
	if len(r.Frames) == 0 {
		return Frame{}
	}
	return r.Frames[len(r.Frames)-1]
}
