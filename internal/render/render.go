// Package render draws a scene.World through a pluggable backend.
//
// A Backend mirrors the primitives of a GPU context: compile a pipeline, bind
// and upload a vertex buffer, set the resolution and color uniforms and issue
// a draw of a primitive kind. Renderer performs one drawing pass per call to
// DrawFrame; it never alters the World.
package render

import (
	"fmt"
	"image/color"

	"gol-canvas/internal/core"
	"gol-canvas/internal/geom"
	"gol-canvas/internal/scene"
)

// Program is an opaque pipeline handle returned by Backend.Compile.
type Program any

// BufferKey identifies uploaded vertex data. Backends may skip an upload
// when they already hold the same name at the same revision.
type BufferKey struct {
	Name     string
	Revision uint64
}

// Backend is the drawing surface the renderer issues commands to.
type Backend interface {
	// Compile builds a pipeline. Failures are *ShaderCompileError or
	// *ProgramLinkError carrying the backend's diagnostic.
	Compile(src ShaderSource) (Program, error)
	Use(p Program)
	// DisplaySize is the current on-screen size of the surface in pixels.
	DisplaySize() (int, int)
	// Resize reallocates the backing store.
	Resize(width, height int) error
	Clear(c color.RGBA)
	// SetResolution sets the extent, in vertex units, that spans the whole
	// backing store.
	SetResolution(width, height float32)
	SetColor(c color.RGBA)
	// Upload binds key's buffer and fills it with data, reporting whether
	// data was actually transferred.
	Upload(key BufferKey, data []float32) bool
	// Draw issues one draw call over the first count vertices of the bound
	// buffer.
	Draw(kind scene.Kind, count int) error
}

// ShaderCompileError reports a pipeline stage that failed to compile. Log is
// the backend diagnostic, unmodified.
type ShaderCompileError struct {
	Stage string
	Log   string
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("error while compiling %s shader: %s", e.Stage, e.Log)
}

// ProgramLinkError reports a pipeline that compiled but could not be linked.
// Error returns Log unmodified.
type ProgramLinkError struct {
	Log string
}

func (e *ProgramLinkError) Error() string { return e.Log }

// FrameStats summarizes one drawing pass.
type FrameStats struct {
	DrawCalls     int
	Vertices      int
	UploadedBytes int
	Resized       bool
	Width, Height int
}

// Renderer draws every visible drawable of a World once per frame.
type Renderer struct {
	backend    Backend
	program    Program
	canvas     geom.Extent
	background color.RGBA
	width      int
	height     int
}

// New compiles src on b. canvas is the logical size of the scene in vertex
// units; background fills the surface before each frame. A compile or link
// failure is fatal for the session and is returned as is.
func New(b Backend, src ShaderSource, canvas geom.Extent, background color.RGBA) (*Renderer, error) {
	prog, err := b.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("render: %s: %w", src.Name, err)
	}
	core.Logger().Info("pipeline ready", "shader", src.Name)
	return &Renderer{backend: b, program: prog, canvas: canvas, background: background}, nil
}

// Canvas returns the logical scene size.
func (r *Renderer) Canvas() geom.Extent { return r.canvas }

// DisplaySize returns the backend's current display size.
func (r *Renderer) DisplaySize() geom.Extent {
	w, h := r.backend.DisplaySize()
	return geom.Extent{W: float64(w), H: float64(h)}
}

// DrawnSize returns the backing store size of the latest frame, which is what
// the screen currently shows. Before the first frame it is the canvas size.
func (r *Renderer) DrawnSize() geom.Extent {
	if r.width <= 0 || r.height <= 0 {
		return r.canvas
	}
	return geom.Extent{W: float64(r.width), H: float64(r.height)}
}

// DrawFrame clears the surface and draws the visible drawables of w in
// iteration order. When the display size changed since the previous frame,
// the backing store is resized first and the resolution recomputed.
func (r *Renderer) DrawFrame(w *scene.World) (FrameStats, error) {
	var st FrameStats
	b := r.backend

	dw, dh := b.DisplaySize()
	if dw <= 0 || dh <= 0 {
		dw, dh = int(r.canvas.W), int(r.canvas.H)
	}
	if dw != r.width || dh != r.height {
		if err := b.Resize(dw, dh); err != nil {
			return st, fmt.Errorf("render: resize to %dx%d: %w", dw, dh, err)
		}
		core.Logger().Info("surface resized", "from_w", r.width, "from_h", r.height, "w", dw, "h", dh)
		r.width, r.height = dw, dh
		st.Resized = true
	}
	st.Width, st.Height = r.width, r.height

	b.Use(r.program)
	b.SetResolution(float32(r.canvas.W), float32(r.canvas.H))
	b.Clear(r.background)

	var drawErr error
	w.ForEach(func(d scene.Drawable) {
		if drawErr != nil || !d.Visible {
			return
		}
		b.SetColor(d.Color)
		if b.Upload(BufferKey{Name: d.Name, Revision: d.Revision}, d.Vertices) {
			st.UploadedBytes += 4 * len(d.Vertices)
		}
		if err := b.Draw(d.Kind, d.VertexCount()); err != nil {
			drawErr = fmt.Errorf("render: draw %s: %w", d.Name, err)
			return
		}
		st.DrawCalls++
		st.Vertices += d.VertexCount()
	})
	return st, drawErr
}
