package render

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/gogpu/gg"

	"gol-canvas/internal/scene"
)

// Raster is a CPU Backend built on a gg drawing context. It accepts the same
// pipeline source as the GPU backend and rasterizes triangles and lines
// itself, which makes it usable headless.
type Raster struct {
	dc       *gg.Context
	width    int
	height   int
	displayW int
	displayH int

	resW, resH float32
	color      color.RGBA

	buffers map[string]rasterBuffer
	bound   []float32
}

type rasterBuffer struct {
	revision uint64
	data     []float32
}

type rasterProgram struct {
	name string
}

// NewRaster returns a Raster whose display and backing store are w by h.
func NewRaster(w, h int) *Raster {
	return &Raster{
		dc:       gg.NewContext(w, h),
		width:    w,
		height:   h,
		displayW: w,
		displayH: h,
		buffers:  make(map[string]rasterBuffer),
	}
}

// SetDisplaySize changes the size reported to the renderer, which resizes
// the backing store on its next frame.
func (r *Raster) SetDisplaySize(w, h int) {
	r.displayW, r.displayH = w, h
}

// Compile checks the uniform declarations; rasterization itself is fixed.
func (r *Raster) Compile(src ShaderSource) (Program, error) {
	if len(src.Source) == 0 {
		return nil, &ShaderCompileError{Stage: "fragment", Log: src.Name + ": empty source"}
	}
	if err := CheckUniforms(src); err != nil {
		return nil, err
	}
	return rasterProgram{name: src.Name}, nil
}

// Use is a no-op: Raster has a single pipeline.
func (r *Raster) Use(Program) {}

// DisplaySize returns the size set by SetDisplaySize.
func (r *Raster) DisplaySize() (int, int) { return r.displayW, r.displayH }

// Resize reallocates the pixel buffer.
func (r *Raster) Resize(w, h int) error {
	if err := r.dc.Resize(w, h); err != nil {
		return err
	}
	r.width, r.height = w, h
	return nil
}

// Clear fills the backing store.
func (r *Raster) Clear(c color.RGBA) {
	r.dc.ClearWithColor(gg.FromColor(c))
}

// SetResolution sets the vertex extent mapped onto the backing store.
func (r *Raster) SetResolution(w, h float32) { r.resW, r.resH = w, h }

// SetColor sets the fill and stroke color of later draws.
func (r *Raster) SetColor(c color.RGBA) { r.color = c }

// Upload copies data unless the named buffer already holds this revision.
func (r *Raster) Upload(key BufferKey, data []float32) bool {
	if b, ok := r.buffers[key.Name]; ok && b.revision == key.Revision {
		r.bound = b.data
		return false
	}
	b := r.buffers[key.Name]
	b.revision = key.Revision
	b.data = append(b.data[:0], data...)
	r.buffers[key.Name] = b
	r.bound = b.data
	return true
}

// Draw rasterizes the first count vertices of the bound buffer.
func (r *Raster) Draw(kind scene.Kind, count int) error {
	n := count * 2
	if n > len(r.bound) {
		return fmt.Errorf("raster: draw of %d vertices, %d bound", count, len(r.bound)/2)
	}
	if n == 0 {
		return nil
	}
	sx, sy := r.scale()
	pts := r.bound[:n]
	r.dc.SetColor(r.color)
	switch kind {
	case scene.Triangles:
		for i := 0; i+6 <= n; i += 6 {
			r.dc.MoveTo(float64(pts[i])*sx, float64(pts[i+1])*sy)
			r.dc.LineTo(float64(pts[i+2])*sx, float64(pts[i+3])*sy)
			r.dc.LineTo(float64(pts[i+4])*sx, float64(pts[i+5])*sy)
			r.dc.ClosePath()
		}
		return r.dc.Fill()
	case scene.Lines:
		r.dc.SetLineWidth(1)
		for i := 0; i+4 <= n; i += 4 {
			r.dc.MoveTo(float64(pts[i])*sx, float64(pts[i+1])*sy)
			r.dc.LineTo(float64(pts[i+2])*sx, float64(pts[i+3])*sy)
		}
		return r.dc.Stroke()
	}
	return fmt.Errorf("raster: unsupported primitive %s", kind)
}

func (r *Raster) scale() (float64, float64) {
	sx, sy := 1.0, 1.0
	if r.resW > 0 {
		sx = float64(r.width) / float64(r.resW)
	}
	if r.resH > 0 {
		sy = float64(r.height) / float64(r.resH)
	}
	return sx, sy
}

// Image returns the backing store.
func (r *Raster) Image() image.Image { return r.dc.Image() }

// EncodePNG writes the backing store as PNG.
func (r *Raster) EncodePNG(w io.Writer) error { return r.dc.EncodePNG(w) }
