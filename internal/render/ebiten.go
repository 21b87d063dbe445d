//go:build ebiten

package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"gol-canvas/internal/scene"
)

// maxBatchVertices keeps a single DrawTrianglesShader call within uint16
// indices. It is a multiple of both 4 (line quads) and 6 (cell quads).
const maxBatchVertices = 65532

// Ebiten is a GPU Backend drawing into an offscreen ebiten image that Present
// copies onto the screen. Lines are expanded into one pixel wide quads.
type Ebiten struct {
	target   *ebiten.Image
	displayW int
	displayH int

	shader     *ebiten.Shader
	resolution [2]float32
	color      [4]float32

	buffers map[string]*ebitenBuffer
	bound   *ebitenBuffer

	vertices []ebiten.Vertex
	indices  []uint16
}

type ebitenBuffer struct {
	revision uint64
	data     []float32
}

// NewEbiten returns a backend with a w by h display.
func NewEbiten(w, h int) *Ebiten {
	return &Ebiten{displayW: w, displayH: h, buffers: make(map[string]*ebitenBuffer)}
}

// SetDisplaySize records the outside size reported by ebiten's Layout.
func (e *Ebiten) SetDisplaySize(w, h int) {
	e.displayW, e.displayH = w, h
}

// Compile compiles a Kage source.
func (e *Ebiten) Compile(src ShaderSource) (Program, error) {
	s, err := ebiten.NewShader(src.Source)
	if err != nil {
		return nil, &ShaderCompileError{Stage: "kage", Log: err.Error()}
	}
	if err := CheckUniforms(src); err != nil {
		s.Dispose()
		return nil, err
	}
	return s, nil
}

// Use selects a program returned by Compile.
func (e *Ebiten) Use(p Program) {
	if s, ok := p.(*ebiten.Shader); ok {
		e.shader = s
	}
}

// DisplaySize returns the last size set by SetDisplaySize.
func (e *Ebiten) DisplaySize() (int, int) { return e.displayW, e.displayH }

// Resize reallocates the offscreen target.
func (e *Ebiten) Resize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("ebiten: invalid size %dx%d", w, h)
	}
	if e.target != nil {
		e.target.Dispose()
	}
	e.target = ebiten.NewImage(w, h)
	return nil
}

// Clear fills the target.
func (e *Ebiten) Clear(c color.RGBA) {
	if e.target != nil {
		e.target.Fill(c)
	}
}

// SetResolution sets the vertex extent mapped onto the target.
func (e *Ebiten) SetResolution(w, h float32) { e.resolution = [2]float32{w, h} }

// SetColor sets the Color uniform.
func (e *Ebiten) SetColor(c color.RGBA) {
	e.color = [4]float32{float32(c.R) / 0xff, float32(c.G) / 0xff, float32(c.B) / 0xff, float32(c.A) / 0xff}
}

// Upload copies data unless the named buffer already holds this revision.
func (e *Ebiten) Upload(key BufferKey, data []float32) bool {
	b, ok := e.buffers[key.Name]
	if ok && b.revision == key.Revision {
		e.bound = b
		return false
	}
	if !ok {
		b = &ebitenBuffer{}
		e.buffers[key.Name] = b
	}
	b.revision = key.Revision
	b.data = append(b.data[:0], data...)
	e.bound = b
	return true
}

// Draw issues the bound buffer in batches small enough for uint16 indices.
func (e *Ebiten) Draw(kind scene.Kind, count int) error {
	if e.target == nil || e.shader == nil {
		return fmt.Errorf("ebiten: draw before resize or program")
	}
	if e.bound == nil || count*2 > len(e.bound.data) {
		return fmt.Errorf("ebiten: draw of %d vertices exceeds bound buffer", count)
	}
	pts := e.bound.data[:count*2]
	sx, sy := e.scale()
	switch kind {
	case scene.Triangles:
		e.drawTriangles(pts, sx, sy)
	case scene.Lines:
		e.drawLines(pts, sx, sy)
	default:
		return fmt.Errorf("ebiten: unsupported primitive %s", kind)
	}
	return nil
}

// Present copies the offscreen target onto screen.
func (e *Ebiten) Present(screen *ebiten.Image) {
	if e.target != nil {
		screen.DrawImage(e.target, nil)
	}
}

func (e *Ebiten) scale() (float32, float32) {
	b := e.target.Bounds()
	sx, sy := float32(1), float32(1)
	if e.resolution[0] > 0 {
		sx = float32(b.Dx()) / e.resolution[0]
	}
	if e.resolution[1] > 0 {
		sy = float32(b.Dy()) / e.resolution[1]
	}
	return sx, sy
}

func (e *Ebiten) drawTriangles(pts []float32, sx, sy float32) {
	for start := 0; start < len(pts); start += 2 * maxBatchVertices {
		end := min(start+2*maxBatchVertices, len(pts))
		e.vertices = e.vertices[:0]
		e.indices = e.indices[:0]
		for i := start; i+1 < end; i += 2 {
			e.indices = append(e.indices, uint16(len(e.vertices)))
			e.vertices = append(e.vertices, e.vertex(pts[i]*sx, pts[i+1]*sy))
		}
		e.flush()
	}
}

func (e *Ebiten) drawLines(pts []float32, sx, sy float32) {
	const segmentsPerBatch = maxBatchVertices / 4
	for start := 0; start < len(pts); start += 4 * segmentsPerBatch {
		end := min(start+4*segmentsPerBatch, len(pts))
		e.vertices = e.vertices[:0]
		e.indices = e.indices[:0]
		for i := start; i+3 < end; i += 4 {
			x0, y0 := pts[i]*sx, pts[i+1]*sy
			x1, y1 := pts[i+2]*sx, pts[i+3]*sy
			dx, dy := x1-x0, y1-y0
			l := float32(math.Hypot(float64(dx), float64(dy)))
			if l == 0 {
				continue
			}
			// Half-pixel offset along the segment normal.
			nx, ny := -dy/l*0.5, dx/l*0.5
			base := uint16(len(e.vertices))
			e.vertices = append(e.vertices,
				e.vertex(x0+nx, y0+ny),
				e.vertex(x1+nx, y1+ny),
				e.vertex(x0-nx, y0-ny),
				e.vertex(x1-nx, y1-ny),
			)
			e.indices = append(e.indices, base, base+1, base+2, base+2, base+1, base+3)
		}
		e.flush()
	}
}

func (e *Ebiten) vertex(x, y float32) ebiten.Vertex {
	return ebiten.Vertex{
		DstX: x, DstY: y,
		ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
	}
}

func (e *Ebiten) flush() {
	if len(e.indices) == 0 {
		return
	}
	b := e.target.Bounds()
	op := &ebiten.DrawTrianglesShaderOptions{
		Uniforms: map[string]any{
			"Resolution": []float32{float32(b.Dx()), float32(b.Dy())},
			"Color":      e.color[:],
		},
	}
	e.target.DrawTrianglesShader(e.vertices, e.indices, e.shader, op)
}
