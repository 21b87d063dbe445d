package scene

import (
	"fmt"
	"image/color"
)

// Kind selects the primitive a drawable's vertices are assembled into.
type Kind uint8

const (
	// Triangles draws every three vertices as a filled triangle.
	Triangles Kind = iota
	// Lines draws every two vertices as a segment.
	Lines
)

func (k Kind) String() string {
	switch k {
	case Triangles:
		return "triangles"
	case Lines:
		return "lines"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Drawable is one independently visible primitive group. Vertices holds
// (x, y) pairs in canvas pixels.
type Drawable struct {
	Name     string
	Kind     Kind
	Color    color.RGBA
	Vertices []float32
	Visible  bool

	// Revision changes whenever Vertices is replaced. Backends key uploaded
	// buffers on it.
	Revision uint64
}

// VertexCount returns the number of (x, y) pairs.
func (d Drawable) VertexCount() int { return len(d.Vertices) / 2 }

// Patch is a partial update for SetFields. Nil fields are left unchanged; to
// clear the vertices pass a non-nil empty slice.
type Patch struct {
	Kind     *Kind
	Color    *color.RGBA
	Vertices []float32
	Visible  *bool
}

// Visible returns a Patch that only sets visibility.
func Visible(v bool) Patch { return Patch{Visible: &v} }

// Vertices returns a Patch that only replaces the vertex buffer.
func Vertices(v []float32) Patch {
	if v == nil {
		v = []float32{}
	}
	return Patch{Vertices: v}
}

// NotFoundError is returned when an update targets a name the World does not
// hold.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("scene: drawable %q not found", e.Name)
}
