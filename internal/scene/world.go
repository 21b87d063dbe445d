package scene

// World is the registry of drawables for one run. Iteration follows insertion
// order, so two passes over an unchanged World visit the same sequence.
//
// A World is not safe for concurrent use; the render loop owns it.
type World struct {
	items    []*Drawable
	index    map[string]int
	revision uint64
}

// NewWorld returns an empty World.
func NewWorld() *World {
	return &World{index: make(map[string]int)}
}

// Len returns the number of drawables.
func (w *World) Len() int { return len(w.items) }

// Add inserts d, or overwrites the drawable with the same name in place.
func (w *World) Add(d Drawable) {
	w.revision++
	d.Revision = w.revision
	if i, ok := w.index[d.Name]; ok {
		*w.items[i] = d
		return
	}
	w.index[d.Name] = len(w.items)
	w.items = append(w.items, &d)
}

// Remove deletes the named drawable and reports whether it existed.
func (w *World) Remove(name string) bool {
	i, ok := w.index[name]
	if !ok {
		return false
	}
	delete(w.index, name)
	copy(w.items[i:], w.items[i+1:])
	w.items[len(w.items)-1] = nil
	w.items = w.items[:len(w.items)-1]
	for j := i; j < len(w.items); j++ {
		w.index[w.items[j].Name] = j
	}
	return true
}

// Get returns a copy of the named drawable. The copy shares the vertex slice.
func (w *World) Get(name string) (Drawable, bool) {
	i, ok := w.index[name]
	if !ok {
		return Drawable{}, false
	}
	return *w.items[i], true
}

// SetFields applies p to the named drawable. It never creates a drawable.
func (w *World) SetFields(name string, p Patch) error {
	i, ok := w.index[name]
	if !ok {
		return &NotFoundError{Name: name}
	}
	d := w.items[i]
	if p.Kind != nil {
		d.Kind = *p.Kind
	}
	if p.Color != nil {
		d.Color = *p.Color
	}
	if p.Vertices != nil {
		w.revision++
		d.Vertices = p.Vertices
		d.Revision = w.revision
	}
	if p.Visible != nil {
		d.Visible = *p.Visible
	}
	return nil
}

// SetVisible is shorthand for SetFields(name, Visible(v)).
func (w *World) SetVisible(name string, v bool) error {
	i, ok := w.index[name]
	if !ok {
		return &NotFoundError{Name: name}
	}
	w.items[i].Visible = v
	return nil
}

// ForEach calls fn with every drawable in insertion order.
func (w *World) ForEach(fn func(d Drawable)) {
	for _, d := range w.items {
		fn(*d)
	}
}

// VisibleNames lists the names of visible drawables in iteration order.
func (w *World) VisibleNames() []string {
	var out []string
	for _, d := range w.items {
		if d.Visible {
			out = append(out, d.Name)
		}
	}
	return out
}
