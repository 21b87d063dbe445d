package dirty

import (
	"gol-canvas/internal/scene"
)

// attach hides the per-cell drawables, caches their geometry and adds the two
// aggregate drawables.
func (s *Synchronizer) attach() error {
	s.geometry = make([][]float32, len(s.names))
	for idx, name := range s.names {
		d, ok := s.world.Get(name)
		if !ok {
			return &scene.NotFoundError{Name: name}
		}
		s.geometry[idx] = d.Vertices
		if err := s.world.SetVisible(name, false); err != nil {
			return err
		}
		s.rendered[idx] = false
	}
	s.world.Add(scene.Drawable{
		Name:     scene.DeadCellsName,
		Kind:     scene.Triangles,
		Color:    s.palette.Dead,
		Vertices: []float32{},
		Visible:  true,
	})
	s.world.Add(scene.Drawable{
		Name:     scene.AliveCellsName,
		Kind:     scene.Triangles,
		Color:    s.palette.Alive,
		Vertices: []float32{},
		Visible:  true,
	})
	s.attached = true
	return nil
}

func (s *Synchronizer) syncFull(src Source, st *Stats) error {
	snap, err := s.snapshot(src)
	if err != nil {
		return err
	}
	if !s.attached {
		if err := s.attach(); err != nil {
			return err
		}
	}
	st.Reported = len(src.ChangedCells())
	s.dirty = s.dirty[:0]

	// Alternate buffers so the slices the world held last frame stay intact.
	s.front ^= 1
	alive := s.aliveBuf[s.front][:0]
	dead := s.deadBuf[s.front][:0]
	for idx, v := range snap {
		on := v != 0
		if on {
			alive = append(alive, s.geometry[idx]...)
			st.Alive++
		} else {
			dead = append(dead, s.geometry[idx]...)
		}
		if on != s.rendered[idx] {
			s.rendered[idx] = on
			st.Flips++
		}
	}
	s.aliveBuf[s.front] = alive
	s.deadBuf[s.front] = dead
	st.FullCompare = true
	s.primed = true

	if err := s.world.SetFields(scene.AliveCellsName, scene.Vertices(alive)); err != nil {
		return err
	}
	return s.world.SetFields(scene.DeadCellsName, scene.Vertices(dead))
}
