package dirty

import (
	"gol-canvas/internal/core"
)

func (s *Synchronizer) syncPerCell(src Source, st *Stats) error {
	snap, err := s.snapshot(src)
	if err != nil {
		return err
	}
	advanced := s.advanced(src)
	if !s.primed || s.fallback {
		n, err := s.compareAll(snap, st)
		st.Flips += n
		if err != nil {
			return err
		}
		s.primed = true
		s.dirty = s.dirty[:0]
		return nil
	}

	s.pass++
	changed := src.ChangedCells()
	st.Reported = len(changed)
	for _, c := range changed {
		if err := s.checkCell(c); err != nil {
			return err
		}
		idx := core.Index(c, s.size)
		if s.stamp[idx] == s.pass {
			st.Duplicates++
			continue
		}
		s.stamp[idx] = s.pass
		flipped, err := s.reconcile(idx, snap)
		if err != nil {
			return err
		}
		if flipped {
			st.Flips++
		}
	}
	for _, idx := range s.dirty {
		if s.stamp[idx] == s.pass {
			continue
		}
		s.stamp[idx] = s.pass
		flipped, err := s.reconcile(idx, snap)
		if err != nil {
			return err
		}
		if flipped {
			st.Flips++
		}
	}
	s.dirty = s.dirty[:0]

	s.sinceAudit++
	silent := advanced && len(changed) == 0
	if s.audits == 0 || silent || s.sinceAudit >= s.auditEvery {
		return s.audit(snap, st)
	}
	return nil
}

// advanced reports whether src moved to a new generation since the previous
// sync. Sources without a generation count never report an advance.
func (s *Synchronizer) advanced(src Source) bool {
	g, ok := src.(generationSource)
	if !ok {
		return false
	}
	gen := g.Generation()
	moved := s.haveGen && gen != s.lastGen
	s.lastGen, s.haveGen = gen, true
	return moved
}

func (s *Synchronizer) audit(snap []uint8, st *Stats) error {
	s.audits++
	s.sinceAudit = 0
	st.Audited = true
	n, err := s.compareAll(snap, st)
	st.Repaired = n
	st.Flips += n
	if err != nil {
		return err
	}
	if n > 0 && !s.fallback {
		s.fallback = true
		core.Logger().Warn("change report missed cells; comparing full snapshot from now on",
			"missed", n, "reported", st.Reported)
	}
	return nil
}
