package ranking

import "slices"

// Move takes the entity at ranking index from out of the view and reinserts
// it at index to of the shortened sequence, then renumbers every ranked
// entity to its index+1.
//
// Both indexes must satisfy 0 <= index < Len(). Callers clamp before calling;
// out-of-range input is ignored and reported as no change.
func (s *State) Move(from, to int) bool {
	r := s.Ranking()
	if from < 0 || from >= len(r) || to < 0 || to >= len(r) {
		return false
	}
	moved := r[from]
	r = slices.Delete(r, from, from+1)
	r = slices.Insert(r, to, moved)
	changed := from != to
	for i, e := range r {
		pos := i + 1
		if *e.Position != pos {
			changed = true
		}
		s.set(e.ID, &pos)
	}
	return changed
}

// Promote appends an unranked entity to the end of the ranking (position
// K+1). Ranked or unknown ids are a no-op.
func (s *State) Promote(id string) bool {
	e, ok := s.Get(id)
	if !ok || e.Ranked() {
		return false
	}
	pos := s.Len() + 1
	s.set(id, &pos)
	return true
}

// Demote returns a ranked entity to the pool and closes the gap it leaves
// by decrementing every later position. Unranked or unknown ids are a no-op.
func (s *State) Demote(id string) bool {
	e, ok := s.Get(id)
	if !ok || !e.Ranked() {
		return false
	}
	old := *e.Position
	s.set(id, nil)
	for i := range s.entities {
		p := s.entities[i].Position
		if p != nil && *p > old {
			next := *p - 1
			s.entities[i] = s.entities[i].WithPosition(&next)
		}
	}
	return true
}

// Reset discards the ranking and returns every entity to the pool.
func (s *State) Reset() bool {
	changed := false
	for i := range s.entities {
		if s.entities[i].Ranked() {
			s.entities[i] = s.entities[i].WithPosition(nil)
			changed = true
		}
	}
	return changed
}

// Normalize renumbers the ranking to 1..K, keeping the current view order.
func (s *State) Normalize() bool {
	changed := false
	for i, e := range s.Ranking() {
		pos := i + 1
		if *e.Position != pos {
			s.set(e.ID, &pos)
			changed = true
		}
	}
	return changed
}
