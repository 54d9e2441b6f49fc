// Package ranking holds the position index model for a catalog and the only
// operations allowed to change an entity's position.
//
// A State is owned by a single caller and is not safe for concurrent use.
// The ranking and unranked views are derived from Entity.Position on every
// call; nothing else is cached.
package ranking

import (
	"sort"

	"github.com/jask/valuesort/internal/catalog"
)

// State is the full entity set for one catalog.
type State struct {
	cat      *catalog.Catalog
	entities []catalog.Entity // catalog order
}

// New returns the catalog default: every entity unranked.
func New(cat *catalog.Catalog) *State {
	return &State{cat: cat, entities: cat.Entities()}
}

// Restore overlays persisted positions onto the catalog by id. Entries for
// ids outside the catalog are ignored, as are positions below 1. Names and
// descriptions always come from the catalog.
func Restore(cat *catalog.Catalog, saved []catalog.Entity) *State {
	s := New(cat)
	for _, e := range saved {
		i, ok := cat.Index(e.ID)
		if !ok || e.Position == nil || *e.Position < 1 {
			continue
		}
		s.entities[i] = s.entities[i].WithPosition(e.Position)
	}
	return s
}

// Clone deep-copies the state.
func (s *State) Clone() *State {
	out := &State{cat: s.cat, entities: make([]catalog.Entity, len(s.entities))}
	for i, e := range s.entities {
		out.entities[i] = e.WithPosition(e.Position)
	}
	return out
}

// Entities returns a copy of every entity in catalog order.
func (s *State) Entities() []catalog.Entity {
	return s.Clone().entities
}

// Ranking returns the ranked entities sorted by position. Equal positions,
// which only an untrusted import can produce, keep catalog order.
func (s *State) Ranking() []catalog.Entity {
	var out []catalog.Entity
	for _, e := range s.entities {
		if e.Ranked() {
			out = append(out, e.WithPosition(e.Position))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return *out[i].Position < *out[j].Position })
	return out
}

// Unranked returns the unranked pool in catalog order.
func (s *State) Unranked() []catalog.Entity {
	var out []catalog.Entity
	for _, e := range s.entities {
		if !e.Ranked() {
			out = append(out, e)
		}
	}
	return out
}

// Len is K, the size of the ranking view.
func (s *State) Len() int {
	k := 0
	for _, e := range s.entities {
		if e.Ranked() {
			k++
		}
	}
	return k
}

// EntityAt returns the i-th entity of the ranking view.
func (s *State) EntityAt(i int) (catalog.Entity, bool) {
	r := s.Ranking()
	if i < 0 || i >= len(r) {
		return catalog.Entity{}, false
	}
	return r[i], true
}

// Get returns the entity with id.
func (s *State) Get(id string) (catalog.Entity, bool) {
	i, ok := s.cat.Index(id)
	if !ok {
		return catalog.Entity{}, false
	}
	return s.entities[i].WithPosition(s.entities[i].Position), true
}

// Contiguous reports whether the ranking positions are exactly 1..K.
func (s *State) Contiguous() bool {
	for i, e := range s.Ranking() {
		if *e.Position != i+1 {
			return false
		}
	}
	return true
}

func (s *State) set(id string, pos *int) {
	i, ok := s.cat.Index(id)
	if !ok {
		return
	}
	s.entities[i] = s.entities[i].WithPosition(pos)
}
