package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/jask/valuesort/internal/catalog"
	"github.com/jask/valuesort/internal/input"
	"github.com/jask/valuesort/internal/persistence"
	"github.com/jask/valuesort/internal/ranking"
)

// RankingService owns the ranking state for one session and mirrors every
// change into the store. Engine binds it to a context as an input.Engine, so
// keyboard and pointer events persist through the same path as direct calls.
//
// Not safe for concurrent use; the caller's event loop serializes access.
type RankingService struct {
	cat   *catalog.Catalog
	store persistence.Store
	log   zerolog.Logger

	// TrustPositions skips renumbering after an import.
	TrustPositions bool
	// Now is the clock used for snapshot timestamps.
	Now func() time.Time

	state      *ranking.State
	lastSaved  time.Time
	persistErr error
}

// NewRankingService restores the saved ranking, falling back to the catalog
// default when nothing was saved or the saved data cannot be read.
func NewRankingService(ctx context.Context, cat *catalog.Catalog, store persistence.Store, log zerolog.Logger) *RankingService {
	s := &RankingService{cat: cat, store: store, log: log, Now: time.Now}
	s.state = s.restore(ctx)
	return s
}

func (s *RankingService) restore(ctx context.Context) *ranking.State {
	if s.store == nil {
		return ranking.New(s.cat)
	}
	snap, err := s.store.Load(ctx)
	switch {
	case errors.Is(err, persistence.ErrNotFound):
		s.log.Debug().Msg("no saved ranking, starting from catalog default")
		return ranking.New(s.cat)
	case err != nil:
		s.log.Warn().Err(err).Msg("saved ranking unreadable, starting from catalog default")
		s.persistErr = err
		return ranking.New(s.cat)
	}
	st := ranking.Restore(s.cat, snap.Values)
	s.lastSaved = snap.LastUpdated
	if !st.Contiguous() {
		s.log.Warn().Int("ranked", st.Len()).Msg("saved ranking has gaps or ties")
	}
	s.log.Info().Int("ranked", st.Len()).Time("last_updated", snap.LastUpdated).Msg("ranking restored")
	return st
}

// Detach drops the store after it failed to open. The session keeps working
// in memory and PersistErr keeps reporting err.
func (s *RankingService) Detach(err error) {
	s.store = nil
	s.persistErr = err
}

// Catalog returns the catalog the service ranks.
func (s *RankingService) Catalog() *catalog.Catalog { return s.cat }

func (s *RankingService) Ranking() []catalog.Entity  { return s.state.Ranking() }
func (s *RankingService) Unranked() []catalog.Entity { return s.state.Unranked() }
func (s *RankingService) Len() int                   { return s.state.Len() }

func (s *RankingService) EntityAt(i int) (catalog.Entity, bool) { return s.state.EntityAt(i) }

// LastSaved is the timestamp of the last successful write (or of the
// restored snapshot).
func (s *RankingService) LastSaved() time.Time { return s.lastSaved }

// PersistErr is the most recent store failure, nil once a write succeeds.
func (s *RankingService) PersistErr() error { return s.persistErr }

// Move reorders within the ranking.
func (s *RankingService) Move(ctx context.Context, from, to int) bool {
	return s.commit(ctx, s.state.Move(from, to), "move")
}

// Promote appends an unranked value to the ranking.
func (s *RankingService) Promote(ctx context.Context, id string) bool {
	return s.commit(ctx, s.state.Promote(id), "promote")
}

// Demote returns a ranked value to the pool.
func (s *RankingService) Demote(ctx context.Context, id string) bool {
	return s.commit(ctx, s.state.Demote(id), "demote")
}

func (s *RankingService) commit(ctx context.Context, changed bool, op string) bool {
	if !changed {
		return false
	}
	s.log.Debug().Str("op", op).Int("ranked", s.state.Len()).Msg("ranking changed")
	s.persist(ctx)
	return true
}

// Engine adapts the service to input.Engine for the duration of one event;
// writes triggered through it use ctx.
func (s *RankingService) Engine(ctx context.Context) input.Engine {
	return boundEngine{s: s, ctx: ctx}
}

type boundEngine struct {
	s   *RankingService
	ctx context.Context
}

func (b boundEngine) Len() int                              { return b.s.Len() }
func (b boundEngine) EntityAt(i int) (catalog.Entity, bool) { return b.s.EntityAt(i) }
func (b boundEngine) Move(from, to int) bool                { return b.s.Move(b.ctx, from, to) }
func (b boundEngine) Demote(id string) bool                 { return b.s.Demote(b.ctx, id) }

// persist writes the whole entity set. Failures are logged and remembered;
// the in-memory state stays authoritative.
func (s *RankingService) persist(ctx context.Context) {
	if s.store == nil {
		return
	}
	now := s.Now().UTC()
	err := s.store.Save(ctx, persistence.Snapshot{Values: s.state.Entities(), LastUpdated: now})
	if err != nil {
		s.log.Error().Err(err).Msg("save ranking")
		s.persistErr = err
		return
	}
	s.persistErr = nil
	s.lastSaved = now
}
