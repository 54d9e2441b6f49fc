package service

import "context"

// Reset discards the ranking and persists the catalog default. It reports
// whether anything was ranked before.
func (s *RankingService) Reset(ctx context.Context) bool {
	changed := s.state.Reset()
	s.log.Info().Bool("changed", changed).Msg("ranking reset")
	// persist even when nothing was ranked so a corrupt snapshot is replaced
	s.persist(ctx)
	return changed
}
