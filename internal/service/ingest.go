package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jask/valuesort/internal/tabular"
)

// ImportResult summarizes a CSV import.
type ImportResult struct {
	tabular.Report
	Rows       int  // rows that passed shape validation
	Renumbered bool // positions were rewritten to 1..K
}

// ImportCSV replaces the ranking with the one described by r. If r cannot be
// parsed the current ranking is left untouched and the error is returned.
func (s *RankingService) ImportCSV(ctx context.Context, r io.Reader) (ImportResult, error) {
	rows, err := tabular.Deserialize(r)
	if err != nil {
		s.log.Warn().Err(err).Msg("import rejected")
		return ImportResult{}, err
	}
	return s.ApplyImport(ctx, rows), nil
}

// ApplyImport reconciles already parsed rows against the catalog and replaces
// the ranking with the result.
func (s *RankingService) ApplyImport(ctx context.Context, rows []tabular.Row) ImportResult {
	st, rep := tabular.Reconcile(s.cat, rows)
	res := ImportResult{Report: rep, Rows: len(rows)}
	if !s.TrustPositions {
		res.Renumbered = st.Normalize()
	}
	s.state = st
	s.log.Info().
		Int("rows", res.Rows).
		Int("applied", rep.Applied).
		Int("unmatched", len(rep.Unmatched)).
		Bool("renumbered", res.Renumbered).
		Msg("ranking imported")
	s.persist(ctx)
	return res
}

// ImportFile opens path and imports it.
func (s *RankingService) ImportFile(ctx context.Context, path string) (ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return s.ImportCSV(ctx, f)
}

// ExportRows is the current ranking as CSV rows.
func (s *RankingService) ExportRows() []tabular.Row {
	return tabular.Serialize(s.state.Ranking())
}

// ExportCSV writes the current ranking to w.
func (s *RankingService) ExportCSV(w io.Writer) error {
	return tabular.Write(w, s.ExportRows())
}

// ExportFile writes the ranking to path through WriteExport and returns the
// written path.
func (s *RankingService) ExportFile(path string) (string, error) {
	path, err := WriteExport(path, s.ExportRows(), s.Now())
	if err != nil {
		return "", err
	}
	s.log.Info().Str("path", path).Int("rows", s.state.Len()).Msg("ranking exported")
	return path, nil
}

// WriteExport writes rows to path, creating missing parent directories. When
// path is an existing directory the dated default file name for now is used
// inside it. It only touches the rows it is given, so it can run off the
// caller's event loop.
func WriteExport(path string, rows []tabular.Row, now time.Time) (string, error) {
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		path = filepath.Join(path, tabular.FileName(now))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	if err := tabular.WriteFile(path, rows); err != nil {
		return "", err
	}
	return path, nil
}
