package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jask/valuesort/internal/catalog"
	"github.com/jask/valuesort/internal/database"
	"github.com/jask/valuesort/internal/database/repository"
)

// SQLiteStore keeps snapshots in a sqlite database.
type SQLiteStore struct {
	key  string
	db   *sql.DB
	repo *repository.SnapshotRepo
}

// OpenSQLite migrates and opens the database at path.
func OpenSQLite(path, key string) (*SQLiteStore, error) {
	if key == "" {
		key = DefaultKey
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(path); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return &SQLiteStore{key: key, db: db, repo: repository.NewSnapshotRepo(db)}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (Snapshot, error) {
	rec, err := s.repo.Get(ctx, s.key)
	if errors.Is(err, repository.ErrNotFound) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("load snapshot %s: %w", s.key, err)
	}
	out := Snapshot{LastUpdated: rec.LastUpdated, Values: make([]catalog.Entity, 0, len(rec.Values))}
	for _, v := range rec.Values {
		out.Values = append(out.Values, catalog.Entity{ID: v.ID, Name: v.Name, Description: v.Description, Position: v.Position})
	}
	return out, nil
}

func (s *SQLiteStore) Save(ctx context.Context, snap Snapshot) error {
	rec := repository.Snapshot{Key: s.key, LastUpdated: snap.LastUpdated, Values: make([]repository.SnapshotValue, 0, len(snap.Values))}
	for i, e := range snap.Values {
		rec.Values = append(rec.Values, repository.SnapshotValue{
			ID:          e.ID,
			Name:        e.Name,
			Description: e.Description,
			Position:    e.Position,
			SortOrder:   i,
		})
	}
	if err := s.repo.Save(ctx, rec); err != nil {
		return fmt.Errorf("save snapshot %s: %w", s.key, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
