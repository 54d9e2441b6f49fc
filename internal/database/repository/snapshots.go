package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jask/valuesort/internal/database"
)

// ErrNotFound is returned when no snapshot exists for a key.
var ErrNotFound = errors.New("snapshot not found")

// SnapshotRepo stores ranking snapshots.
type SnapshotRepo struct {
	db *sql.DB
}

func NewSnapshotRepo(db *sql.DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// Save replaces the snapshot stored under s.Key.
func (r *SnapshotRepo) Save(ctx context.Context, s Snapshot) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots(storage_key, last_updated)
		VALUES (?, ?)
		ON CONFLICT(storage_key) DO UPDATE SET last_updated=excluded.last_updated;
		`, s.Key, s.LastUpdated.UTC()); err != nil {
			return fmt.Errorf("upsert snapshot: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_values WHERE storage_key = ?`, s.Key); err != nil {
			return fmt.Errorf("clear values: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_values(storage_key, value_id, name, description, position, sort_order)
		VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, v := range s.Values {
			if _, err := stmt.ExecContext(ctx, s.Key, v.ID, v.Name, v.Description, v.Position, v.SortOrder); err != nil {
				return fmt.Errorf("insert value %s: %w", v.ID, err)
			}
		}
		return nil
	})
}

// Get loads the snapshot for key. It returns ErrNotFound if none was saved.
func (r *SnapshotRepo) Get(ctx context.Context, key string) (Snapshot, error) {
	s := Snapshot{Key: key}
	row := r.db.QueryRowContext(ctx, `SELECT last_updated FROM snapshots WHERE storage_key = ?`, key)
	if err := row.Scan(&s.LastUpdated); err != nil {
		if err == sql.ErrNoRows {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, err
	}

	rows, err := r.db.QueryContext(ctx, `
	SELECT value_id, name, description, position, sort_order
	FROM snapshot_values WHERE storage_key = ? ORDER BY sort_order, value_id`, key)
	if err != nil {
		return Snapshot{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var v SnapshotValue
		var pos sql.NullInt64
		if err := rows.Scan(&v.ID, &v.Name, &v.Description, &pos, &v.SortOrder); err != nil {
			return Snapshot{}, err
		}
		if pos.Valid {
			p := int(pos.Int64)
			v.Position = &p
		}
		s.Values = append(s.Values, v)
	}
	return s, rows.Err()
}
