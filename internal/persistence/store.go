// Package persistence mirrors the ranking state into a durable store under a
// fixed storage key.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jask/valuesort/internal/catalog"
)

// DefaultKey is the storage key used when none is configured.
const DefaultKey = "life-values-sorting"

// ErrNotFound is returned by Load when nothing has been saved yet.
var ErrNotFound = errors.New("no saved ranking")

// Snapshot is the full entity set plus the time it was written.
type Snapshot struct {
	Values      []catalog.Entity `json:"values"`
	LastUpdated time.Time        `json:"lastUpdated"`
}

// Store is a durable key-value store for one snapshot.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, s Snapshot) error
	Close() error
}

// Backends understood by Open.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Open returns the store for backend. For sqlite, path is the database file;
// for file, it is the directory holding one JSON document per key. A file
// path given to the file backend stores next to that file.
func Open(backend, path, key string) (Store, error) {
	switch backend {
	case BackendSQLite, "":
		st, err := OpenSQLite(path, key)
		if err != nil {
			return nil, err
		}
		return st, nil
	case BackendFile:
		if filepath.Ext(path) != "" {
			path = filepath.Dir(path)
		}
		return NewFileStore(path, key), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
