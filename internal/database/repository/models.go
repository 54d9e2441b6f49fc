package repository

import "time"

// Snapshot is the persisted entity set for one storage key.
type Snapshot struct {
	Key         string
	LastUpdated time.Time
	Values      []SnapshotValue
}

// SnapshotValue represents a snapshot_values row.
type SnapshotValue struct {
	ID          string
	Name        string
	Description string
	Position    *int
	SortOrder   int
}
