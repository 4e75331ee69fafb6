package relay

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// snapshotKey is the fixed key the relay bank snapshot is stored under.
// There is exactly one snapshot; the key exists so the table stays a
// general KV shape rather than a magic single-row table.
const snapshotKey = "relay_states"

// Store persists the packed relay state snapshot.
//
// Save must be atomic: a reader never observes a half-written snapshot.
// Load returns ErrSnapshotAbsent when nothing has ever been saved, which
// callers treat as "use defaults", not as a failure.
type Store interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context) (Snapshot, error)
}

// SQLiteStore implements Store on the relay_snapshot table. The snapshot
// is a single row updated with one upsert statement, so SQLite's
// statement atomicity gives the no-torn-writes guarantee for free.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a snapshot store on an open database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save upserts the snapshot under the fixed key.
func (s *SQLiteStore) Save(ctx context.Context, snap Snapshot) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO relay_snapshot (key, states, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		     states = excluded.states,
		     updated_at = excluded.updated_at`,
		snapshotKey,
		int64(snap),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving relay snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot. Returns ErrSnapshotAbsent if no snapshot row
// exists yet.
func (s *SQLiteStore) Load(ctx context.Context) (Snapshot, error) {
	var states int64
	err := s.db.QueryRowContext(ctx,
		"SELECT states FROM relay_snapshot WHERE key = ?",
		snapshotKey,
	).Scan(&states)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrSnapshotAbsent
	}
	if err != nil {
		return 0, fmt.Errorf("loading relay snapshot: %w", err)
	}

	return Snapshot(states), nil
}
