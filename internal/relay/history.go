package relay

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// History entry limits.
const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// Command sources recorded in history entries.
const (
	SourceHTTP = "http"
	SourceMQTT = "mqtt"
	SourceBoot = "boot"
)

// History records accepted state changes. Rejected toggles never reach it.
type History interface {
	Record(ctx context.Context, view View, source string) error
}

// HistoryEntry is one recorded state change.
type HistoryEntry struct {
	ID        int64     `json:"-"`
	RelayID   int       `json:"id"`
	Name      string    `json:"name"`
	State     State     `json:"state"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// SQLiteHistory implements History on the relay_history table.
type SQLiteHistory struct {
	db *sql.DB
}

// NewSQLiteHistory creates a history repository on an open database.
func NewSQLiteHistory(db *sql.DB) *SQLiteHistory {
	return &SQLiteHistory{db: db}
}

// Record inserts a state-change entry.
func (h *SQLiteHistory) Record(ctx context.Context, view View, source string) error {
	if source == "" {
		source = SourceHTTP
	}

	_, err := h.db.ExecContext(ctx,
		"INSERT INTO relay_history (relay_id, name, state, source) VALUES (?, ?, ?, ?)",
		view.ID,
		view.Name,
		int(view.State),
		source,
	)
	if err != nil {
		return fmt.Errorf("inserting relay history: %w", err)
	}

	return nil
}

// List returns recent entries for one relay, newest first.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - relayID: Relay index to query
//   - limit: Maximum entries to return (default 50, max 200)
func (h *SQLiteHistory) List(ctx context.Context, relayID, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	rows, err := h.db.QueryContext(ctx,
		`SELECT id, relay_id, name, state, source, created_at
		 FROM relay_history
		 WHERE relay_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		relayID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying relay history: %w", err)
	}
	defer rows.Close()

	entries := make([]HistoryEntry, 0, limit)
	for rows.Next() {
		var e HistoryEntry
		var state int
		var createdAt string

		if err := rows.Scan(&e.ID, &e.RelayID, &e.Name, &state, &e.Source, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning relay history: %w", err)
		}
		e.State = State(state)

		timestamp, err := parseHistoryTimestamp(createdAt)
		if err != nil {
			return nil, err
		}
		e.CreatedAt = timestamp

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating relay history: %w", err)
	}

	return entries, nil
}

// Prune deletes entries older than the given duration.
//
// Returns the number of rows deleted.
func (h *SQLiteHistory) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("olderThan must be positive")
	}

	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339)
	result, err := h.db.ExecContext(ctx,
		"DELETE FROM relay_history WHERE created_at < ?",
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("deleting relay history: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}

	return rowsAffected, nil
}

// parseHistoryTimestamp parses a timestamp stored in SQLite.
func parseHistoryTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("created_at is empty")
	}

	timestamp, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing created_at: %w", err)
	}
	return timestamp, nil
}
