package relay

import (
	"context"
	"testing"
	"time"
)

func TestSQLiteHistory_RecordAndList(t *testing.T) {
	history := NewSQLiteHistory(setupTestDB(t))
	ctx := context.Background()

	entries := []View{
		{ID: 0, Name: "Light 1", State: StateOn},
		{ID: 0, Name: "Light 1", State: StateOff},
		{ID: 1, Name: "Light 2", State: StateOn},
	}
	for _, view := range entries {
		if err := history.Record(ctx, view, SourceHTTP); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	got, err := history.List(ctx, 0, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List() returned %d entries, want 2", len(got))
	}

	// Newest first.
	if got[0].State != StateOff {
		t.Errorf("newest entry state = %v, want off", got[0].State)
	}
	if got[1].State != StateOn {
		t.Errorf("oldest entry state = %v, want on", got[1].State)
	}
	if got[0].Source != SourceHTTP {
		t.Errorf("source = %q, want %q", got[0].Source, SourceHTTP)
	}
	if got[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be populated")
	}
}

func TestSQLiteHistory_ListEmpty(t *testing.T) {
	history := NewSQLiteHistory(setupTestDB(t))

	got, err := history.List(context.Background(), 0, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("List() returned %d entries, want 0", len(got))
	}
}

func TestSQLiteHistory_DefaultSource(t *testing.T) {
	history := NewSQLiteHistory(setupTestDB(t))
	ctx := context.Background()

	if err := history.Record(ctx, View{ID: 0, Name: "Light 1", State: StateOn}, ""); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	got, err := history.List(ctx, 0, 1)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if got[0].Source != SourceHTTP {
		t.Errorf("empty source should default to %q, got %q", SourceHTTP, got[0].Source)
	}
}

func TestSQLiteHistory_LimitClamping(t *testing.T) {
	history := NewSQLiteHistory(setupTestDB(t))
	ctx := context.Background()

	for i := 0; i < 60; i++ {
		state := StateOff
		if i%2 == 0 {
			state = StateOn
		}
		if err := history.Record(ctx, View{ID: 0, Name: "Light 1", State: state}, SourceMQTT); err != nil {
			t.Fatal(err)
		}
	}

	// Zero limit falls back to the default.
	got, err := history.List(ctx, 0, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != defaultHistoryLimit {
		t.Errorf("List(limit=0) returned %d entries, want %d", len(got), defaultHistoryLimit)
	}

	// Oversized limit is clamped.
	got, err = history.List(ctx, 0, 10000)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 60 {
		t.Errorf("List(limit=10000) returned %d entries, want 60", len(got))
	}
}

func TestSQLiteHistory_Prune(t *testing.T) {
	db := setupTestDB(t)
	history := NewSQLiteHistory(db)
	ctx := context.Background()

	// One old entry, one fresh.
	old := time.Now().UTC().Add(-48 * time.Hour).Format(time.RFC3339)
	if _, err := db.Exec(
		"INSERT INTO relay_history (relay_id, name, state, source, created_at) VALUES (0, 'Light 1', 1, 'http', ?)",
		old,
	); err != nil {
		t.Fatal(err)
	}
	if err := history.Record(ctx, View{ID: 0, Name: "Light 1", State: StateOff}, SourceHTTP); err != nil {
		t.Fatal(err)
	}

	deleted, err := history.Prune(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("Prune() deleted %d rows, want 1", deleted)
	}

	got, err := history.List(ctx, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 remaining entry, got %d", len(got))
	}
}

func TestSQLiteHistory_PruneInvalidDuration(t *testing.T) {
	history := NewSQLiteHistory(setupTestDB(t))

	if _, err := history.Prune(context.Background(), 0); err == nil {
		t.Error("Prune(0) should error")
	}
}
