package memory

import (
	"context"
	"testing"
)

func TestScoreStoreUpsertIsIdempotent(t *testing.T) {
	store := NewScoreStore()
	ctx := context.Background()

	if err := store.UpsertScore(ctx, "quiz-1", "u1", 10); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	// a retried upsert replaces, never adds
	if err := store.UpsertScore(ctx, "quiz-1", "u1", 10); err != nil {
		t.Fatalf("upsert retry: %v", err)
	}
	if err := store.UpsertScore(ctx, "quiz-1", "u2", 20); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	totals := store.Totals("quiz-1")
	if totals["u1"] != 10 || totals["u2"] != 20 {
		t.Fatalf("unexpected totals %v", totals)
	}
}
