package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestScoreStoreUpsertIsIdempotent(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewScoreStore(client, time.Minute)
	ctx := context.Background()

	if err := store.UpsertScore(ctx, "quiz-1", "u1", 10); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.UpsertScore(ctx, "quiz-1", "u1", 10); err != nil {
		t.Fatalf("upsert retry: %v", err)
	}
	if err := store.UpsertScore(ctx, "quiz-1", "u1", 20); err != nil {
		t.Fatalf("upsert update: %v", err)
	}

	got := mr.HGet("quiz:quiz-1:scores", "u1")
	if got != "20" {
		t.Fatalf("expected stored total 20, got %q", got)
	}
}
