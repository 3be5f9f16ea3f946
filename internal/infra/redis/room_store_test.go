package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"trivia-room-service/internal/app"
)

func TestRoomStoreSetsAndClearsLivenessKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRoomStore(client, time.Minute)

	_ = store.GetOrCreate("ABC123", func() *app.Room {
		return app.NewRoom("ABC123", "quiz-1", "owner", app.DefaultRules(), app.Hooks{})
	})
	if !mr.Exists("room:live:ABC123") {
		t.Fatalf("expected liveness key to be set")
	}

	store.Remove("ABC123")
	if mr.Exists("room:live:ABC123") {
		t.Fatalf("expected liveness key to be removed")
	}
	if _, ok := store.Get("ABC123"); ok {
		t.Fatalf("expected room removed")
	}
}
