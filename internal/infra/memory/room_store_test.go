package memory

import (
	"sync"
	"sync/atomic"
	"testing"

	"trivia-room-service/internal/app"
)

func newLobbyRoom(code string) *app.Room {
	return app.NewRoom(code, "quiz-1", "owner", app.DefaultRules(), app.Hooks{})
}

func TestRoomStoreLifecycle(t *testing.T) {
	store := NewRoomStore()

	room := store.GetOrCreate("ABC123", func() *app.Room { return newLobbyRoom("ABC123") })
	if room == nil {
		t.Fatalf("expected room")
	}
	if _, ok := store.Get("ABC123"); !ok {
		t.Fatalf("expected room present")
	}

	store.DeleteIfIdle("ABC123")
	if _, ok := store.Get("ABC123"); ok {
		t.Fatalf("expected idle lobby removed")
	}
}

func TestRoomStoreKeepsBusyRooms(t *testing.T) {
	store := NewRoomStore()
	room := store.GetOrCreate("ABC123", func() *app.Room { return newLobbyRoom("ABC123") })
	room.Join("u1", "Alice")

	store.DeleteIfIdle("ABC123")
	if _, ok := store.Get("ABC123"); !ok {
		t.Fatalf("room with participants must survive DeleteIfIdle")
	}

	store.Remove("ABC123")
	if _, ok := store.Get("ABC123"); ok {
		t.Fatalf("expected room removed")
	}
}

func TestRoomStoreConcurrentCreateWinsOnce(t *testing.T) {
	store := NewRoomStore()
	var created atomic.Int32
	var wg sync.WaitGroup

	results := make([]*app.Room, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = store.GetOrCreate("ABC123", func() *app.Room {
				created.Add(1)
				return newLobbyRoom("ABC123")
			})
		}(i)
	}
	wg.Wait()

	if got := created.Load(); got != 1 {
		t.Fatalf("expected exactly one creation, got %d", got)
	}
	for i, room := range results {
		if room != results[0] {
			t.Fatalf("caller %d observed a different room", i)
		}
	}
}
