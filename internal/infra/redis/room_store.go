package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"trivia-room-service/internal/app"
	"trivia-room-service/internal/domain"
)

// RoomStore is a Redis-aware implementation of app.Registry.
// Notes:
//   - Rooms themselves stay in a local map: timers and subscriber channels
//     are process-local by nature.
//   - Redis marks room liveness, so sibling instances (or an ops console)
//     can see which codes are in play.
//   - For true distribution you'd pair this with a pub/sub projector that
//     fans room events out across instances.
type RoomStore struct {
	client *redis.Client
	ttl    time.Duration
	mu     sync.RWMutex
	rooms  map[string]*app.Room
}

func NewRoomStore(client *redis.Client, ttl time.Duration) *RoomStore {
	return &RoomStore{
		client: client,
		ttl:    ttl,
		rooms:  make(map[string]*app.Room),
	}
}

func (s *RoomStore) GetOrCreate(code string, create func() *app.Room) *app.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	if room, ok := s.rooms[code]; ok && room.Phase() != domain.PhaseEnded {
		return room
	}
	room := create()
	s.rooms[code] = room
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(code), "1", s.ttl).Err()
	return room
}

func (s *RoomStore) Get(code string) (*app.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[code]
	return room, ok
}

func (s *RoomStore) Remove(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[code]
	if !ok {
		return
	}
	room.Shutdown()
	delete(s.rooms, code)
	_ = s.client.Del(context.Background(), s.key(code)).Err()
}

func (s *RoomStore) DeleteIfIdle(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[code]
	if !ok {
		return
	}
	if room.Idle() {
		room.Shutdown()
		delete(s.rooms, code)
		_ = s.client.Del(context.Background(), s.key(code)).Err()
	}
}

func (s *RoomStore) key(code string) string {
	return "room:live:" + code
}
