package memory

import (
	"sync"

	"trivia-room-service/internal/app"
	"trivia-room-service/internal/domain"
)

// RoomStore is an in-memory implementation of app.Registry.
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[string]*app.Room
}

func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms: make(map[string]*app.Room),
	}
}

// GetOrCreate returns the live room for code, creating it when absent.
// Exactly one concurrent creation wins; an ended leftover is replaced.
func (s *RoomStore) GetOrCreate(code string, create func() *app.Room) *app.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	if room, ok := s.rooms[code]; ok && room.Phase() != domain.PhaseEnded {
		return room
	}
	room := create()
	s.rooms[code] = room
	return room
}

func (s *RoomStore) Get(code string) (*app.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[code]
	return room, ok
}

// Remove shuts the room down before dropping it, so a pending timer can
// never fire against a room the registry no longer knows.
func (s *RoomStore) Remove(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[code]
	if !ok {
		return
	}
	room.Shutdown()
	delete(s.rooms, code)
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
	}
}
