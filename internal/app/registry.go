package app

// Registry maps room codes to live rooms (in-memory, Redis-marked, etc).
// Implementations must make concurrent GetOrCreate calls for the same
// code resolve to exactly one created room, and Remove must shut the room
// down (cancelling its pending timer) before dropping it.
type Registry interface {
	GetOrCreate(code string, create func() *Room) *Room
	Get(code string) (*Room, bool)
	Remove(code string)
	DeleteIfIdle(code string)
}
