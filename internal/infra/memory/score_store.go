package memory

import (
	"context"
	"sync"
)

// ScoreStore is an in-memory implementation of app.ScoreStore. Upserts
// are idempotent by (quiz, user): the cumulative total is replaced, not
// added to.
type ScoreStore struct {
	mu     sync.RWMutex
	totals map[string]map[string]int
}

func NewScoreStore() *ScoreStore {
	return &ScoreStore{totals: make(map[string]map[string]int)}
}

func (s *ScoreStore) UpsertScore(_ context.Context, quizID, userID string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byUser, ok := s.totals[quizID]
	if !ok {
		byUser = make(map[string]int)
		s.totals[quizID] = byUser
	}
	byUser[userID] = score
	return nil
}

// Totals returns a copy of the persisted totals for a quiz.
func (s *ScoreStore) Totals(quizID string) map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int, len(s.totals[quizID]))
	for userID, score := range s.totals[quizID] {
		out[userID] = score
	}
	return out
}
