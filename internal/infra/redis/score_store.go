package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ScoreStore mirrors cumulative scores to a Redis hash per quiz.
// Stored as: HSET quiz:{quizID}:scores {userID} {total}
// HSET replaces the field, so repeated upserts for the same (quiz, user)
// are idempotent.
type ScoreStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewScoreStore(client *redis.Client, ttl time.Duration) *ScoreStore {
	return &ScoreStore{client: client, ttl: ttl}
}

func (s *ScoreStore) UpsertScore(ctx context.Context, quizID, userID string, score int) error {
	key := s.key(quizID)
	if err := s.client.HSet(ctx, key, userID, score).Err(); err != nil {
		return err
	}
	if s.ttl > 0 {
		_ = s.client.Expire(ctx, key, s.ttl).Err()
	}
	return nil
}

func (s *ScoreStore) key(quizID string) string {
	return "quiz:" + quizID + ":scores"
}
