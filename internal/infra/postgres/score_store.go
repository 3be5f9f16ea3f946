package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// ScoreStore persists cumulative scores in the points table. The upsert
// replaces the stored total for (quiz, user), so retries never double-count.
type ScoreStore struct {
	pool *pgxpool.Pool
}

func NewScoreStore(pool *pgxpool.Pool) *ScoreStore {
	return &ScoreStore{pool: pool}
}

func (s *ScoreStore) UpsertScore(ctx context.Context, quizID, userID string, score int) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO points (quiz_id, user_id, score) VALUES ($1, $2, $3)
		 ON CONFLICT (quiz_id, user_id) DO UPDATE SET score=EXCLUDED.score`,
		quizID, userID, score)
	if err != nil {
		return fmt.Errorf("upsert score: %w", err)
	}
	return nil
}
