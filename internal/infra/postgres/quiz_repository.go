package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"trivia-room-service/internal/domain"
)

// QuizRepository loads quiz rows (questions as JSONB) and writes status
// changes. It is the backing loader for the cache layers.
type QuizRepository struct {
	pool *pgxpool.Pool
}

func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

func (r *QuizRepository) LoadQuizByCode(ctx context.Context, code string) (domain.Quiz, error) {
	var (
		quiz   domain.Quiz
		status string
		raw    []byte
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, code, owner_id, status, data FROM quizzes WHERE code=$1`, code,
	).Scan(&quiz.ID, &quiz.Code, &quiz.OwnerID, &status, &raw)
	quiz.Status = domain.QuizStatus(status)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}
	if err := json.Unmarshal(raw, &quiz.Questions); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal questions: %w", err)
	}
	return quiz, nil
}

func (r *QuizRepository) SetQuizStatus(ctx context.Context, quizID string, status domain.QuizStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE quizzes SET status=$2 WHERE id=$1`, quizID, string(status))
	if err != nil {
		return fmt.Errorf("set quiz status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}
