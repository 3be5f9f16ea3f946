package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"trivia-room-service/internal/domain"
)

// QuizLoader fetches quiz content from a backing store (e.g., Postgres)
// and flips quiz status at the start/end boundaries.
type QuizLoader interface {
	LoadQuizByCode(ctx context.Context, code string) (domain.Quiz, error)
	SetQuizStatus(ctx context.Context, quizID string, status domain.QuizStatus) error
}

// QuizRepository caches whole quizzes in Redis (JSON blob per code) and
// falls back to a loader on cache miss. Rooms broadcast question prompts,
// so the cache carries full content, not just correctness.
// Stored as: SET quiz:code:{CODE} {json} EX ttl
type QuizRepository struct {
	client *redis.Client
	loader QuizLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuizRepository(client *redis.Client, loader QuizLoader, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuizRepository) GetQuizByCode(ctx context.Context, code string) (domain.Quiz, error) {
	key := r.quizKey(code)

	if raw, err := r.client.Get(ctx, key).Bytes(); err == nil && len(raw) > 0 {
		var quiz domain.Quiz
		if err := json.Unmarshal(raw, &quiz); err == nil {
			return quiz, nil
		}
		// corrupt entry falls through to reload
	}

	result, err, _ := r.sf.Do(code, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if raw, err := r.client.Get(ctx, key).Bytes(); err == nil && len(raw) > 0 {
			var quiz domain.Quiz
			if err := json.Unmarshal(raw, &quiz); err == nil {
				return quiz, nil
			}
		}

		quiz, err := r.loader.LoadQuizByCode(ctx, code)
		if err != nil {
			return domain.Quiz{}, err
		}

		if raw, err := json.Marshal(quiz); err == nil {
			_ = r.client.Set(ctx, key, raw, r.ttlWithJitter()).Err()
		}
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (r *QuizRepository) MarkQuizActive(ctx context.Context, quizID string) error {
	return r.setStatus(ctx, quizID, domain.StatusActive)
}

func (r *QuizRepository) MarkQuizEnded(ctx context.Context, quizID string) error {
	return r.setStatus(ctx, quizID, domain.StatusEnded)
}

func (r *QuizRepository) setStatus(ctx context.Context, quizID string, status domain.QuizStatus) error {
	if err := r.loader.SetQuizStatus(ctx, quizID, status); err != nil {
		return err
	}
	// Cache keys are code-scoped; scan the small keyspace and drop entries
	// for this quiz so the next lookup sees the new status.
	iter := r.client.Scan(ctx, 0, "quiz:code:*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		raw, err := r.client.Get(ctx, key).Bytes()
		if err != nil {
			continue
		}
		var quiz domain.Quiz
		if err := json.Unmarshal(raw, &quiz); err == nil && quiz.ID == quizID {
			_ = r.client.Del(ctx, key).Err()
		}
	}
	return nil
}

func (r *QuizRepository) quizKey(code string) string {
	return "quiz:code:" + code
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
