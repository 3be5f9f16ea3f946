package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"trivia-room-service/internal/domain"
)

// QuizLoader fetches quiz content from a backing store (e.g., Postgres)
// and flips quiz status at the start/end boundaries.
type QuizLoader interface {
	LoadQuizByCode(ctx context.Context, code string) (domain.Quiz, error)
	SetQuizStatus(ctx context.Context, quizID string, status domain.QuizStatus) error
}

// QuizRepository caches quizzes by code with TTL to avoid repeated DB
// hits while rooms are being joined.
type QuizRepository struct {
	loader QuizLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedQuiz
}

type cachedQuiz struct {
	quiz      domain.Quiz
	expiresAt time.Time
}

func NewQuizRepository(loader QuizLoader, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedQuiz),
	}
}

func (r *QuizRepository) GetQuizByCode(ctx context.Context, code string) (domain.Quiz, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[code]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.quiz, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(code, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[code]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.quiz, nil
		}
		r.mu.RUnlock()

		quiz, err := r.loader.LoadQuizByCode(ctx, code)
		if err != nil {
			return domain.Quiz{}, err
		}

		r.mu.Lock()
		r.cache[code] = cachedQuiz{
			quiz:      quiz,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
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

// setStatus writes through to the loader and drops stale cache entries so
// the next lookup observes the new status.
func (r *QuizRepository) setStatus(ctx context.Context, quizID string, status domain.QuizStatus) error {
	if err := r.loader.SetQuizStatus(ctx, quizID, status); err != nil {
		return err
	}
	r.mu.Lock()
	for code, entry := range r.cache {
		if entry.quiz.ID == quizID {
			delete(r.cache, code)
		}
	}
	r.mu.Unlock()
	return nil
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticQuizLoader is a simple loader backed by an in-memory map keyed by
// room code (useful for tests/demos).
type StaticQuizLoader struct {
	mu      sync.RWMutex
	quizzes map[string]domain.Quiz
}

func NewStaticQuizLoader(quizzes map[string]domain.Quiz) *StaticQuizLoader {
	return &StaticQuizLoader{quizzes: quizzes}
}

func (l *StaticQuizLoader) LoadQuizByCode(_ context.Context, code string) (domain.Quiz, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if quiz, ok := l.quizzes[code]; ok {
		return quiz, nil
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

func (l *StaticQuizLoader) SetQuizStatus(_ context.Context, quizID string, status domain.QuizStatus) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for code, quiz := range l.quizzes {
		if quiz.ID == quizID {
			quiz.Status = status
			l.quizzes[code] = quiz
			return nil
		}
	}
	return domain.ErrQuizNotFound
}
