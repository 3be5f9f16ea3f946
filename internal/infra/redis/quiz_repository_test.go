package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"trivia-room-service/internal/domain"
)

func TestQuizRepositoryCachesAndInvalidates(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	loader := newFakeLoader()
	repo := NewQuizRepository(client, loader, time.Minute)
	ctx := context.Background()

	quiz, err := repo.GetQuizByCode(ctx, "ABC123")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if quiz.ID != "quiz-1" || len(quiz.Questions) != 1 {
		t.Fatalf("unexpected quiz %+v", quiz)
	}
	if loader.calls() != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls())
	}
	if !mr.Exists("quiz:code:ABC123") {
		t.Fatalf("expected quiz cached in redis")
	}

	if _, err := repo.GetQuizByCode(ctx, "ABC123"); err != nil {
		t.Fatalf("get quiz cached: %v", err)
	}
	if loader.calls() != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls())
	}

	if err := repo.MarkQuizEnded(ctx, "quiz-1"); err != nil {
		t.Fatalf("mark ended: %v", err)
	}
	if mr.Exists("quiz:code:ABC123") {
		t.Fatalf("expected cache entry dropped on status change")
	}
	quiz, err = repo.GetQuizByCode(ctx, "ABC123")
	if err != nil {
		t.Fatalf("get quiz after mark: %v", err)
	}
	if quiz.Status != domain.StatusEnded {
		t.Fatalf("expected ended status, got %s", quiz.Status)
	}
}

type fakeLoader struct {
	mu    sync.Mutex
	quiz  domain.Quiz
	loads int
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		quiz: domain.Quiz{
			ID:      "quiz-1",
			Code:    "ABC123",
			OwnerID: "owner-1",
			Status:  domain.StatusDraft,
			Questions: []domain.Question{
				{
					ID:     "q1",
					Prompt: "What is 2 + 2?",
					Options: []domain.Option{
						{ID: "o1", Text: "3"},
						{ID: "o2", Text: "4", Correct: true},
					},
				},
			},
		},
	}
}

func (l *fakeLoader) LoadQuizByCode(_ context.Context, code string) (domain.Quiz, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if code != l.quiz.Code {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	l.loads++
	return l.quiz, nil
}

func (l *fakeLoader) SetQuizStatus(_ context.Context, quizID string, status domain.QuizStatus) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if quizID != l.quiz.ID {
		return domain.ErrQuizNotFound
	}
	l.quiz.Status = status
	return nil
}

func (l *fakeLoader) calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads
}
