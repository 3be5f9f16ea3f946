package memory

import (
	"context"
	"testing"
	"time"

	"trivia-room-service/internal/domain"
)

func TestQuizRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		QuizLoader: NewStaticQuizLoader(map[string]domain.Quiz{
			"ABC123": sampleQuiz(),
		}),
	}
	repo := NewQuizRepository(loader, time.Minute)

	if _, err := repo.GetQuizByCode(context.Background(), "ABC123"); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetQuizByCode(context.Background(), "ABC123"); err != nil {
		t.Fatalf("get quiz 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestQuizRepositoryStatusChangeInvalidates(t *testing.T) {
	loader := &countingLoader{
		QuizLoader: NewStaticQuizLoader(map[string]domain.Quiz{
			"ABC123": sampleQuiz(),
		}),
	}
	repo := NewQuizRepository(loader, time.Minute)

	if _, err := repo.GetQuizByCode(context.Background(), "ABC123"); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if err := repo.MarkQuizActive(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("mark active: %v", err)
	}

	quiz, err := repo.GetQuizByCode(context.Background(), "ABC123")
	if err != nil {
		t.Fatalf("get quiz after mark: %v", err)
	}
	if quiz.Status != domain.StatusActive {
		t.Fatalf("expected active status after invalidation, got %s", quiz.Status)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after status change, loader calls %d", loader.calls)
	}
}

type countingLoader struct {
	QuizLoader
	calls int
}

func (l *countingLoader) LoadQuizByCode(ctx context.Context, code string) (domain.Quiz, error) {
	l.calls++
	return l.QuizLoader.LoadQuizByCode(ctx, code)
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:      "quiz-1",
		Code:    "ABC123",
		OwnerID: "owner-1",
		Status:  domain.StatusDraft,
		Questions: []domain.Question{
			{
				ID:     "q1",
				Prompt: "What is 2 + 2?",
				Options: []domain.Option{
					{ID: "o1", Text: "3", Correct: false},
					{ID: "o2", Text: "4", Correct: true},
				},
			},
		},
	}
}
