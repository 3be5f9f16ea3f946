package app

import (
	"testing"

	"trivia-room-service/internal/domain"
)

func TestScoreQuestionAwardsOnlyCorrect(t *testing.T) {
	answers := map[string]string{
		"u1": "o2",
		"u2": "o2",
		"u3": "o1",
	}

	deltas := scoreQuestion("o2", answers, 10)
	if len(deltas) != 2 {
		t.Fatalf("expected 2 awards, got %d", len(deltas))
	}
	// deterministic order by user id
	if deltas[0].userID != "u1" || deltas[1].userID != "u2" {
		t.Fatalf("unexpected order %+v", deltas)
	}
	for _, d := range deltas {
		if d.points != 10 {
			t.Fatalf("expected 10 points, got %d", d.points)
		}
	}
}

func TestScoreQuestionEmptyLedger(t *testing.T) {
	if deltas := scoreQuestion("o1", map[string]string{}, 10); len(deltas) != 0 {
		t.Fatalf("expected no awards, got %+v", deltas)
	}
}

func TestCorrectOptionID(t *testing.T) {
	q := domain.Question{
		ID: "q1",
		Options: []domain.Option{
			{ID: "o1", Correct: false},
			{ID: "o2", Correct: true},
		},
	}
	if got := correctOptionID(q); got != "o2" {
		t.Fatalf("expected o2, got %s", got)
	}

	// no flagged option falls back to the first
	q.Options[1].Correct = false
	if got := correctOptionID(q); got != "o1" {
		t.Fatalf("expected fallback o1, got %s", got)
	}
}
