package app

import (
	"testing"
	"time"

	"trivia-room-service/internal/domain"
)

func TestLedgerFirstAnswerWins(t *testing.T) {
	ledger := newAnswerLedger()
	now := time.Now()

	if err := ledger.record("u1", "o1", now); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := ledger.record("u1", "o2", now.Add(time.Second)); err != domain.ErrDuplicateAnswer {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}

	answers := ledger.snapshot()
	if answers["u1"] != "o1" {
		t.Fatalf("expected first answer retained, got %q", answers["u1"])
	}
}

func TestLedgerClear(t *testing.T) {
	ledger := newAnswerLedger()
	_ = ledger.record("u1", "o1", time.Now())
	_ = ledger.record("u2", "o2", time.Now())
	if ledger.size() != 2 {
		t.Fatalf("expected 2 records, got %d", ledger.size())
	}

	ledger.clear()
	if ledger.size() != 0 {
		t.Fatalf("expected empty ledger after clear, got %d", ledger.size())
	}
	// a cleared ledger accepts the user again for the next question
	if err := ledger.record("u1", "o3", time.Now()); err != nil {
		t.Fatalf("record after clear: %v", err)
	}
}
