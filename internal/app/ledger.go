package app

import (
	"time"

	"trivia-room-service/internal/domain"
)

// answerLedger records the first valid answer per participant for the
// current question. A later submission for the same participant is
// rejected, never overwritten. Callers hold the room lock.
type answerLedger struct {
	entries map[string]answerRecord
}

type answerRecord struct {
	optionID    string
	submittedAt time.Time
}

func newAnswerLedger() *answerLedger {
	return &answerLedger{entries: make(map[string]answerRecord)}
}

func (l *answerLedger) record(userID, optionID string, at time.Time) error {
	if _, ok := l.entries[userID]; ok {
		return domain.ErrDuplicateAnswer
	}
	l.entries[userID] = answerRecord{optionID: optionID, submittedAt: at}
	return nil
}

// snapshot returns userID -> chosen option for the scoring pass.
func (l *answerLedger) snapshot() map[string]string {
	answers := make(map[string]string, len(l.entries))
	for userID, rec := range l.entries {
		answers[userID] = rec.optionID
	}
	return answers
}

// clear drops all records. Scoring runs exactly once per question because
// the ledger is cleared in the same transition that consumed it.
func (l *answerLedger) clear() {
	l.entries = make(map[string]answerRecord)
}

func (l *answerLedger) size() int {
	return len(l.entries)
}
