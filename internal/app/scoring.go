package app

import (
	"sort"

	"trivia-room-service/internal/domain"
)

// scoreDelta is the award for one participant on one question.
type scoreDelta struct {
	userID string
	points int
}

// scoreQuestion is a pure pass over a ledger snapshot: every participant
// whose recorded option matches the correct one earns the fixed point
// value; everyone else earns nothing. Output order is deterministic.
func scoreQuestion(correctOptionID string, answers map[string]string, points int) []scoreDelta {
	deltas := make([]scoreDelta, 0, len(answers))
	for userID, optionID := range answers {
		if optionID == correctOptionID {
			deltas = append(deltas, scoreDelta{userID: userID, points: points})
		}
	}
	sort.Slice(deltas, func(i, j int) bool { return deltas[i].userID < deltas[j].userID })
	return deltas
}

// correctOptionID returns the first option flagged correct, falling back
// to the first option when none is flagged.
func correctOptionID(q domain.Question) string {
	for _, opt := range q.Options {
		if opt.Correct {
			return opt.ID
		}
	}
	if len(q.Options) > 0 {
		return q.Options[0].ID
	}
	return ""
}
