package domain

import "time"

// Phase is a room's current stage in its lifecycle.
type Phase string

const (
	PhaseLobby     Phase = "lobby"
	PhaseAnswering Phase = "answering"
	PhaseReviewing Phase = "reviewing"
	PhaseEnded     Phase = "ended"
)

// QuizStatus tracks the backing quiz record's lifecycle.
type QuizStatus string

const (
	StatusDraft  QuizStatus = "draft"
	StatusActive QuizStatus = "active"
	StatusEnded  QuizStatus = "ended"
)

// Option represents a possible answer for a question.
type Option struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Question models an MCQ question with exactly one correct option.
type Question struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []Option `json:"options"`
}

// Quiz is the authored content a room plays through.
type Quiz struct {
	ID        string     `json:"id"`
	Code      string     `json:"code"`
	OwnerID   string     `json:"ownerId"`
	Status    QuizStatus `json:"status"`
	Questions []Question `json:"questions"`
}

// SanitizedOption is an option stripped of its correctness flag.
type SanitizedOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// SanitizedQuestion is the client-facing view of a question. Correctness
// is never sent to observers before reveal.
type SanitizedQuestion struct {
	ID      string            `json:"id"`
	Prompt  string            `json:"prompt"`
	Options []SanitizedOption `json:"options"`
}

// Sanitized strips correctness flags for broadcast.
func (q Question) Sanitized() SanitizedQuestion {
	options := make([]SanitizedOption, 0, len(q.Options))
	for _, opt := range q.Options {
		options = append(options, SanitizedOption{ID: opt.ID, Text: opt.Text})
	}
	return SanitizedQuestion{ID: q.ID, Prompt: q.Prompt, Options: options}
}

// Participant represents a room participant and their accumulated score.
type Participant struct {
	UserID      string
	DisplayName string
	Score       int
	JoinOrder   int
	JoinedAt    time.Time
}

// LeaderboardEntry is a snapshot-friendly view of a participant.
type LeaderboardEntry struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Score       int    `json:"score"`
}

// Leaderboard captures the ordered scoreboard for a room.
type Leaderboard struct {
	RoomCode  string             `json:"roomCode"`
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// AnswerSubmission models the answer signal from clients.
type AnswerSubmission struct {
	QuestionID string
	OptionID   string
}

// AnswerReceipt acknowledges an accepted submission to its sender only.
type AnswerReceipt struct {
	QuestionID string `json:"questionId"`
	OptionID   string `json:"optionId"`
}

// ScoreTotal is a cumulative score for one participant, the unit the
// persistence collaborator upserts by (quiz, user) key.
type ScoreTotal struct {
	UserID string
	Score  int
}

// RoomState is the snapshot sent to a joining connection so late joiners
// catch up with a room mid-game.
type RoomState struct {
	RoomCode    string             `json:"roomCode"`
	QuizID      string             `json:"quizId"`
	OwnerID     string             `json:"ownerId"`
	Phase       Phase              `json:"phase"`
	PlayerCount int                `json:"playerCount"`
	Question    *SanitizedQuestion `json:"question,omitempty"`
	Deadline    *time.Time         `json:"deadline,omitempty"`
	Leaderboard Leaderboard        `json:"leaderboard"`
}

// Event is the envelope broadcast to every subscriber of a room.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Broadcast event types.
const (
	EventPlayerJoined = "playerJoined"
	EventPlayerLeft   = "playerLeft"
	EventQuestion     = "question"
	EventReveal       = "reveal"
	EventLeaderboard  = "leaderboard"
	EventQuizEnded    = "quizEnded"
)

// PlayerEvent announces a participant joining or leaving a room.
type PlayerEvent struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

// QuestionEvent carries the sanitized current question and its deadline.
type QuestionEvent struct {
	Question SanitizedQuestion `json:"question"`
	Deadline time.Time         `json:"deadline"`
	Duration int64             `json:"durationMs"`
}

// RevealEvent discloses the correct option after the answer window closes.
type RevealEvent struct {
	QuestionID      string `json:"questionId"`
	CorrectOptionID string `json:"correctOptionId"`
}
