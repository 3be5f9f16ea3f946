package app

import (
	"sort"
	"sync"
	"time"

	"trivia-room-service/internal/domain"
)

// Rules are the timing and scoring parameters shared by every room.
type Rules struct {
	AnswerWindow time.Duration
	ReviewWindow time.Duration
	Points       int
}

// DefaultRules mirrors the production defaults: 30s to answer, 15s of
// review, 10 points per correct answer.
func DefaultRules() Rules {
	return Rules{
		AnswerWindow: 30 * time.Second,
		ReviewWindow: 15 * time.Second,
		Points:       10,
	}
}

// Hooks are the persistence callbacks a room invokes at phase boundaries.
// They run outside the room lock and must tolerate being slow or failing;
// the live game never waits on them.
type Hooks struct {
	// PersistScores mirrors cumulative totals to durable storage.
	PersistScores func(quizID string, totals []domain.ScoreTotal)
	// RoomEnded runs after the final review window elapses.
	RoomEnded func(code, quizID string)
}

// Room is one live quiz instance. All state mutations (joins, answer
// submissions, timer-driven phase transitions) serialize through its
// mutex, so every subscriber observes events in the same order. Timer
// callbacks re-check phase and question index under the lock before
// acting, so a stale callback can never act on a room that advanced.
type Room struct {
	code    string
	quizID  string
	ownerID string
	rules   Rules
	hooks   Hooks
	now     func() time.Time

	mu           sync.RWMutex
	phase        domain.Phase
	index        int
	deadline     time.Time
	questions    []domain.Question
	participants map[string]*domain.Participant
	joinSeq      int
	ledger       *answerLedger
	timer        *deadlineTimer
	subscribers  map[chan domain.Event]struct{}
}

func NewRoom(code, quizID, ownerID string, rules Rules, hooks Hooks) *Room {
	return NewRoomWithClock(code, quizID, ownerID, rules, hooks, time.Now)
}

// NewRoomWithClock allows deterministic deadlines in tests.
func NewRoomWithClock(code, quizID, ownerID string, rules Rules, hooks Hooks, now func() time.Time) *Room {
	return &Room{
		code:         code,
		quizID:       quizID,
		ownerID:      ownerID,
		rules:        rules,
		hooks:        hooks,
		now:          now,
		phase:        domain.PhaseLobby,
		participants: make(map[string]*domain.Participant),
		ledger:       newAnswerLedger(),
		subscribers:  make(map[chan domain.Event]struct{}),
	}
}

func (r *Room) Code() string   { return r.code }
func (r *Room) QuizID() string { return r.quizID }

func (r *Room) Phase() domain.Phase {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.phase
}

// Idle reports whether the room is an empty lobby that can be reclaimed.
func (r *Room) Idle() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.phase == domain.PhaseLobby && len(r.participants) == 0
}

// Join registers or refreshes a participant. Join order is recorded once
// per participant and is the leaderboard tie-break key.
func (r *Room) Join(userID, displayName string) domain.RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()

	if participant, ok := r.participants[userID]; ok {
		participant.DisplayName = displayName
	} else {
		r.joinSeq++
		r.participants[userID] = &domain.Participant{
			UserID:      userID,
			DisplayName: displayName,
			JoinOrder:   r.joinSeq,
			JoinedAt:    r.now(),
		}
		r.broadcastLocked(domain.Event{
			Type:    domain.EventPlayerJoined,
			Payload: domain.PlayerEvent{UserID: userID, DisplayName: displayName},
		})
	}
	return r.snapshotLocked()
}

// Leave removes a participant. Accumulated score survives on the durable
// side but drops off the live leaderboard, matching participant presence.
func (r *Room) Leave(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	participant, ok := r.participants[userID]
	if !ok {
		return
	}
	delete(r.participants, userID)
	r.broadcastLocked(domain.Event{
		Type:    domain.EventPlayerLeft,
		Payload: domain.PlayerEvent{UserID: userID, DisplayName: participant.DisplayName},
	})
}

// Begin transitions Lobby -> Answering for question 0. Only the owner may
// start, only once, and only with at least one question.
func (r *Room) Begin(userID string, questions []domain.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != domain.PhaseLobby {
		return domain.ErrRoomAlreadyActive
	}
	if userID != r.ownerID {
		return domain.ErrNotOwner
	}
	if len(questions) == 0 {
		return domain.ErrNoQuestions
	}

	r.questions = questions
	r.index = 0
	r.startQuestionLocked()
	return nil
}

// Submit validates and records an answer. First valid answer wins; every
// rejection reason leaves room state untouched.
func (r *Room) Submit(userID string, sub domain.AnswerSubmission) (domain.AnswerReceipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.participants[userID]; !ok {
		return domain.AnswerReceipt{}, domain.ErrParticipantNotFound
	}
	if r.phase != domain.PhaseAnswering {
		return domain.AnswerReceipt{}, domain.ErrWrongPhase
	}
	question := r.questions[r.index]
	if question.ID != sub.QuestionID {
		return domain.AnswerReceipt{}, domain.ErrWrongQuestion
	}
	if r.now().After(r.deadline) {
		return domain.AnswerReceipt{}, domain.ErrPastDeadline
	}
	if !hasOption(question, sub.OptionID) {
		return domain.AnswerReceipt{}, domain.ErrUnknownOption
	}
	if err := r.ledger.record(userID, sub.OptionID, r.now()); err != nil {
		return domain.AnswerReceipt{}, err
	}
	return domain.AnswerReceipt{QuestionID: sub.QuestionID, OptionID: sub.OptionID}, nil
}

// Subscribe returns a channel receiving the room's ordered event stream.
// The caller must invoke the returned cancel function to avoid leaks.
func (r *Room) Subscribe() (<-chan domain.Event, func()) {
	ch := make(chan domain.Event, 16)

	r.mu.Lock()
	r.subscribers[ch] = struct{}{}
	r.mu.Unlock()

	cancel := func() {
		r.mu.Lock()
		if _, ok := r.subscribers[ch]; ok {
			delete(r.subscribers, ch)
			close(ch)
		}
		r.mu.Unlock()
	}
	return ch, cancel
}

// Snapshot returns the late-joiner view of the room.
func (r *Room) Snapshot() domain.RoomState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

// Shutdown cancels any pending timer and marks the room terminal. Used on
// explicit teardown; natural completion arrives here already ended.
func (r *Room) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelTimerLocked()
	r.phase = domain.PhaseEnded
}

func (r *Room) startQuestionLocked() {
	now := r.now()
	r.phase = domain.PhaseAnswering
	r.deadline = now.Add(r.rules.AnswerWindow)
	r.ledger.clear()

	question := r.questions[r.index]
	r.broadcastLocked(domain.Event{
		Type: domain.EventQuestion,
		Payload: domain.QuestionEvent{
			Question: question.Sanitized(),
			Deadline: r.deadline,
			Duration: r.rules.AnswerWindow.Milliseconds(),
		},
	})

	index := r.index
	r.scheduleLocked(r.rules.AnswerWindow, func() { r.closeAnswers(index) })
}

// closeAnswers is the Answering -> Reviewing transition, driven by timer
// expiry. Further answers are locked out by phase, the ledger is scored
// exactly once and cleared in the same critical section, and reveal plus
// leaderboard go out before the review timer is armed.
func (r *Room) closeAnswers(index int) {
	r.mu.Lock()
	if r.phase != domain.PhaseAnswering || r.index != index {
		r.mu.Unlock()
		return
	}

	question := r.questions[index]
	correct := correctOptionID(question)
	deltas := scoreQuestion(correct, r.ledger.snapshot(), r.rules.Points)
	r.ledger.clear()

	totals := make([]domain.ScoreTotal, 0, len(deltas))
	for _, delta := range deltas {
		if participant, ok := r.participants[delta.userID]; ok {
			participant.Score += delta.points
			totals = append(totals, domain.ScoreTotal{UserID: delta.userID, Score: participant.Score})
		}
	}

	r.phase = domain.PhaseReviewing
	r.broadcastLocked(domain.Event{
		Type:    domain.EventReveal,
		Payload: domain.RevealEvent{QuestionID: question.ID, CorrectOptionID: correct},
	})
	r.broadcastLocked(domain.Event{
		Type:    domain.EventLeaderboard,
		Payload: r.leaderboardLocked(),
	})
	r.scheduleLocked(r.rules.ReviewWindow, func() { r.advance(index) })
	hooks := r.hooks
	quizID := r.quizID
	r.mu.Unlock()

	// Durable writes happen off the serialization point; the in-memory
	// leaderboard is already authoritative.
	if len(totals) > 0 && hooks.PersistScores != nil {
		hooks.PersistScores(quizID, totals)
	}
}

// advance is the review-window expiry: next question, or Ended after the
// last one.
func (r *Room) advance(index int) {
	r.mu.Lock()
	if r.phase != domain.PhaseReviewing || r.index != index {
		r.mu.Unlock()
		return
	}

	next := index + 1
	if next < len(r.questions) {
		r.index = next
		r.startQuestionLocked()
		r.mu.Unlock()
		return
	}

	r.phase = domain.PhaseEnded
	r.cancelTimerLocked()
	finals := make([]domain.ScoreTotal, 0, len(r.participants))
	for _, participant := range r.participants {
		if participant.Score > 0 {
			finals = append(finals, domain.ScoreTotal{UserID: participant.UserID, Score: participant.Score})
		}
	}
	r.broadcastLocked(domain.Event{Type: domain.EventQuizEnded, Payload: struct{}{}})
	hooks := r.hooks
	quizID, code := r.quizID, r.code
	r.mu.Unlock()

	if len(finals) > 0 && hooks.PersistScores != nil {
		hooks.PersistScores(quizID, finals)
	}
	if hooks.RoomEnded != nil {
		hooks.RoomEnded(code, quizID)
	}
}

func (r *Room) scheduleLocked(d time.Duration, fn func()) {
	r.cancelTimerLocked()
	r.timer = newDeadlineTimer(d, fn)
}

func (r *Room) cancelTimerLocked() {
	if r.timer != nil {
		r.timer.cancel()
		r.timer = nil
	}
}

func (r *Room) broadcastLocked(event domain.Event) {
	for ch := range r.subscribers {
		select {
		case ch <- event:
		default:
			// Slow subscribers lose their oldest event rather than
			// blocking the room.
			select {
			case <-ch:
			default:
			}
			ch <- event
		}
	}
}

func (r *Room) snapshotLocked() domain.RoomState {
	state := domain.RoomState{
		RoomCode:    r.code,
		QuizID:      r.quizID,
		OwnerID:     r.ownerID,
		Phase:       r.phase,
		PlayerCount: len(r.participants),
		Leaderboard: r.leaderboardLocked(),
	}
	if r.phase == domain.PhaseAnswering {
		question := r.questions[r.index].Sanitized()
		deadline := r.deadline
		state.Question = &question
		state.Deadline = &deadline
	}
	return state
}

// leaderboardLocked orders by score descending; ties go to whoever joined
// the room first, a stable and deterministic contract.
func (r *Room) leaderboardLocked() domain.Leaderboard {
	entries := make([]domain.LeaderboardEntry, 0, len(r.participants))
	for _, participant := range r.participants {
		entries = append(entries, domain.LeaderboardEntry{
			UserID:      participant.UserID,
			DisplayName: participant.DisplayName,
			Score:       participant.Score,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return r.participants[entries[i].UserID].JoinOrder < r.participants[entries[j].UserID].JoinOrder
	})
	return domain.Leaderboard{
		RoomCode:  r.code,
		Entries:   entries,
		UpdatedAt: r.now(),
	}
}

func hasOption(q domain.Question, optionID string) bool {
	for _, opt := range q.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}
