package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"trivia-room-service/internal/domain"
)

// QuizRepository loads quiz content and flips quiz status at the room
// start/end boundaries. It is never consulted during the answer/reveal loop.
type QuizRepository interface {
	GetQuizByCode(ctx context.Context, code string) (domain.Quiz, error)
	MarkQuizActive(ctx context.Context, quizID string) error
	MarkQuizEnded(ctx context.Context, quizID string) error
}

// ScoreStore mirrors cumulative scores to durable storage. Upserts are
// idempotent by (quiz, user), so retries are always safe.
type ScoreStore interface {
	UpsertScore(ctx context.Context, quizID, userID string, score int) error
}

// RoomService contains the room orchestration use cases.
type RoomService struct {
	rooms   Registry
	quizzes QuizRepository
	scores  ScoreStore
	rules   Rules
}

func NewRoomService(rooms Registry, quizzes QuizRepository, scores ScoreStore, rules Rules) *RoomService {
	return &RoomService{rooms: rooms, quizzes: quizzes, scores: scores, rules: rules}
}

// Join registers a participant in a room, lazily creating the lobby on
// first join so join order predates the quiz start. Joining a live room
// returns a catch-up snapshot; joining a quiz that already ended fails.
func (s *RoomService) Join(ctx context.Context, rawCode, userID, displayName string) (domain.RoomState, error) {
	code, err := domain.NormalizeRoomCode(rawCode)
	if err != nil {
		return domain.RoomState{}, err
	}

	if room, ok := s.rooms.Get(code); ok && room.Phase() != domain.PhaseEnded {
		return room.Join(userID, displayName), nil
	}

	quiz, err := s.quizzes.GetQuizByCode(ctx, code)
	if err != nil {
		return domain.RoomState{}, err
	}
	if quiz.Status != domain.StatusDraft {
		return domain.RoomState{}, domain.ErrQuizNotJoinable
	}

	room := s.rooms.GetOrCreate(code, func() *Room { return s.newRoom(code, quiz) })
	return room.Join(userID, displayName), nil
}

// Start begins the quiz for a room. Owner-only; a quiz with zero questions
// is rejected before any room is created or mutated. The quiz record is
// marked active before the first question goes out.
func (s *RoomService) Start(ctx context.Context, rawCode, userID string) error {
	code, err := domain.NormalizeRoomCode(rawCode)
	if err != nil {
		return err
	}

	quiz, err := s.quizzes.GetQuizByCode(ctx, code)
	if err != nil {
		return err
	}
	if quiz.OwnerID != userID {
		return domain.ErrNotOwner
	}
	if len(quiz.Questions) == 0 {
		return domain.ErrNoQuestions
	}
	if room, ok := s.rooms.Get(code); ok && room.Phase() != domain.PhaseLobby {
		return domain.ErrRoomAlreadyActive
	}
	if quiz.Status != domain.StatusDraft {
		return domain.ErrQuizNotJoinable
	}

	if err := s.quizzes.MarkQuizActive(ctx, quiz.ID); err != nil {
		return fmt.Errorf("mark quiz active: %w", err)
	}

	room := s.rooms.GetOrCreate(code, func() *Room { return s.newRoom(code, quiz) })
	return room.Begin(userID, quiz.Questions)
}

// SubmitAnswer records an answer for the current question. The receipt is
// for the submitting connection only; accepted answers surface to others
// only through the next reveal.
func (s *RoomService) SubmitAnswer(ctx context.Context, rawCode, userID string, sub domain.AnswerSubmission) (domain.AnswerReceipt, error) {
	code, err := domain.NormalizeRoomCode(rawCode)
	if err != nil {
		return domain.AnswerReceipt{}, err
	}
	room, ok := s.rooms.Get(code)
	if !ok {
		return domain.AnswerReceipt{}, domain.ErrRoomNotFound
	}
	return room.Submit(userID, sub)
}

// Subscribe returns a channel receiving the room's ordered event stream.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *RoomService) Subscribe(_ context.Context, rawCode string) (<-chan domain.Event, func(), error) {
	code, err := domain.NormalizeRoomCode(rawCode)
	if err != nil {
		return nil, nil, err
	}
	room, ok := s.rooms.Get(code)
	if !ok {
		return nil, nil, domain.ErrRoomNotFound
	}
	ch, cancel := room.Subscribe()
	return ch, cancel, nil
}

// Leave removes a participant and reclaims the room if it was an empty
// lobby. Rooms that already started run to completion on their own.
func (s *RoomService) Leave(_ context.Context, rawCode, userID string) {
	code, err := domain.NormalizeRoomCode(rawCode)
	if err != nil {
		return
	}
	room, ok := s.rooms.Get(code)
	if !ok {
		return
	}
	room.Leave(userID)
	s.rooms.DeleteIfIdle(code)
}

func (s *RoomService) newRoom(code string, quiz domain.Quiz) *Room {
	return NewRoom(code, quiz.ID, quiz.OwnerID, s.rules, Hooks{
		PersistScores: s.persistTotals,
		RoomEnded:     s.finishRoom,
	})
}

// persistTotals mirrors cumulative scores with a single retry per entry.
// A score dropped here is lost from durable storage, never from the live
// leaderboard.
func (s *RoomService) persistTotals(quizID string, totals []domain.ScoreTotal) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, total := range totals {
		if err := s.scores.UpsertScore(ctx, quizID, total.UserID, total.Score); err != nil {
			if err = s.scores.UpsertScore(ctx, quizID, total.UserID, total.Score); err != nil {
				log.Printf("score upsert dropped quiz=%s user=%s: %v", quizID, total.UserID, err)
			}
		}
	}
}

// finishRoom marks the quiz ended (retried once, then logged and
// abandoned) and drops the room from the registry, cancelling any timer.
func (s *RoomService) finishRoom(code, quizID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.quizzes.MarkQuizEnded(ctx, quizID); err != nil {
		if err = s.quizzes.MarkQuizEnded(ctx, quizID); err != nil {
			log.Printf("mark quiz ended failed quiz=%s: %v", quizID, err)
		}
	}
	s.rooms.Remove(code)
}
