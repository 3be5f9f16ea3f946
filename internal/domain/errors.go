package domain

import "errors"

var (
	// ErrRoomNotFound is returned when no live room exists for a code.
	ErrRoomNotFound = errors.New("room not found")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuizNotJoinable is returned when the backing quiz already started or ended.
	ErrQuizNotJoinable = errors.New("quiz not joinable")
	// ErrInvalidRoomCode is returned for codes outside the 6-char alphanumeric alphabet.
	ErrInvalidRoomCode = errors.New("invalid room code")
	// ErrRoomAlreadyActive is returned when a start races or repeats against a live room.
	ErrRoomAlreadyActive = errors.New("room already active")
	// ErrNotOwner is returned when a non-owner tries to start the quiz.
	ErrNotOwner = errors.New("only the owner can start the quiz")
	// ErrNoQuestions rejects starting a quiz with no questions.
	ErrNoQuestions = errors.New("quiz has no questions")
	// ErrParticipantNotFound is returned when a user acts before joining.
	ErrParticipantNotFound = errors.New("participant not found in room")
)

// Answer rejection reasons. A rejected submission never mutates room state.
var (
	ErrWrongPhase      = errors.New("answers are not being accepted")
	ErrWrongQuestion   = errors.New("answer is not for the current question")
	ErrPastDeadline    = errors.New("answer window has closed")
	ErrUnknownOption   = errors.New("option not found")
	ErrDuplicateAnswer = errors.New("answer already recorded")
)
