package domain

import "errors"

var (
	// ErrRoomNotFound is returned when no live room has the requested code.
	ErrRoomNotFound = errors.New("room not found")
	// ErrGameAlreadyRunning is returned when a room already runs a game loop.
	ErrGameAlreadyRunning = errors.New("game already running")
	// ErrGameNotRunning is returned when a room has no active game.
	ErrGameNotRunning = errors.New("game not running")
	// ErrQuestionNotFound indicates a question ID is unknown to the game or catalog.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrAnswerWindowClosed indicates a submission outside the current answer window.
	ErrAnswerWindowClosed = errors.New("answer window closed")
	// ErrMaxAttemptsExceeded indicates the player used every attempt for the question.
	ErrMaxAttemptsExceeded = errors.New("max attempts exceeded")
	// ErrPlayerNotInRoom is returned when a connection acts on a room it is not scored in.
	ErrPlayerNotInRoom = errors.New("player not in room")
	// ErrNoQuestions is returned when the catalog has nothing to play.
	ErrNoQuestions = errors.New("catalog returned no questions")
	// ErrRoomCodeExhausted is returned when no free room code could be generated.
	ErrRoomCodeExhausted = errors.New("could not allocate a free room code")
)
