package app

import (
	"context"

	"trivia-room-service/internal/domain"
)

// RoomRepository abstracts where live rooms are kept (in-memory, Redis-marked, etc).
type RoomRepository interface {
	// Add stores the room unless its code is already taken.
	Add(room *Room) bool
	Get(code string) (*Room, bool)
	Delete(code string)
	Len() int
}

// QuestionCatalog supplies questions to games.
type QuestionCatalog interface {
	// GetRandomQuestions returns up to count distinct questions in random order.
	GetRandomQuestions(ctx context.Context, count int) ([]domain.Question, error)
	GetQuestionByID(ctx context.Context, id int64) (domain.Question, error)
}

// QuestionAdmin is the write side of the catalog behind the HTTP CRUD surface.
type QuestionAdmin interface {
	ListQuestions(ctx context.Context) ([]domain.Question, error)
	CreateQuestion(ctx context.Context, q domain.Question) (domain.Question, error)
	UpdateQuestion(ctx context.Context, q domain.Question) error
	DeleteQuestion(ctx context.Context, id int64) error
}

// Broadcaster delivers room-scoped messages. Implementations must not block.
type Broadcaster interface {
	JoinGroup(roomCode, connID string)
	LeaveGroup(roomCode, connID string)
	Players(roomCode string, players []domain.PlayerView)
	Message(roomCode, text string)
	// Chat sends a player's line to everyone in the room except the sender.
	Chat(roomCode, exceptConnID, sender, text string)
	Delay(roomCode string, seconds int)
	Question(roomCode string, question domain.QuestionView, answerSeconds, number, total int)
	Answer(roomCode, answer string)
}
