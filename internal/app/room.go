package app

import (
	"context"
	"crypto/rand"
	"io"
	"sort"
	"sync"
	"time"

	"trivia-room-service/internal/domain"
)

const roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Room is a live session container. Players are kept in join order.
type Room struct {
	code      string
	createdAt time.Time

	mu      sync.Mutex
	players []*domain.Player
	game    *Game
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
	closed  bool
}

// NewRoom is exported for repositories and tests that need to seed rooms.
func NewRoom(code string, now time.Time) *Room {
	return &Room{code: code, createdAt: now}
}

func (r *Room) Code() string {
	return r.code
}

func (r *Room) playerLocked(connID string) *domain.Player {
	for _, p := range r.players {
		if p.ConnectionID == connID {
			return p
		}
	}
	return nil
}

func (r *Room) addPlayerLocked(connID, name string, now time.Time) *domain.Player {
	player := &domain.Player{
		ConnectionID: connID,
		Name:         name,
		RoomCode:     r.code,
		JoinedAt:     now,
	}
	r.players = append(r.players, player)
	return player
}

func (r *Room) removePlayerLocked(connID string) *domain.Player {
	for i, p := range r.players {
		if p.ConnectionID == connID {
			r.players = append(r.players[:i], r.players[i+1:]...)
			return p
		}
	}
	return nil
}

// leaderboardLocked orders players by rank; withScores attaches the current question's score.
func (r *Room) leaderboardLocked(withScores bool) []domain.PlayerView {
	ordered := make([]*domain.Player, len(r.players))
	copy(ordered, r.players)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Rank < ordered[j].Rank
	})

	var questionID int64
	scoped := false
	if withScores && r.game != nil {
		if q, ok := r.game.currentQuestion(); ok {
			questionID, scoped = q.ID, true
		}
	}

	views := make([]domain.PlayerView, 0, len(ordered))
	for _, p := range ordered {
		view := domain.PlayerView{
			Name:         p.Name,
			TotalPoints:  p.TotalPoints,
			Rank:         p.Rank,
			PreviousRank: p.PreviousRank,
		}
		if scoped {
			if score, ok := r.game.score(p.ConnectionID, questionID); ok {
				view.Score = score.View()
			}
		}
		views = append(views, view)
	}
	return views
}

// newRoomCode draws a code from crypto/rand; callers retry when it collides with a live room.
func newRoomCode(length int) (string, error) {
	return roomCodeFrom(rand.Reader, length)
}

// roomCodeFrom rejects bytes at or above the largest multiple of the alphabet size so every
// character is equally likely.
func roomCodeFrom(r io.Reader, length int) (string, error) {
	const limit = 256 - 256%len(roomCodeAlphabet)
	out := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(out) < length {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, roomCodeAlphabet[int(b)%len(roomCodeAlphabet)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}
