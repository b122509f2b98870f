package domain

import "time"

// Player is a connected room member and their running totals.
type Player struct {
	ConnectionID string
	Name         string
	RoomCode     string
	TotalPoints  int
	Rank         int
	PreviousRank int // 0 until the first rank recomputation
	JoinedAt     time.Time
}

// Question is a catalog entry. AcceptedAnswers are matched fuzzily; Answer is shown after the window closes.
type Question struct {
	ID              int64    `json:"id"`
	Category        string   `json:"category"`
	Title           string   `json:"title"`
	Answer          string   `json:"answer"`
	AcceptedAnswers []string `json:"acceptedAnswers"`
	Difficulty      string   `json:"difficulty"`
}

// View strips the answer fields so the question can be sent to players.
func (q Question) View() QuestionView {
	return QuestionView{
		ID:         q.ID,
		Category:   q.Category,
		Title:      q.Title,
		Difficulty: q.Difficulty,
	}
}

// QuestionView is what players see while the answer window is open.
type QuestionView struct {
	ID         int64  `json:"id"`
	Category   string `json:"category,omitempty"`
	Title      string `json:"title"`
	Difficulty string `json:"difficulty,omitempty"`
}

// Score tracks one player's attempts on one question of one game.
type Score struct {
	PlayerID         string
	GameID           string
	QuestionID       int64
	Tries            int
	HasAnsweredRight bool
	Points           int
	Order            int // 1-based position among correct answers, 0 if not answered right
}

// View converts the score into its wire form.
func (s *Score) View() *ScoreView {
	return &ScoreView{
		HasAnsweredRight: s.HasAnsweredRight,
		Points:           s.Points,
		Order:            s.Order,
	}
}

// ScoreView is the per-question part of a leaderboard row.
type ScoreView struct {
	HasAnsweredRight bool `json:"hasAnsweredRight"`
	Points           int  `json:"points"`
	Order            int  `json:"order,omitempty"`
}

// PlayerView is a leaderboard row.
type PlayerView struct {
	Name         string     `json:"name"`
	TotalPoints  int        `json:"totalPoints"`
	Rank         int        `json:"rank"`
	PreviousRank int        `json:"previousRank,omitempty"`
	Score        *ScoreView `json:"score,omitempty"`
}

// GameState is the phase of a game loop.
type GameState int

const (
	GameNotStarted GameState = iota
	GameIntermission
	GameAnswerOpen
	GameFinished
)

func (s GameState) String() string {
	switch s {
	case GameIntermission:
		return "intermission"
	case GameAnswerOpen:
		return "answerOpen"
	case GameFinished:
		return "finished"
	default:
		return "notStarted"
	}
}
