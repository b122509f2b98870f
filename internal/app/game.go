package app

import (
	"context"
	"fmt"
	"math"
	"time"

	"trivia-room-service/internal/domain"
	"trivia-room-service/internal/scoring"

	"github.com/google/uuid"
)

// Game is one run through a fixed question sequence inside a room.
// All fields are guarded by the owning room's mutex.
type Game struct {
	id             string
	questions      []domain.Question
	state          domain.GameState
	questionNumber int // 1-based, 0 before the first question
	canAnswer      bool
	rightAnswers   int
	scores         map[scoreKey]*domain.Score
}

type scoreKey struct {
	playerID   string
	questionID int64
}

func newGame(questions []domain.Question) *Game {
	return &Game{
		id:        uuid.NewString(),
		questions: questions,
		state:     domain.GameNotStarted,
		scores:    make(map[scoreKey]*domain.Score),
	}
}

func (g *Game) currentQuestion() (domain.Question, bool) {
	if g.questionNumber == 0 || g.questionNumber > len(g.questions) {
		return domain.Question{}, false
	}
	return g.questions[g.questionNumber-1], true
}

func (g *Game) findQuestion(id int64) (domain.Question, int, bool) {
	for i, q := range g.questions {
		if q.ID == id {
			return q, i, true
		}
	}
	return domain.Question{}, 0, false
}

func (g *Game) score(playerID string, questionID int64) (*domain.Score, bool) {
	s, ok := g.scores[scoreKey{playerID: playerID, questionID: questionID}]
	return s, ok
}

// StartGame draws questions for the room and starts its timed loop in the background.
func (s *Service) StartGame(ctx context.Context, code string) error {
	room, ok := s.lookupRoom(code)
	if !ok {
		return domain.ErrRoomNotFound
	}

	room.mu.Lock()
	if room.closed {
		room.mu.Unlock()
		return domain.ErrRoomNotFound
	}
	if room.running {
		room.mu.Unlock()
		return domain.ErrGameAlreadyRunning
	}
	if s.baseCtx.Err() != nil {
		room.mu.Unlock()
		return domain.ErrGameNotRunning
	}
	// reserve the room so concurrent starts fail while questions are drawn
	room.running = true
	room.mu.Unlock()

	questions, err := s.catalog.GetRandomQuestions(ctx, s.settings.QuestionCount)
	if err == nil && len(questions) == 0 {
		err = domain.ErrNoQuestions
	}
	if err != nil {
		room.mu.Lock()
		room.running = false
		room.mu.Unlock()
		return fmt.Errorf("draw questions: %w", err)
	}
	if len(questions) > s.settings.QuestionCount {
		questions = questions[:s.settings.QuestionCount]
	}

	game := newGame(questions)
	loopCtx, cancel := context.WithCancel(s.baseCtx)

	room.mu.Lock()
	if room.closed {
		room.running = false
		room.mu.Unlock()
		cancel()
		return domain.ErrRoomNotFound
	}
	if !s.trackLoop() {
		room.running = false
		room.mu.Unlock()
		cancel()
		return domain.ErrGameNotRunning
	}
	room.game = game
	room.cancel = cancel
	room.done = make(chan struct{})
	done := room.done
	s.hub.Message(room.code, "Game has started.")
	room.mu.Unlock()

	s.metrics.GamesStarted.Inc()
	s.metrics.RunningGames.Inc()
	s.log.Info().Str("room", room.code).Str("game", game.id).Int("questions", len(questions)).Msg("game started")

	go s.runGame(loopCtx, cancel, room, game, done)
	return nil
}

func (s *Service) runGame(ctx context.Context, cancel context.CancelFunc, room *Room, game *Game, done chan struct{}) {
	defer s.loops.Done()
	defer close(done)
	defer cancel()
	defer func() {
		room.mu.Lock()
		if room.game == game {
			room.running = false
			room.cancel = nil
		}
		room.mu.Unlock()
		s.metrics.RunningGames.Dec()
	}()

	intermission := wholeSeconds(s.settings.Intermission)
	answerWindow := wholeSeconds(s.settings.AnswerWindow)
	total := len(game.questions)

	for i, question := range game.questions {
		if !s.step(ctx, room, func() {
			game.state = domain.GameIntermission
			s.hub.Delay(room.code, intermission)
		}) {
			return
		}
		if err := s.wait(ctx, s.settings.Intermission); err != nil {
			s.log.Debug().Str("room", room.code).Str("game", game.id).Msg("game cancelled during intermission")
			return
		}

		number := i + 1
		if !s.step(ctx, room, func() {
			for _, p := range room.players {
				game.scores[scoreKey{playerID: p.ConnectionID, questionID: question.ID}] = &domain.Score{
					PlayerID:   p.ConnectionID,
					GameID:     game.id,
					QuestionID: question.ID,
				}
			}
			game.questionNumber = number
			game.rightAnswers = 0
			game.canAnswer = true
			game.state = domain.GameAnswerOpen
			s.hub.Players(room.code, room.leaderboardLocked(true))
			s.hub.Question(room.code, question.View(), answerWindow, number, total)
		}) {
			return
		}
		if err := s.wait(ctx, s.settings.AnswerWindow); err != nil {
			s.log.Debug().Str("room", room.code).Str("game", game.id).Msg("game cancelled during answer window")
			return
		}

		if !s.step(ctx, room, func() {
			game.canAnswer = false
			s.hub.Answer(room.code, question.Answer)
			s.hub.Players(room.code, room.leaderboardLocked(true))
		}) {
			return
		}
	}

	s.step(ctx, room, func() {
		game.state = domain.GameFinished
		s.hub.Players(room.code, room.leaderboardLocked(false))
		s.hub.Message(room.code, "Game is over.")
	})
	s.log.Info().Str("room", room.code).Str("game", game.id).Msg("game finished")
}

// step runs fn under the room lock unless the loop was cancelled or the room destroyed.
func (s *Service) step(ctx context.Context, room *Room, fn func()) bool {
	room.mu.Lock()
	defer room.mu.Unlock()
	if ctx.Err() != nil || room.closed {
		return false
	}
	fn()
	return true
}

// SubmitAnswer evaluates a player's answer to the current question.
// The verdict is only meaningful when err is nil; rejections never change any score.
func (s *Service) SubmitAnswer(code string, questionID int64, rawAnswer, connID string) (domain.Verdict, error) {
	room, ok := s.lookupRoom(code)
	if !ok {
		return domain.VerdictWrong, domain.ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.closed {
		return domain.VerdictWrong, domain.ErrRoomNotFound
	}
	game := room.game
	if game == nil || !room.running || game.state == domain.GameFinished {
		return domain.VerdictWrong, domain.ErrGameNotRunning
	}
	question, idx, ok := game.findQuestion(questionID)
	if !ok {
		return domain.VerdictWrong, domain.ErrQuestionNotFound
	}
	if !game.canAnswer || idx != game.questionNumber-1 {
		return domain.VerdictWrong, domain.ErrAnswerWindowClosed
	}
	player := room.playerLocked(connID)
	score, ok := game.score(connID, questionID)
	if player == nil || !ok {
		return domain.VerdictWrong, domain.ErrPlayerNotInRoom
	}
	if score.Tries >= s.settings.MaxTries {
		return domain.VerdictWrong, domain.ErrMaxAttemptsExceeded
	}

	score.Tries++
	verdict := s.settings.Evaluator.Evaluate(rawAnswer, question.AcceptedAnswers)
	s.metrics.AnswersTotal.WithLabelValues(verdict.String()).Inc()

	if verdict == domain.VerdictRight && !score.HasAnsweredRight {
		score.HasAnsweredRight = true
		score.Points = s.settings.Scoring.AwardPoints(game.rightAnswers)
		game.rightAnswers++
		score.Order = game.rightAnswers
		player.TotalPoints += score.Points
		scoring.RecomputeRanks(room.players)
		s.hub.Players(room.code, room.leaderboardLocked(true))
	}
	return verdict, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func wholeSeconds(d time.Duration) int {
	return int(math.Round(d.Seconds()))
}
