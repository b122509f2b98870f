package app

import (
	"context"
	"sync"
	"time"

	"trivia-room-service/internal/answer"
	"trivia-room-service/internal/metrics"
	"trivia-room-service/internal/scoring"

	"github.com/rs/zerolog"
)

// Settings tunes the game cadence and scoring.
type Settings struct {
	QuestionCount  int
	Intermission   time.Duration
	AnswerWindow   time.Duration
	MaxTries       int
	RoomCodeLength int
	Scoring        scoring.Rules
	Evaluator      answer.Evaluator
}

// DefaultSettings mirrors the classic pub-quiz cadence: 20 questions, 5s breaks, 20s to answer.
func DefaultSettings() Settings {
	return Settings{
		QuestionCount:  20,
		Intermission:   5 * time.Second,
		AnswerWindow:   20 * time.Second,
		MaxTries:       3,
		RoomCodeLength: 6,
		Scoring:        scoring.DefaultRules,
		Evaluator:      answer.Default,
	}
}

// WaitFunc suspends the game loop; it must return early with an error when ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

type Option func(*Service)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) { s.log = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithWait replaces the timed waits; tests use it to step the game loop.
func WithWait(wait WaitFunc) Option {
	return func(s *Service) { s.wait = wait }
}

// WithClock is test-only for deterministic join timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service owns every live room and runs their games.
type Service struct {
	mu      sync.Mutex // guards members and compound room repository updates
	rooms   RoomRepository
	members map[string]string // connection id -> room code

	catalog  QuestionCatalog
	hub      Broadcaster
	settings Settings

	log     zerolog.Logger
	metrics *metrics.Metrics
	wait    WaitFunc
	now     func() time.Time

	baseCtx context.Context
	stop    context.CancelFunc
	loops   sync.WaitGroup

	lifeMu  sync.Mutex // orders loops.Add against Close
	stopped bool
}

func NewService(rooms RoomRepository, catalog QuestionCatalog, hub Broadcaster, settings Settings, opts ...Option) *Service {
	baseCtx, stop := context.WithCancel(context.Background())
	s := &Service{
		rooms:    rooms,
		members:  make(map[string]string),
		catalog:  catalog,
		hub:      hub,
		settings: withDefaults(settings),
		log:      zerolog.Nop(),
		wait:     sleepContext,
		now:      time.Now,
		baseCtx:  baseCtx,
		stop:     stop,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	return s
}

// Close cancels every running game loop and waits for them to exit.
// Games started afterwards are refused with ErrGameNotRunning.
func (s *Service) Close() {
	s.lifeMu.Lock()
	s.stopped = true
	s.stop()
	s.lifeMu.Unlock()
	s.loops.Wait()
}

// trackLoop registers a game loop unless the service is closing.
func (s *Service) trackLoop() bool {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	if s.stopped {
		return false
	}
	s.loops.Add(1)
	return true
}

func withDefaults(settings Settings) Settings {
	def := DefaultSettings()
	if settings.QuestionCount <= 0 {
		settings.QuestionCount = def.QuestionCount
	}
	if settings.MaxTries <= 0 {
		settings.MaxTries = def.MaxTries
	}
	if settings.RoomCodeLength <= 0 {
		settings.RoomCodeLength = def.RoomCodeLength
	}
	if settings.Scoring == (scoring.Rules{}) {
		settings.Scoring = def.Scoring
	}
	if settings.Evaluator == (answer.Evaluator{}) {
		settings.Evaluator = def.Evaluator
	}
	return settings
}
