package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trivia-room-service/internal/app"
	"trivia-room-service/internal/config"
	"trivia-room-service/internal/domain"
	"trivia-room-service/internal/infra/memory"
	"trivia-room-service/internal/infra/postgres"
	redisstore "trivia-room-service/internal/infra/redis"
	"trivia-room-service/internal/metrics"
	transport "trivia-room-service/internal/transport/http"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the trivia server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), opts)
		},
	}
}

func runServer(ctx context.Context, opts *rootOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, opts.logLevel)

	finalPort := opts.port
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,

			// room markers are written under the registry lock with short deadlines
			ContextTimeoutEnabled: true,
		})
		defer redisClient.Close()
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 2*time.Hour)
	cacheTTL := config.TTLDuration(cfg.Catalog.CacheTTL, 10*time.Minute)

	var (
		source app.QuestionCatalog
		admin  app.QuestionAdmin
	)
	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg, logger); err != nil {
			return err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		db := openBun(cfg.Postgres.URL)
		defer db.Close()
		source = postgres.NewCatalog(pool)
		admin = postgres.NewQuestionStore(db)
	} else {
		logger.Warn().Msg("postgres not configured, serving the built-in sample catalog")
		mem := memory.NewCatalog(sampleQuestions())
		source, admin = mem, mem
	}

	var (
		catalog app.QuestionCatalog
		rooms   app.RoomRepository
	)
	if redisClient != nil {
		catalog = redisstore.NewQuestionCache(redisClient, source, cacheTTL)
		rooms = redisstore.NewRoomStore(redisClient, redisTTL)
	} else {
		catalog = memory.NewQuestionCache(source, cacheTTL)
		rooms = memory.NewRoomStore()
	}

	m := metrics.New()
	hub := transport.NewHub(logger.With().Str("component", "hub").Logger())
	service := app.NewService(rooms, catalog, hub, cfg.Settings(),
		app.WithLogger(logger.With().Str("component", "rooms").Logger()),
		app.WithMetrics(m),
	)
	defer service.Close()

	router := transport.NewRouter(
		transport.NewWSHandler(service, hub, logger.With().Str("component", "ws").Logger()),
		transport.NewQuestionsHandler(catalog, admin, logger.With().Str("component", "api").Logger()),
		transport.QRHandler{JoinURL: cfg.Server.JoinURL},
		m,
	)

	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Str("port", finalPort).Msg("starting trivia room service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-stop:
		logger.Info().Msg("shutting down server...")
	case <-ctx.Done():
		logger.Info().Msg("context canceled, shutting down server...")
	case err := <-serveErr:
		logger.Error().Err(err).Msg("server failed")
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuestions lets the service run without a database.
func sampleQuestions() []domain.Question {
	return []domain.Question{
		{Category: "Geography", Title: "What is the capital of Australia?", Answer: "Canberra", AcceptedAnswers: []string{"Canberra"}, Difficulty: "easy"},
		{Category: "Geography", Title: "Which river flows through Cairo?", Answer: "The Nile", AcceptedAnswers: []string{"Nile", "The Nile"}, Difficulty: "easy"},
		{Category: "Science", Title: "What is the chemical symbol for gold?", Answer: "Au", AcceptedAnswers: []string{"Au"}, Difficulty: "easy"},
		{Category: "Science", Title: "Which planet has the most moons?", Answer: "Saturn", AcceptedAnswers: []string{"Saturn"}, Difficulty: "medium"},
		{Category: "History", Title: "In which year did the Berlin Wall fall?", Answer: "1989", AcceptedAnswers: []string{"1989"}, Difficulty: "medium"},
		{Category: "Literature", Title: "Who wrote One Hundred Years of Solitude?", Answer: "Gabriel García Márquez", AcceptedAnswers: []string{"Gabriel García Márquez", "García Márquez", "Marquez"}, Difficulty: "hard"},
		{Category: "Music", Title: "Which composer wrote the Moonlight Sonata?", Answer: "Ludwig van Beethoven", AcceptedAnswers: []string{"Beethoven", "Ludwig van Beethoven"}, Difficulty: "medium"},
		{Category: "Sport", Title: "How many players does a volleyball team have on court?", Answer: "Six", AcceptedAnswers: []string{"6", "six"}, Difficulty: "easy"},
	}
}
