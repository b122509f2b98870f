package cli

import (
	"os"
	"time"

	"trivia-room-service/internal/config"

	"github.com/rs/zerolog"
)

// newLogger builds the process logger; flagLevel wins over the config file, LOG_LEVEL over both.
func newLogger(cfg config.Config, flagLevel string) zerolog.Logger {
	level := zerolog.InfoLevel
	for _, raw := range []string{cfg.Log.Level, flagLevel, os.Getenv("LOG_LEVEL")} {
		if raw == "" {
			continue
		}
		if lvl, err := zerolog.ParseLevel(raw); err == nil {
			level = lvl
		}
	}

	var logger zerolog.Logger
	if cfg.Log.Pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger()
}
