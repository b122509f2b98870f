package main

import (
	"os"

	"trivia-room-service/internal/cli"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()
	if err := cli.Execute(); err != nil {
		log.Error().Err(err).Msg("trivia-room-service exited")
		os.Exit(1)
	}
}
