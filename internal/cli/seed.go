package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"trivia-room-service/internal/config"
	"trivia-room-service/internal/domain"
	"trivia-room-service/internal/infra/postgres"

	"github.com/spf13/cobra"
)

// NewSeedCmd loads a JSON array of questions into Postgres.
func NewSeedCmd(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load questions from a JSON file into the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			logger := newLogger(cfg, opts.logLevel)
			if err := runMigrations(cmd.Context(), cfg, logger); err != nil {
				return err
			}

			questions, err := readQuestions(file)
			if err != nil {
				return err
			}

			db := openBun(cfg.Postgres.URL)
			defer db.Close()
			n, err := postgres.NewQuestionStore(db).CreateQuestions(cmd.Context(), questions)
			if err != nil {
				return err
			}
			logger.Info().Int("questions", n).Str("file", file).Msg("catalog seeded")
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "questions.json", "JSON file with an array of questions")
	return cmd
}

func readQuestions(path string) ([]domain.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var questions []domain.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i, q := range questions {
		if q.Title == "" || len(q.AcceptedAnswers) == 0 {
			return nil, fmt.Errorf("question %d in %s needs a title and accepted answers", i, path)
		}
	}
	return questions, nil
}
