package postgres

import (
	"context"
	"errors"
	"fmt"

	"trivia-room-service/internal/domain"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const questionColumns = `id, category, title, answer, accepted_answers, difficulty`

// Catalog reads questions for games straight from Postgres.
type Catalog struct {
	pool *pgxpool.Pool
}

func NewCatalog(pool *pgxpool.Pool) *Catalog {
	return &Catalog{pool: pool}
}

func (c *Catalog) GetRandomQuestions(ctx context.Context, count int) ([]domain.Question, error) {
	rows, err := c.pool.Query(ctx, `SELECT `+questionColumns+` FROM questions ORDER BY random() LIMIT $1`, count)
	if err != nil {
		return nil, fmt.Errorf("query random questions: %w", err)
	}
	defer rows.Close()

	questions := make([]domain.Question, 0, count)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return questions, nil
}

func (c *Catalog) GetQuestionByID(ctx context.Context, id int64) (domain.Question, error) {
	q, err := scanQuestion(c.pool.QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return q, err
}

func scanQuestion(row pgx.Row) (domain.Question, error) {
	var q domain.Question
	if err := row.Scan(&q.ID, &q.Category, &q.Title, &q.Answer, &q.AcceptedAnswers, &q.Difficulty); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Question{}, err
		}
		return domain.Question{}, fmt.Errorf("scan question: %w", err)
	}
	return q, nil
}
