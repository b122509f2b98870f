package postgres

import (
	"context"
	"fmt"

	"trivia-room-service/internal/domain"

	"github.com/uptrace/bun"
)

type questionRow struct {
	bun.BaseModel `bun:"table:questions,alias:q"`

	ID              int64    `bun:"id,pk,autoincrement"`
	Category        string   `bun:"category,notnull"`
	Title           string   `bun:"title,notnull"`
	Answer          string   `bun:"answer,notnull"`
	AcceptedAnswers []string `bun:"accepted_answers,array,notnull"`
	Difficulty      string   `bun:"difficulty,notnull"`
}

func toRow(q domain.Question) *questionRow {
	accepted := q.AcceptedAnswers
	if accepted == nil {
		accepted = []string{}
	}
	return &questionRow{
		ID:              q.ID,
		Category:        q.Category,
		Title:           q.Title,
		Answer:          q.Answer,
		AcceptedAnswers: accepted,
		Difficulty:      q.Difficulty,
	}
}

func (r *questionRow) toDomain() domain.Question {
	return domain.Question{
		ID:              r.ID,
		Category:        r.Category,
		Title:           r.Title,
		Answer:          r.Answer,
		AcceptedAnswers: r.AcceptedAnswers,
		Difficulty:      r.Difficulty,
	}
}

// QuestionStore is the CRUD side of the catalog, built on bun.
type QuestionStore struct {
	db *bun.DB
}

func NewQuestionStore(db *bun.DB) *QuestionStore {
	return &QuestionStore{db: db}
}

func (s *QuestionStore) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	var rows []questionRow
	if err := s.db.NewSelect().Model(&rows).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	out := make([]domain.Question, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (s *QuestionStore) CreateQuestion(ctx context.Context, q domain.Question) (domain.Question, error) {
	row := toRow(q)
	row.ID = 0
	if _, err := s.db.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
		return domain.Question{}, fmt.Errorf("insert question: %w", err)
	}
	return row.toDomain(), nil
}

// CreateQuestions inserts a batch in one statement; used by the seed command.
func (s *QuestionStore) CreateQuestions(ctx context.Context, questions []domain.Question) (int, error) {
	if len(questions) == 0 {
		return 0, nil
	}
	rows := make([]*questionRow, 0, len(questions))
	for _, q := range questions {
		row := toRow(q)
		row.ID = 0
		rows = append(rows, row)
	}
	if _, err := s.db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return 0, fmt.Errorf("insert questions: %w", err)
	}
	return len(rows), nil
}

func (s *QuestionStore) UpdateQuestion(ctx context.Context, q domain.Question) error {
	res, err := s.db.NewUpdate().Model(toRow(q)).WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	return requireAffected(res)
}

func (s *QuestionStore) DeleteQuestion(ctx context.Context, id int64) error {
	res, err := s.db.NewDelete().Model((*questionRow)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	return requireAffected(res)
}

type rowsAffected interface {
	RowsAffected() (int64, error)
}

func requireAffected(res rowsAffected) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}
