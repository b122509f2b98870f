package memory

import (
	"context"
	"testing"

	"trivia-room-service/internal/domain"
)

func TestCatalogRandomQuestionsAreDistinctAndBounded(t *testing.T) {
	catalog := NewCatalog(sampleQuestions())
	ctx := context.Background()

	got, err := catalog.GetRandomQuestions(ctx, 2)
	if err != nil {
		t.Fatalf("random: %v", err)
	}
	if len(got) != 2 || got[0].ID == got[1].ID {
		t.Fatalf("expected 2 distinct questions, got %+v", got)
	}

	all, _ := catalog.GetRandomQuestions(ctx, 50)
	if len(all) != 3 {
		t.Fatalf("expected whole catalog when asking for more, got %d", len(all))
	}
}

func TestCatalogCRUD(t *testing.T) {
	catalog := NewCatalog(sampleQuestions())
	ctx := context.Background()

	created, err := catalog.CreateQuestion(ctx, domain.Question{Title: "Largest ocean?", Answer: "Pacific", AcceptedAnswers: []string{"Pacific"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 4 {
		t.Fatalf("expected id 4, got %d", created.ID)
	}

	created.Difficulty = "easy"
	if err := catalog.UpdateQuestion(ctx, created); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := catalog.GetQuestionByID(ctx, created.ID)
	if err != nil || got.Difficulty != "easy" {
		t.Fatalf("expected updated question, got %+v err=%v", got, err)
	}

	if err := catalog.DeleteQuestion(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := catalog.GetQuestionByID(ctx, created.ID); err != domain.ErrQuestionNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := catalog.UpdateQuestion(ctx, domain.Question{ID: 99}); err != domain.ErrQuestionNotFound {
		t.Fatalf("expected not found on update, got %v", err)
	}

	list, _ := catalog.ListQuestions(ctx)
	if len(list) != 3 || list[0].ID != 1 {
		t.Fatalf("expected sorted list of 3, got %+v", list)
	}
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{ID: 1, Category: "Geography", Title: "Capital of France?", Answer: "Paris", AcceptedAnswers: []string{"Paris"}},
		{ID: 2, Category: "Science", Title: "Chemical symbol for gold?", Answer: "Au", AcceptedAnswers: []string{"Au"}},
		{Category: "History", Title: "First man on the moon?", Answer: "Neil Armstrong", AcceptedAnswers: []string{"Neil Armstrong", "Armstrong"}},
	}
}
