package memory

import (
	"context"
	"testing"
	"time"

	"trivia-room-service/internal/app"
	"trivia-room-service/internal/domain"
)

func TestQuestionCacheCaches(t *testing.T) {
	loader := &countingLoader{QuestionCatalog: NewCatalog(sampleQuestions())}
	cache := NewQuestionCache(loader, time.Minute)

	if _, err := cache.GetQuestionByID(context.Background(), 1); err != nil {
		t.Fatalf("get question: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := cache.GetQuestionByID(context.Background(), 1); err != nil {
		t.Fatalf("get question 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}

	cache.Invalidate(context.Background(), 1)
	_, _ = cache.GetQuestionByID(context.Background(), 1)
	if loader.calls != 2 {
		t.Fatalf("expected reload after invalidate, loader calls %d", loader.calls)
	}
}

func TestQuestionCacheWarmsFromRandomDraws(t *testing.T) {
	loader := &countingLoader{QuestionCatalog: NewCatalog(sampleQuestions())}
	cache := NewQuestionCache(loader, time.Minute)

	drawn, err := cache.GetRandomQuestions(context.Background(), 1)
	if err != nil || len(drawn) != 1 {
		t.Fatalf("draw: %v %+v", err, drawn)
	}
	if _, err := cache.GetQuestionByID(context.Background(), drawn[0].ID); err != nil {
		t.Fatalf("get drawn: %v", err)
	}
	if loader.calls != 0 {
		t.Fatalf("expected drawn question served from cache, loader calls %d", loader.calls)
	}
}

func TestQuestionCacheDoesNotCacheMisses(t *testing.T) {
	loader := &countingLoader{QuestionCatalog: NewCatalog(nil)}
	cache := NewQuestionCache(loader, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := cache.GetQuestionByID(context.Background(), 7); err != domain.ErrQuestionNotFound {
			t.Fatalf("expected not found, got %v", err)
		}
	}
	if loader.calls != 2 {
		t.Fatalf("expected misses to reach loader, calls %d", loader.calls)
	}
}

type countingLoader struct {
	app.QuestionCatalog
	calls int
}

func (l *countingLoader) GetQuestionByID(ctx context.Context, id int64) (domain.Question, error) {
	l.calls++
	return l.QuestionCatalog.GetQuestionByID(ctx, id)
}
