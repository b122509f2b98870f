package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"trivia-room-service/internal/app"
	"trivia-room-service/internal/domain"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuestionCache caches questions in Redis (hash per question) and falls back to the catalog on a miss.
// Layout: HSET trivia:question:{id} category .. title .. answer .. difficulty .. accepted <json array>
type QuestionCache struct {
	client *redis.Client
	loader app.QuestionCatalog
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuestionCache(client *redis.Client, loader app.QuestionCatalog, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionCache) GetRandomQuestions(ctx context.Context, count int) ([]domain.Question, error) {
	questions, err := r.loader.GetRandomQuestions(ctx, count)
	if err != nil {
		return nil, err
	}
	r.store(ctx, questions...)
	return questions, nil
}

func (r *QuestionCache) GetQuestionByID(ctx context.Context, id int64) (domain.Question, error) {
	if q, ok := r.fromCache(ctx, id); ok {
		return q, nil
	}

	result, err, _ := r.sf.Do(strconv.FormatInt(id, 10), func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if q, ok := r.fromCache(ctx, id); ok {
			return q, nil
		}
		q, err := r.loader.GetQuestionByID(ctx, id)
		if err != nil {
			return domain.Question{}, err
		}
		r.store(ctx, q)
		return q, nil
	})
	if err != nil {
		return domain.Question{}, err
	}
	return result.(domain.Question), nil
}

// Invalidate drops a cached question after it was edited or deleted.
func (r *QuestionCache) Invalidate(ctx context.Context, id int64) {
	_ = r.client.Del(ctx, r.key(id)).Err()
}

func (r *QuestionCache) fromCache(ctx context.Context, id int64) (domain.Question, bool) {
	fields, err := r.client.HGetAll(ctx, r.key(id)).Result()
	if err != nil || len(fields) == 0 {
		return domain.Question{}, false
	}
	q := domain.Question{
		ID:         id,
		Category:   fields["category"],
		Title:      fields["title"],
		Answer:     fields["answer"],
		Difficulty: fields["difficulty"],
	}
	if raw := fields["accepted"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &q.AcceptedAnswers); err != nil {
			return domain.Question{}, false
		}
	}
	return q, true
}

func (r *QuestionCache) store(ctx context.Context, questions ...domain.Question) {
	if len(questions) == 0 {
		return
	}
	pipe := r.client.Pipeline()
	for _, q := range questions {
		accepted, err := json.Marshal(q.AcceptedAnswers)
		if err != nil {
			continue
		}
		key := r.key(q.ID)
		pipe.HSet(ctx, key,
			"category", q.Category,
			"title", q.Title,
			"answer", q.Answer,
			"difficulty", q.Difficulty,
			"accepted", string(accepted),
		)
		if ttl := r.ttlWithJitter(); ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
	}
	_, _ = pipe.Exec(ctx)
}

func (r *QuestionCache) key(id int64) string {
	return "trivia:question:" + strconv.FormatInt(id, 10)
}

func (r *QuestionCache) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
