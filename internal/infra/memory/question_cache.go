package memory

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"trivia-room-service/internal/app"
	"trivia-room-service/internal/domain"

	"golang.org/x/sync/singleflight"
)

// QuestionCache caches catalog lookups by ID with a TTL to avoid repeated DB hits.
// Random draws always go to the backing catalog and warm the cache with what they return.
type QuestionCache struct {
	loader app.QuestionCatalog
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand

	mu    sync.RWMutex
	cache map[int64]cachedQuestion
}

type cachedQuestion struct {
	question  domain.Question
	expiresAt time.Time
}

func NewQuestionCache(loader app.QuestionCatalog, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[int64]cachedQuestion),
	}
}

func (r *QuestionCache) GetRandomQuestions(ctx context.Context, count int) ([]domain.Question, error) {
	questions, err := r.loader.GetRandomQuestions(ctx, count)
	if err != nil {
		return nil, err
	}
	now := r.clock()
	entries := make(map[int64]cachedQuestion, len(questions))
	for _, q := range questions {
		entries[q.ID] = cachedQuestion{question: q, expiresAt: now.Add(r.ttlWithJitter())}
	}
	r.mu.Lock()
	for id, entry := range entries {
		r.cache[id] = entry
	}
	r.mu.Unlock()
	return questions, nil
}

func (r *QuestionCache) GetQuestionByID(ctx context.Context, id int64) (domain.Question, error) {
	if q, ok := r.lookup(id); ok {
		return q, nil
	}

	result, err, _ := r.sf.Do(questionKey(id), func() (interface{}, error) {
		if q, ok := r.lookup(id); ok {
			return q, nil
		}
		q, err := r.loader.GetQuestionByID(ctx, id)
		if err != nil {
			return domain.Question{}, err
		}
		entry := cachedQuestion{question: q, expiresAt: r.clock().Add(r.ttlWithJitter())}
		r.mu.Lock()
		r.cache[id] = entry
		r.mu.Unlock()
		return q, nil
	})
	if err != nil {
		return domain.Question{}, err
	}
	return result.(domain.Question), nil
}

// Invalidate drops a cached question after it was edited or deleted.
func (r *QuestionCache) Invalidate(_ context.Context, id int64) {
	r.mu.Lock()
	delete(r.cache, id)
	r.mu.Unlock()
}

func (r *QuestionCache) lookup(id int64) (domain.Question, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[id]
	if !ok || !entry.expiresAt.After(r.clock()) {
		return domain.Question{}, false
	}
	return entry.question, true
}

func (r *QuestionCache) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

func questionKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
