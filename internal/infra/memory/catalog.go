package memory

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"trivia-room-service/internal/domain"
)

// Catalog is a question catalog backed by a map (useful for tests/demos and database-less runs).
type Catalog struct {
	mu        sync.Mutex
	questions map[int64]domain.Question
	nextID    int64
	rnd       *rand.Rand
}

// NewCatalog seeds the catalog; questions without an ID get the next free one.
func NewCatalog(questions []domain.Question) *Catalog {
	c := &Catalog{
		questions: make(map[int64]domain.Question, len(questions)),
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, q := range questions {
		if q.ID > c.nextID {
			c.nextID = q.ID
		}
	}
	for _, q := range questions {
		if q.ID == 0 {
			c.nextID++
			q.ID = c.nextID
		}
		c.questions[q.ID] = q
	}
	return c
}

func (c *Catalog) GetRandomQuestions(_ context.Context, count int) ([]domain.Question, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	all := make([]domain.Question, 0, len(c.questions))
	for _, q := range c.questions {
		all = append(all, q)
	}
	// map order is not random enough to rely on
	c.rnd.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	if count < len(all) {
		all = all[:count]
	}
	return all, nil
}

func (c *Catalog) GetQuestionByID(_ context.Context, id int64) (domain.Question, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q, ok := c.questions[id]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return q, nil
}

func (c *Catalog) ListQuestions(_ context.Context) ([]domain.Question, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Question, 0, len(c.questions))
	for _, q := range c.questions {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *Catalog) CreateQuestion(_ context.Context, q domain.Question) (domain.Question, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	q.ID = c.nextID
	c.questions[q.ID] = q
	return q, nil
}

func (c *Catalog) UpdateQuestion(_ context.Context, q domain.Question) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.questions[q.ID]; !ok {
		return domain.ErrQuestionNotFound
	}
	c.questions[q.ID] = q
	return nil
}

func (c *Catalog) DeleteQuestion(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.questions[id]; !ok {
		return domain.ErrQuestionNotFound
	}
	delete(c.questions, id)
	return nil
}
