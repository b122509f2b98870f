package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"trivia-room-service/internal/domain"
	"trivia-room-service/internal/metrics"
)

type event struct {
	kind     string
	room     string
	except   string
	text     string
	number   int
	total    int
	seconds  int
	players  []domain.PlayerView
	question domain.QuestionView
}

// recordingHub captures every broadcast for assertions.
type recordingHub struct {
	mu     sync.Mutex
	events []event
	groups map[string]map[string]bool
}

func newRecordingHub() *recordingHub {
	return &recordingHub{groups: make(map[string]map[string]bool)}
}

func (h *recordingHub) record(e event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHub) JoinGroup(roomCode, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.groups[roomCode] == nil {
		h.groups[roomCode] = make(map[string]bool)
	}
	h.groups[roomCode][connID] = true
}

func (h *recordingHub) LeaveGroup(roomCode, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.groups[roomCode], connID)
}

func (h *recordingHub) Players(roomCode string, players []domain.PlayerView) {
	h.record(event{kind: "players", room: roomCode, players: players})
}

func (h *recordingHub) Message(roomCode, text string) {
	h.record(event{kind: "message", room: roomCode, text: text})
}

func (h *recordingHub) Chat(roomCode, exceptConnID, sender, text string) {
	h.record(event{kind: "chat", room: roomCode, except: exceptConnID, text: sender + ": " + text})
}

func (h *recordingHub) Delay(roomCode string, seconds int) {
	h.record(event{kind: "delay", room: roomCode, seconds: seconds})
}

func (h *recordingHub) Question(roomCode string, question domain.QuestionView, answerSeconds, number, total int) {
	h.record(event{kind: "question", room: roomCode, question: question, seconds: answerSeconds, number: number, total: total})
}

func (h *recordingHub) Answer(roomCode, answer string) {
	h.record(event{kind: "answer", room: roomCode, text: answer})
}

func (h *recordingHub) last(kind string) (event, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.events) - 1; i >= 0; i-- {
		if h.events[i].kind == kind {
			return h.events[i], true
		}
	}
	return event{}, false
}

func (h *recordingHub) messages(roomCode string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, e := range h.events {
		if e.kind == "message" && e.room == roomCode {
			out = append(out, e.text)
		}
	}
	return out
}

func (h *recordingHub) inGroup(roomCode, connID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.groups[roomCode][connID]
}

// stepper replaces the timed waits: the loop parks at every wait until the test releases it.
type stepper struct {
	waiting chan time.Duration
	release chan struct{}
}

func newStepper() *stepper {
	return &stepper{waiting: make(chan time.Duration), release: make(chan struct{})}
}

func (s *stepper) wait(ctx context.Context, d time.Duration) error {
	select {
	case s.waiting <- d:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-s.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// pause blocks until the loop reaches its next wait and returns the requested duration.
func (s *stepper) pause(t *testing.T) time.Duration {
	t.Helper()
	select {
	case d := <-s.waiting:
		return d
	case <-time.After(5 * time.Second):
		t.Fatalf("game loop never reached a wait")
		return 0
	}
}

func (s *stepper) resume() {
	s.release <- struct{}{}
}

// fixedCatalog hands out its questions in order.
type fixedCatalog struct {
	questions []domain.Question
	err       error
}

func (c fixedCatalog) GetRandomQuestions(_ context.Context, count int) ([]domain.Question, error) {
	if c.err != nil {
		return nil, c.err
	}
	if count > len(c.questions) {
		count = len(c.questions)
	}
	return append([]domain.Question(nil), c.questions[:count]...), nil
}

func (c fixedCatalog) GetQuestionByID(_ context.Context, id int64) (domain.Question, error) {
	for _, q := range c.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return domain.Question{}, domain.ErrQuestionNotFound
}

// mapRooms is a minimal RoomRepository.
type mapRooms struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

func newMapRooms() *mapRooms {
	return &mapRooms{rooms: make(map[string]*Room)}
}

func (m *mapRooms) Add(room *Room) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[room.Code()]; ok {
		return false
	}
	m.rooms[room.Code()] = room
	return true
}

func (m *mapRooms) Get(code string) (*Room, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[code]
	return r, ok
}

func (m *mapRooms) Delete(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, code)
}

func (m *mapRooms) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rooms)
}

func triviaQuestions() []domain.Question {
	return []domain.Question{
		{ID: 11, Category: "Geography", Title: "Capital of Australia?", Answer: "Canberra", AcceptedAnswers: []string{"Canberra"}},
		{ID: 12, Category: "Science", Title: "Symbol for gold?", Answer: "Au", AcceptedAnswers: []string{"Au", "Gold"}},
		{ID: 13, Category: "History", Title: "Year the Berlin Wall fell?", Answer: "1989", AcceptedAnswers: []string{"1989"}},
	}
}

type fixture struct {
	service *Service
	hub     *recordingHub
	rooms   *mapRooms
	steps   *stepper
	metrics *metrics.Metrics
}

func newFixture(t *testing.T, catalog QuestionCatalog, tune func(*Settings)) *fixture {
	t.Helper()
	settings := DefaultSettings()
	settings.QuestionCount = 2
	if tune != nil {
		tune(&settings)
	}
	f := &fixture{
		hub:     newRecordingHub(),
		rooms:   newMapRooms(),
		steps:   newStepper(),
		metrics: metrics.New(),
	}
	f.service = NewService(f.rooms, catalog, f.hub, settings, WithWait(f.steps.wait), WithMetrics(f.metrics))
	t.Cleanup(f.service.Close)
	return f
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("game loop did not exit")
	}
}

func mustCreate(t *testing.T, s *Service, connID, name string) string {
	t.Helper()
	code, _, err := s.CreateRoom(connID, name)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	return code
}

func byName(players []domain.PlayerView) map[string]domain.PlayerView {
	out := make(map[string]domain.PlayerView, len(players))
	for _, p := range players {
		out[p.Name] = p
	}
	return out
}

var errCatalogDown = errors.New("catalog down")
