package http

import (
	"sync"

	"trivia-room-service/internal/domain"

	"github.com/rs/zerolog"
)

const sendBuffer = 64

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type messagePayload struct {
	Sender string `json:"sender,omitempty"`
	Text   string `json:"text"`
}

type playersPayload struct {
	Players []domain.PlayerView `json:"players"`
}

type delayPayload struct {
	Seconds int `json:"seconds"`
}

type questionPayload struct {
	Question      domain.QuestionView `json:"question"`
	AnswerSeconds int                 `json:"answerSeconds"`
	Number        int                 `json:"number"`
	Total         int                 `json:"total"`
}

type answerPayload struct {
	Answer string `json:"answer"`
}

type answerResultPayload struct {
	QuestionID int64          `json:"questionId"`
	Verdict    domain.Verdict `json:"verdict"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type client struct {
	id   string
	send chan outboundMessage[any]
}

// Hub fans room events out to websocket clients. Sends never block: a client whose
// buffer is full misses the message.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	groups  map[string]map[string]struct{}
	log     zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*client),
		groups:  make(map[string]map[string]struct{}),
		log:     logger,
	}
}

func (h *Hub) register(connID string) *client {
	c := &client{id: connID, send: make(chan outboundMessage[any], sendBuffer)}
	h.mu.Lock()
	h.clients[connID] = c
	h.mu.Unlock()
	return c
}

// unregister drops the client and closes its send channel so the writer exits.
func (h *Hub) unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[connID]
	if !ok {
		return
	}
	delete(h.clients, connID)
	for code, members := range h.groups {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.groups, code)
		}
	}
	close(c.send)
}

func (h *Hub) JoinGroup(roomCode, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.groups[roomCode]
	if !ok {
		members = make(map[string]struct{})
		h.groups[roomCode] = members
	}
	members[connID] = struct{}{}
}

func (h *Hub) LeaveGroup(roomCode, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.groups[roomCode]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.groups, roomCode)
		}
	}
}

func (h *Hub) Players(roomCode string, players []domain.PlayerView) {
	h.toGroup(roomCode, "", "players", playersPayload{Players: players})
}

func (h *Hub) Message(roomCode, text string) {
	h.toGroup(roomCode, "", "message", messagePayload{Text: text})
}

func (h *Hub) Chat(roomCode, exceptConnID, sender, text string) {
	h.toGroup(roomCode, exceptConnID, "message", messagePayload{Sender: sender, Text: text})
}

func (h *Hub) Delay(roomCode string, seconds int) {
	h.toGroup(roomCode, "", "delay", delayPayload{Seconds: seconds})
}

func (h *Hub) Question(roomCode string, question domain.QuestionView, answerSeconds, number, total int) {
	h.toGroup(roomCode, "", "question", questionPayload{
		Question:      question,
		AnswerSeconds: answerSeconds,
		Number:        number,
		Total:         total,
	})
}

func (h *Hub) Answer(roomCode, answer string) {
	h.toGroup(roomCode, "", "answer", answerPayload{Answer: answer})
}

// AnswerResult tells only the submitting connection how its answer was judged.
func (h *Hub) AnswerResult(connID string, questionID int64, verdict domain.Verdict) {
	h.Send(connID, "answerResult", answerResultPayload{QuestionID: questionID, Verdict: verdict})
}

// Send delivers one message to a single connection.
func (h *Hub) Send(connID, typ string, payload any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := h.clients[connID]; ok {
		h.deliver(c, outboundMessage[any]{Type: typ, Payload: payload})
	}
}

func (h *Hub) toGroup(roomCode, exceptConnID, typ string, payload any) {
	msg := outboundMessage[any]{Type: typ, Payload: payload}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for connID := range h.groups[roomCode] {
		if connID == exceptConnID {
			continue
		}
		if c, ok := h.clients[connID]; ok {
			h.deliver(c, msg)
		}
	}
}

// deliver must be called with h.mu held; unregister closes send under the write lock.
func (h *Hub) deliver(c *client, msg outboundMessage[any]) {
	select {
	case c.send <- msg:
	default:
		h.log.Warn().Str("conn", c.id).Str("type", msg.Type).Msg("client buffer full, dropping message")
	}
}
