package http

import (
	"encoding/json"
	"net/http"

	"trivia-room-service/internal/app"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type WSHandler struct {
	service  *app.Service
	hub      *Hub
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.Service, hub *Hub, logger zerolog.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		hub:     hub,
		log:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type createRoomRequest struct {
	Name string `json:"name"`
}

type joinRoomRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type answerRequest struct {
	QuestionID int64  `json:"questionId"`
	Answer     string `json:"answer"`
}

type chatRequest struct {
	Text string `json:"text"`
}

type roomCodeRequest struct {
	Code string `json:"code"`
}

type roomJoinedPayload struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type roomExistsPayload struct {
	Code   string `json:"code"`
	Exists bool   `json:"exists"`
}

// ServeWS upgrades the request, assigns the connection an id and dispatches its messages
// until the socket closes, at which point the player leaves their room.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}

	connID := uuid.NewString()
	c := h.hub.register(connID)
	logger := h.log.With().Str("conn", connID).Logger()
	logger.Debug().Msg("ws connected")

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range c.send {
			if err := conn.WriteJSON(msg); err != nil {
				logger.Debug().Err(err).Msg("ws write failed")
				_ = conn.Close()
				// keep draining so unregister can close the channel
				for range c.send {
				}
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.dispatch(r, connID, inbound, logger)
	}

	h.service.Disconnect(connID)
	h.hub.unregister(connID)
	<-writerDone
	_ = conn.Close()
	logger.Debug().Msg("ws disconnected")
}

func (h *WSHandler) dispatch(r *http.Request, connID string, inbound inboundMessage, logger zerolog.Logger) {
	switch inbound.Type {
	case "createRoom":
		var req createRoomRequest
		if !h.decode(connID, inbound, &req) {
			return
		}
		code, player, err := h.service.CreateRoom(connID, req.Name)
		if err != nil {
			h.sendError(connID, err.Error())
			return
		}
		h.hub.Send(connID, "roomJoined", roomJoinedPayload{Code: code, Name: player.Name})

	case "joinRoom":
		var req joinRoomRequest
		if !h.decode(connID, inbound, &req) {
			return
		}
		player, err := h.service.JoinRoom(req.Code, connID, req.Name)
		if err != nil {
			h.sendError(connID, err.Error())
			return
		}
		h.hub.Send(connID, "roomJoined", roomJoinedPayload{Code: player.RoomCode, Name: player.Name})

	case "startGame":
		player, ok := h.service.FindPlayerByConnection(connID)
		if !ok {
			h.sendError(connID, "not in a room")
			return
		}
		if err := h.service.StartGame(r.Context(), player.RoomCode); err != nil {
			h.sendError(connID, err.Error())
		}

	case "answer":
		var req answerRequest
		if !h.decode(connID, inbound, &req) {
			return
		}
		player, ok := h.service.FindPlayerByConnection(connID)
		if !ok {
			logger.Debug().Msg("answer from connection without a room")
			return
		}
		verdict, err := h.service.SubmitAnswer(player.RoomCode, req.QuestionID, req.Answer, connID)
		if err != nil {
			logger.Debug().Err(err).Int64("question", req.QuestionID).Msg("answer rejected")
			return
		}
		h.hub.AnswerResult(connID, req.QuestionID, verdict)

	case "chat":
		var req chatRequest
		if !h.decode(connID, inbound, &req) {
			return
		}
		if err := h.service.SendChat(connID, req.Text); err != nil {
			h.sendError(connID, err.Error())
		}

	case "roomExists":
		var req roomCodeRequest
		if !h.decode(connID, inbound, &req) {
			return
		}
		h.hub.Send(connID, "roomExists", roomExistsPayload{Code: req.Code, Exists: h.service.RoomExists(req.Code)})

	default:
		h.sendError(connID, "unsupported message type")
	}
}

func (h *WSHandler) decode(connID string, inbound inboundMessage, dst any) bool {
	if len(inbound.Payload) == 0 {
		return true
	}
	if err := json.Unmarshal(inbound.Payload, dst); err != nil {
		h.sendError(connID, "invalid "+inbound.Type+" payload")
		return false
	}
	return true
}

func (h *WSHandler) sendError(connID, message string) {
	h.hub.Send(connID, "error", errorPayload{Message: message})
}
