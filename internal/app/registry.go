package app

import (
	"fmt"
	"strings"

	"trivia-room-service/internal/domain"
	"trivia-room-service/internal/scoring"
)

const maxRoomCodeAttempts = 32

// CreateRoom opens a new room with the caller as its first player.
func (s *Service) CreateRoom(connID, playerName string) (string, domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(connID)
	player, err := s.createRoomLocked(connID, playerName)
	if err != nil {
		return "", domain.Player{}, err
	}
	return player.RoomCode, player, nil
}

// JoinRoom adds the caller to the room with the given code, or creates a new room when it is gone.
func (s *Service) JoinRoom(code, connID, playerName string) (domain.Player, error) {
	code = NormalizeRoomCode(code)
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.members[connID]; ok && current == code {
		if p, ok := s.playerLocked(connID); ok {
			return p, nil
		}
	}
	s.removeLocked(connID)

	room, ok := s.rooms.Get(code)
	if !ok {
		return s.createRoomLocked(connID, playerName)
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	if room.closed {
		return s.createRoomLocked(connID, playerName)
	}

	if playerName == "" {
		playerName = defaultPlayerName(len(room.players))
	}
	player := room.addPlayerLocked(connID, playerName, s.now())
	s.members[connID] = room.code
	scoring.RecomputeRanks(room.players)

	s.hub.JoinGroup(room.code, connID)
	s.hub.Players(room.code, room.leaderboardLocked(true))
	s.hub.Message(room.code, fmt.Sprintf("%s has joined.", player.Name))

	s.metrics.ConnectedPlayers.Inc()
	s.log.Info().Str("room", room.code).Str("conn", connID).Str("player", player.Name).Msg("player joined")
	return *player, nil
}

// Disconnect removes the connection's player; an emptied room is destroyed and its game cancelled.
func (s *Service) Disconnect(connID string) {
	s.RemovePlayer(connID)
}

// RemovePlayer is idempotent: unknown connections are ignored.
func (s *Service) RemovePlayer(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(connID)
}

// FindPlayerByConnection returns a copy of the connection's player.
func (s *Service) FindPlayerByConnection(connID string) (domain.Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playerLocked(connID)
}

// RoomExists reports whether a live room has the code.
func (s *Service) RoomExists(code string) bool {
	_, ok := s.lookupRoom(code)
	return ok
}

// SendChat relays text from the connection's player to the rest of the room.
func (s *Service) SendChat(connID, text string) error {
	if text == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	code, ok := s.members[connID]
	if !ok {
		return domain.ErrPlayerNotInRoom
	}
	room, ok := s.rooms.Get(code)
	if !ok {
		return domain.ErrRoomNotFound
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	player := room.playerLocked(connID)
	if player == nil {
		return domain.ErrPlayerNotInRoom
	}
	s.hub.Chat(room.code, connID, player.Name, text)
	return nil
}

// GameState reports the phase of the room's current game.
func (s *Service) GameState(code string) (domain.GameState, error) {
	room, ok := s.lookupRoom(code)
	if !ok {
		return domain.GameNotStarted, domain.ErrRoomNotFound
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.game == nil {
		return domain.GameNotStarted, nil
	}
	return room.game.state, nil
}

func (s *Service) lookupRoom(code string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rooms.Get(NormalizeRoomCode(code))
}

// NormalizeRoomCode maps a typed code onto the generated alphabet's case.
func NormalizeRoomCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *Service) playerLocked(connID string) (domain.Player, bool) {
	code, ok := s.members[connID]
	if !ok {
		return domain.Player{}, false
	}
	room, ok := s.rooms.Get(code)
	if !ok {
		return domain.Player{}, false
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	if p := room.playerLocked(connID); p != nil {
		return *p, true
	}
	return domain.Player{}, false
}

func (s *Service) createRoomLocked(connID, playerName string) (domain.Player, error) {
	var room *Room
	for attempt := 0; attempt < maxRoomCodeAttempts && room == nil; attempt++ {
		code, err := newRoomCode(s.settings.RoomCodeLength)
		if err != nil {
			return domain.Player{}, fmt.Errorf("generate room code: %w", err)
		}
		candidate := NewRoom(code, s.now())
		if s.rooms.Add(candidate) {
			room = candidate
		}
	}
	if room == nil {
		return domain.Player{}, domain.ErrRoomCodeExhausted
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if playerName == "" {
		playerName = defaultPlayerName(0)
	}
	player := room.addPlayerLocked(connID, playerName, s.now())
	s.members[connID] = room.code
	scoring.RecomputeRanks(room.players)

	s.hub.JoinGroup(room.code, connID)
	s.hub.Players(room.code, room.leaderboardLocked(false))
	s.hub.Message(room.code, fmt.Sprintf("%s has created the room.", player.Name))
	s.hub.Message(room.code, fmt.Sprintf("Code : %s", room.code))

	s.metrics.ActiveRooms.Inc()
	s.metrics.ConnectedPlayers.Inc()
	s.log.Info().Str("room", room.code).Str("conn", connID).Str("player", player.Name).Int("live_rooms", s.rooms.Len()).Msg("room created")
	return *player, nil
}

func (s *Service) removeLocked(connID string) {
	code, ok := s.members[connID]
	if !ok {
		return
	}
	delete(s.members, connID)
	s.hub.LeaveGroup(code, connID)

	room, ok := s.rooms.Get(code)
	if !ok {
		return
	}

	room.mu.Lock()
	player := room.removePlayerLocked(connID)
	if player != nil {
		s.metrics.ConnectedPlayers.Dec()
	}
	if len(room.players) == 0 {
		room.closed = true
		cancel := room.cancel
		room.mu.Unlock()
		if cancel != nil {
			cancel()
		}
		s.rooms.Delete(code)
		s.metrics.ActiveRooms.Dec()
		s.log.Info().Str("room", code).Msg("room destroyed")
		return
	}
	if player != nil {
		scoring.RecomputeRanks(room.players)
		s.hub.Players(room.code, room.leaderboardLocked(true))
		s.hub.Message(room.code, fmt.Sprintf("%s has left.", player.Name))
		s.log.Info().Str("room", code).Str("conn", connID).Str("player", player.Name).Msg("player left")
	}
	room.mu.Unlock()
}

func defaultPlayerName(count int) string {
	return fmt.Sprintf("Player %d", count+1)
}

// GameDone returns a channel closed when the room's current game loop exits.
func (s *Service) GameDone(code string) (<-chan struct{}, bool) {
	room, ok := s.lookupRoom(code)
	if !ok {
		return nil, false
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.done == nil {
		return nil, false
	}
	return room.done, true
}
