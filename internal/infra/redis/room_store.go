package redis

import (
	"context"
	"sync"
	"time"

	"trivia-room-service/internal/app"

	"github.com/redis/go-redis/v9"
)

// RoomStore is a Redis-aware implementation of app.RoomRepository.
// Notes:
//   - Rooms live in a local map; game loops and broadcasts stay in-process.
//   - Each live code is reserved with SETNX, so a code still marked in Redis
//     (for example by a previous process that crashed) is not handed out again
//     until its marker expires.
type RoomStore struct {
	client *redis.Client
	ttl    time.Duration
	// opTimeout bounds each marker call; callers hold the registry lock while adding or deleting.
	opTimeout time.Duration
	mu        sync.RWMutex
	rooms     map[string]*app.Room
}

const defaultMarkerTimeout = 250 * time.Millisecond

// NewRoomStore needs a client built with ContextTimeoutEnabled so marker calls honor opTimeout.
func NewRoomStore(client *redis.Client, ttl time.Duration) *RoomStore {
	return &RoomStore{
		client:    client,
		ttl:       ttl,
		opTimeout: defaultMarkerTimeout,
		rooms:     make(map[string]*app.Room),
	}
}

func (s *RoomStore) Add(room *app.Room) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room.Code()]; ok {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.opTimeout)
	defer cancel()
	reserved, err := s.client.SetNX(ctx, s.key(room.Code()), "1", s.ttl).Result()
	if err == nil && !reserved {
		return false
	}
	// a Redis outage must not stop rooms from opening; the local map still prevents collisions
	s.rooms[room.Code()] = room
	return true
}

func (s *RoomStore) Get(code string) (*app.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[code]
	return room, ok
}

func (s *RoomStore) Delete(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[code]; !ok {
		return
	}
	delete(s.rooms, code)
	ctx, cancel := context.WithTimeout(context.Background(), s.opTimeout)
	defer cancel()
	_ = s.client.Del(ctx, s.key(code)).Err()
}

func (s *RoomStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

func (s *RoomStore) key(code string) string {
	return "trivia:room:" + code
}
