package memory

import (
	"testing"
	"time"

	"trivia-room-service/internal/app"
)

func TestRoomStoreLifecycle(t *testing.T) {
	store := NewRoomStore()

	room := app.NewRoom("ABC123", time.Now())
	if !store.Add(room) {
		t.Fatalf("expected room added")
	}
	if store.Add(app.NewRoom("ABC123", time.Now())) {
		t.Fatalf("expected duplicate code refused")
	}
	if got, ok := store.Get("ABC123"); !ok || got != room {
		t.Fatalf("expected room present")
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 room, got %d", store.Len())
	}

	store.Delete("ABC123")
	if _, ok := store.Get("ABC123"); ok {
		t.Fatalf("expected room removed")
	}
	store.Delete("ABC123")
}
