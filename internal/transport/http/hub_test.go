package http

import (
	"testing"

	"trivia-room-service/internal/domain"

	"github.com/rs/zerolog"
)

func drain(c *client) []outboundMessage[any] {
	var out []outboundMessage[any]
	for {
		select {
		case msg := <-c.send:
			out = append(out, msg)
		default:
			return out
		}
	}
}

func TestHubRoutesByGroup(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	alice := hub.register("a")
	bob := hub.register("b")
	eve := hub.register("e")
	hub.JoinGroup("ROOM01", "a")
	hub.JoinGroup("ROOM01", "b")
	hub.JoinGroup("ROOM02", "e")

	hub.Message("ROOM01", "hello")
	hub.Chat("ROOM01", "a", "Alice", "hi")
	hub.AnswerResult("b", 7, domain.VerdictAlmostRight)

	if got := drain(alice); len(got) != 1 || got[0].Type != "message" {
		t.Fatalf("alice should only see the room message, got %+v", got)
	}
	got := drain(bob)
	if len(got) != 3 || got[1].Payload.(messagePayload).Sender != "Alice" || got[2].Type != "answerResult" {
		t.Fatalf("unexpected bob messages %+v", got)
	}
	if got := drain(eve); len(got) != 0 {
		t.Fatalf("eve is in another room, got %+v", got)
	}

	hub.LeaveGroup("ROOM01", "b")
	hub.Delay("ROOM01", 5)
	if got := drain(bob); len(got) != 0 {
		t.Fatalf("bob left the group, got %+v", got)
	}
}

func TestHubDropsWhenBufferFull(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	c := hub.register("a")
	hub.JoinGroup("ROOM01", "a")

	for i := 0; i < sendBuffer+10; i++ {
		hub.Answer("ROOM01", "Canberra")
	}
	if got := len(drain(c)); got != sendBuffer {
		t.Fatalf("expected %d buffered messages, got %d", sendBuffer, got)
	}

	hub.unregister("a")
	hub.unregister("a")
	hub.Message("ROOM01", "after")
	if _, ok := <-c.send; ok {
		t.Fatalf("send channel should be closed after unregister")
	}
}
