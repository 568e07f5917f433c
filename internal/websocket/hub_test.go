package websocket

import (
	"testing"

	"teamchat-backend/internal/chat"
)

func newTestClient(id string, buffer int) *WSClient {
	return &WSClient{
		ID:      id,
		Message: make(chan outboundEvent, buffer),
		done:    make(chan struct{}),
	}
}

func drain(cl *WSClient) []outboundEvent {
	var out []outboundEvent
	for {
		select {
		case evt := <-cl.Message:
			out = append(out, evt)
		default:
			return out
		}
	}
}

func TestHubRoomDelivery(t *testing.T) {
	hub := NewHub()
	a := newTestClient("a", 4)
	b := newTestClient("b", 4)
	hub.Register(a)
	hub.Register(b)
	hub.Subscribe(a, "general")
	hub.Subscribe(b, "general")

	hub.SendToRoom("general", chat.Event{Name: "message", Payload: "hello"})

	if got := drain(a); len(got) != 1 || got[0].Event != "message" {
		t.Fatalf("client a should receive the broadcast, got %v", got)
	}
	if got := drain(b); len(got) != 1 {
		t.Fatalf("client b should receive the broadcast, got %v", got)
	}
}

func TestHubSendToRoomExceptSkipsSubject(t *testing.T) {
	hub := NewHub()
	a := newTestClient("a", 4)
	b := newTestClient("b", 4)
	hub.Register(a)
	hub.Register(b)
	hub.Subscribe(a, "general")
	hub.Subscribe(b, "general")

	hub.SendToRoomExcept("general", "a", chat.Event{Name: "userJoined"})

	if got := drain(a); len(got) != 0 {
		t.Fatalf("excluded client must not receive the event, got %v", got)
	}
	if got := drain(b); len(got) != 1 {
		t.Fatalf("client b should receive the event, got %v", got)
	}
}

func TestHubSendToConnTargetsOneClient(t *testing.T) {
	hub := NewHub()
	a := newTestClient("a", 4)
	b := newTestClient("b", 4)
	hub.Register(a)
	hub.Register(b)

	hub.SendToConn("a", chat.Event{Name: "roomHistory"})

	if got := drain(a); len(got) != 1 || got[0].Event != "roomHistory" {
		t.Fatalf("client a should receive the event, got %v", got)
	}
	if got := drain(b); len(got) != 0 {
		t.Fatalf("client b must not receive the event, got %v", got)
	}
}

func TestHubUnregisterIsIdempotent(t *testing.T) {
	hub := NewHub()
	a := newTestClient("a", 4)
	hub.Register(a)
	hub.Subscribe(a, "general")

	hub.Unregister(a)
	hub.Unregister(a) // must not close the channel twice

	hub.SendToRoom("general", chat.Event{Name: "message"})
	hub.SendToConn("a", chat.Event{Name: "message"})
}

func TestHubDropsSlowConsumer(t *testing.T) {
	hub := NewHub()
	slow := newTestClient("slow", 1)
	healthy := newTestClient("ok", 4)
	hub.Register(slow)
	hub.Register(healthy)
	hub.Subscribe(slow, "general")
	hub.Subscribe(healthy, "general")

	hub.SendToRoom("general", chat.Event{Name: "message", Payload: "one"})
	hub.SendToRoom("general", chat.Event{Name: "message", Payload: "two"})

	if got := drain(healthy); len(got) != 2 {
		t.Fatalf("healthy client should get both events, got %d", len(got))
	}

	// The slow client's buffer held one event; the second send dropped it.
	hub.mu.RLock()
	_, stillThere := hub.clients["slow"]
	hub.mu.RUnlock()
	if stillThere {
		t.Fatal("slow consumer should have been dropped")
	}
}
