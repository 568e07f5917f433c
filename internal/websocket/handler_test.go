package websocket

import (
	"context"
	"testing"

	"teamchat-backend/internal/chat"
	"teamchat-backend/internal/weather"
)

type stubResolver struct{}

func (stubResolver) Resolve(ctx context.Context, city string) (weather.Payload, error) {
	temp := 18.5
	return weather.Payload{City: city, Temperature: &temp, Condition: "Clouds"}, nil
}

func newTestHandler() (*Handler, *Hub) {
	hub := NewHub()
	svc := chat.New(chat.NewRegistry(), hub, stubResolver{})
	return NewHandler(hub, svc), hub
}

func eventNames(evts []outboundEvent) []string {
	names := make([]string, len(evts))
	for i, evt := range evts {
		names[i] = evt.Event
	}
	return names
}

func TestDispatchJoinDeliversHistoryAndRoster(t *testing.T) {
	h, hub := newTestHandler()
	cl := newTestClient("c1", 8)
	hub.Register(cl)

	h.dispatch(cl, []byte(`{"event":"joinRoom","data":{"roomId":"general","username":"ada","city":"London","country":"GB"}}`))

	got := eventNames(drain(cl))
	want := []string{chat.EventRoomHistory, chat.EventUsersWeatherUpdate}
	if len(got) != len(want) {
		t.Fatalf("got events %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got events %v, want %v", got, want)
		}
	}
}

func TestDispatchMessageReachesWholeRoom(t *testing.T) {
	h, hub := newTestHandler()
	a := newTestClient("a", 8)
	b := newTestClient("b", 8)
	hub.Register(a)
	hub.Register(b)

	h.dispatch(a, []byte(`{"event":"joinRoom","data":{"roomId":"general","username":"ada","city":"London"}}`))
	h.dispatch(b, []byte(`{"event":"joinRoom","data":{"roomId":"general","username":"bob","city":"Paris"}}`))
	drain(a)
	drain(b)

	h.dispatch(a, []byte(`{"event":"sendMessage","data":{"roomId":"general","content":"hi all"}}`))

	for _, cl := range []*WSClient{a, b} {
		got := drain(cl)
		if len(got) != 1 || got[0].Event != chat.EventMessage {
			t.Fatalf("client %s: got %v, want one %q event", cl.ID, eventNames(got), chat.EventMessage)
		}
	}
}

func TestDispatchLeaveSilencesDepartingConnection(t *testing.T) {
	h, hub := newTestHandler()
	a := newTestClient("a", 8)
	b := newTestClient("b", 8)
	hub.Register(a)
	hub.Register(b)

	h.dispatch(a, []byte(`{"event":"joinRoom","data":{"roomId":"general","username":"ada","city":"London"}}`))
	h.dispatch(b, []byte(`{"event":"joinRoom","data":{"roomId":"general","username":"bob","city":"Paris"}}`))
	drain(a)
	drain(b)

	h.dispatch(a, []byte(`{"event":"leaveRoom","data":{"roomId":"general"}}`))

	if got := drain(a); len(got) != 0 {
		t.Fatalf("departing client must see nothing, got %v", eventNames(got))
	}
	got := eventNames(drain(b))
	want := []string{chat.EventUserLeft, chat.EventUsersWeatherUpdate}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("remaining client got %v, want %v", got, want)
	}
}

func TestDispatchMalformedEventIsSilent(t *testing.T) {
	h, hub := newTestHandler()
	cl := newTestClient("c1", 8)
	hub.Register(cl)

	h.dispatch(cl, []byte(`not json`))
	h.dispatch(cl, []byte(`{"event":"unknownEvent","data":{}}`))
	h.dispatch(cl, []byte(`{"event":"joinRoom","data":{"roomId":""}}`))

	if got := drain(cl); len(got) != 0 {
		t.Fatalf("client must receive nothing, got %v", eventNames(got))
	}
}

func TestDispatchTeamWeatherRequest(t *testing.T) {
	h, hub := newTestHandler()
	cl := newTestClient("c1", 8)
	hub.Register(cl)

	h.dispatch(cl, []byte(`{"event":"joinRoom","data":{"roomId":"general","username":"ada","city":"London"}}`))
	drain(cl)

	h.dispatch(cl, []byte(`{"event":"requestTeamWeather","data":{"roomId":"general"}}`))

	got := drain(cl)
	if len(got) != 1 || got[0].Event != chat.EventUsersWeatherUpdate {
		t.Fatalf("got %v, want one %q event", eventNames(got), chat.EventUsersWeatherUpdate)
	}
}
