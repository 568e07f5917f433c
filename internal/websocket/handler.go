package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"teamchat-backend/internal/chat"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader websocket.Upgrader

func init() {
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
}

// Handler upgrades connections and routes inbound events to the chat
// service. Events are handled one at a time per connection; remote weather
// calls made while handling one event only delay that connection's next
// event, never other connections.
type Handler struct {
	hub  *Hub
	chat *chat.Service
}

func NewHandler(hub *Hub, chatService *chat.Service) *Handler {
	return &Handler{
		hub:  hub,
		chat: chatService,
	}
}

// Serve upgrades the request to a websocket session and starts the
// connection's pump goroutines.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		log.Printf("[WS]: upgrade failed: %v", err)
		return nil
	}

	cl := &WSClient{
		Conn:    conn,
		Message: make(chan outboundEvent, 16),
		ID:      uuid.NewString(),
		done:    make(chan struct{}),
	}

	h.hub.Register(cl)

	go cl.keepAlive()
	go cl.writeMessage()
	go cl.readMessage(h)
	return nil
}

// dispatch decodes one inbound envelope and invokes the matching chat
// operation. Malformed or unknown events are counted and dropped with no
// response to the client.
func (h *Handler) dispatch(cl *WSClient, raw []byte) {
	var evt inboundEvent
	if err := json.Unmarshal(raw, &evt); err != nil {
		h.dropEvent(cl, "malformed envelope", err)
		return
	}

	// Connection-scoped work uses a background context: a disconnect must
	// not cancel an aggregation already broadcasting to the room.
	ctx := context.Background()

	switch evt.Event {
	case eventJoinRoom:
		var d joinRoomData
		if err := json.Unmarshal(evt.Data, &d); err != nil {
			h.dropEvent(cl, evt.Event, err)
			return
		}
		if d.RoomID == "" {
			return
		}
		h.hub.Subscribe(cl, d.RoomID)
		h.chat.Join(ctx, cl.ID, d.RoomID, d.Username, d.City, d.Country)

	case eventLeaveRoom:
		var d roomData
		if err := json.Unmarshal(evt.Data, &d); err != nil {
			h.dropEvent(cl, evt.Event, err)
			return
		}
		if d.RoomID == "" {
			return
		}
		// Unsubscribe first so the departing connection sees neither the
		// member-left notice nor the refreshed roster.
		h.hub.Unsubscribe(cl.ID, d.RoomID)
		h.chat.Leave(ctx, cl.ID, d.RoomID)

	case eventSendMessage:
		var d sendMessageData
		if err := json.Unmarshal(evt.Data, &d); err != nil {
			h.dropEvent(cl, evt.Event, err)
			return
		}
		h.chat.Send(cl.ID, d.RoomID, d.Content)

	case eventRequestTeamWeather:
		var d roomData
		if err := json.Unmarshal(evt.Data, &d); err != nil {
			h.dropEvent(cl, evt.Event, err)
			return
		}
		if d.RoomID == "" {
			return
		}
		h.chat.EmitAggregate(ctx, d.RoomID)

	default:
		h.dropEvent(cl, evt.Event, nil)
	}
}

func (h *Handler) disconnect(cl *WSClient) {
	h.chat.Disconnect(context.Background(), cl.ID)
}

// dropEvent keeps the wire silent but leaves a trail for operators.
func (h *Handler) dropEvent(cl *WSClient, event string, err error) {
	incDroppedEvents()
	if err != nil {
		log.Printf("[WS]: dropping %q from client %s: %v", event, cl.ID, err)
		return
	}
	log.Printf("[WS]: dropping unknown event %q from client %s", event, cl.ID)
}
