package websocket

import (
	"sync"

	"teamchat-backend/internal/chat"
)

// Hub tracks live connections and per-room subscriber sets and implements
// chat.Sink. A mutex rather than a channel loop guards the maps: a join
// must be visible to the broadcast that immediately follows it.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*WSClient
	rooms   map[string]map[string]*WSClient
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*WSClient),
		rooms:   make(map[string]map[string]*WSClient),
	}
}

func (h *Hub) Register(cl *WSClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[cl.ID] = cl
	incConnections()
}

// Unregister removes the client from every room subscription and the
// connection registry. Idempotent.
func (h *Hub) Unregister(cl *WSClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl.ID]; !ok {
		return
	}
	delete(h.clients, cl.ID)
	for roomID, subs := range h.rooms {
		if _, ok := subs[cl.ID]; ok {
			delete(subs, cl.ID)
			if len(subs) == 0 {
				delete(h.rooms, roomID)
			}
		}
	}
	close(cl.Message)
	decConnections()
	setRooms(len(h.rooms))
}

func (h *Hub) Subscribe(cl *WSClient, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl.ID]; !ok {
		return
	}
	subs, ok := h.rooms[roomID]
	if !ok {
		subs = make(map[string]*WSClient)
		h.rooms[roomID] = subs
	}
	subs[cl.ID] = cl
	setRooms(len(h.rooms))
}

func (h *Hub) Unsubscribe(connID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(subs, connID)
	if len(subs) == 0 {
		delete(h.rooms, roomID)
	}
	setRooms(len(h.rooms))
}

func (h *Hub) SendToConn(connID string, evt chat.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cl, ok := h.clients[connID]
	if !ok {
		return
	}
	h.deliver(cl, evt)
}

func (h *Hub) SendToRoom(roomID string, evt chat.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delivered := 0
	for _, cl := range h.rooms[roomID] {
		if h.deliver(cl, evt) {
			delivered++
		}
	}
	if delivered > 0 {
		addDelivered(delivered)
	}
}

func (h *Hub) SendToRoomExcept(roomID, exceptConnID string, evt chat.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delivered := 0
	for id, cl := range h.rooms[roomID] {
		if id == exceptConnID {
			continue
		}
		if h.deliver(cl, evt) {
			delivered++
		}
	}
	if delivered > 0 {
		addDelivered(delivered)
	}
}

// deliver is best-effort: a client whose buffer is full is dropped rather
// than allowed to stall the room. Caller holds h.mu.
func (h *Hub) deliver(cl *WSClient, evt chat.Event) bool {
	select {
	case cl.Message <- outboundEvent{Event: evt.Name, Data: evt.Payload}:
		return true
	default:
		h.drop(cl)
		return false
	}
}

// drop removes a slow consumer. Caller holds h.mu.
func (h *Hub) drop(cl *WSClient) {
	if _, ok := h.clients[cl.ID]; !ok {
		return
	}
	delete(h.clients, cl.ID)
	for roomID, subs := range h.rooms {
		if _, ok := subs[cl.ID]; ok {
			delete(subs, cl.ID)
			if len(subs) == 0 {
				delete(h.rooms, roomID)
			}
		}
	}
	close(cl.Message)
	decConnections()
	setRooms(len(h.rooms))
}
