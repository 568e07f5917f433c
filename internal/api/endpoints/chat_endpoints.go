package endpoints

import (
	"net/http"

	"teamchat-backend/internal/websocket"
)

type ChatEndpoints interface {
	Websocket(http.ResponseWriter, *http.Request) error
}

type chatEndpoints struct {
	handler *websocket.Handler
}

func NewChatEndpoints(handler *websocket.Handler) ChatEndpoints {
	return &chatEndpoints{handler: handler}
}

func (h *chatEndpoints) Websocket(w http.ResponseWriter, r *http.Request) error {
	return h.handler.Serve(w, r)
}
