package router

import (
	"net/http"

	"teamchat-backend/internal/api"
	"teamchat-backend/internal/api/endpoints"
)

func ChatWebsocketRoutes(prefix string) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		chatEndpoints := endpoints.NewChatEndpoints(s.WSHandler())
		mux.HandleFunc(prefix+"/ws", s.MakeHTTPHandleFunc(chatEndpoints.Websocket))
	}
}
