package router

import (
	"net/http"

	"teamchat-backend/internal/api"
	"teamchat-backend/internal/api/endpoints"
)

func UtilsRoutes(prefix string) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		utilsEndpoints := endpoints.NewUtilsEndpoints()
		mux.HandleFunc(prefix+"/health", s.MakeHTTPHandleFunc(utilsEndpoints.Health))
		// The bare path is what load balancers probe.
		mux.HandleFunc("/health", s.MakeHTTPHandleFunc(utilsEndpoints.Health))
	}
}
