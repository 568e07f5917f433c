package api

import (
	"fmt"
	"net/http"

	"teamchat-backend/internal/location"
	"teamchat-backend/internal/queue"
	"teamchat-backend/internal/weather"
	"teamchat-backend/internal/websocket"

	"github.com/prometheus/client_golang/prometheus"
)

type RouteRegistrar func(mux *http.ServeMux, s *APIServer)

type APIServer struct {
	listenAddr          string
	requestQueueManager *queue.RequestQueueManager
	weather             *weather.Service
	location            *location.Service
	wsHandler           *websocket.Handler
	routeRegistrars     []RouteRegistrar
	metrics             *metrics
}

func NewAPIServer(
	listenAddr string,
	rqm *queue.RequestQueueManager,
	weatherService *weather.Service,
	locationService *location.Service,
	wsHandler *websocket.Handler,
	registrars ...RouteRegistrar,
) *APIServer {
	return &APIServer{
		listenAddr:          listenAddr,
		requestQueueManager: rqm,
		weather:             weatherService,
		location:            locationService,
		wsHandler:           wsHandler,
		routeRegistrars:     registrars,
		metrics:             newMetrics(prometheus.DefaultRegisterer, listenAddr, rqm),
	}
}

func (s *APIServer) Run() {
	mux := http.NewServeMux()

	for _, reg := range s.routeRegistrars {
		reg(mux, s)
	}

	mux.Handle("/metrics", s.metrics.metricsHandler())

	fmt.Printf("Server listening on http://localhost%s\n", s.listenAddr)

	if err := http.ListenAndServe(s.listenAddr, s.metrics.instrument(mux)); err != nil {
		fmt.Printf("server stopped: %v\n", err)
	}
}

func (s *APIServer) Weather() *weather.Service {
	return s.weather
}

func (s *APIServer) Location() *location.Service {
	return s.location
}

func (s *APIServer) WSHandler() *websocket.Handler {
	return s.wsHandler
}
