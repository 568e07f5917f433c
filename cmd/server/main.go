package main

import (
	"teamchat-backend/internal/api"
	"teamchat-backend/internal/api/router"
	"teamchat-backend/internal/chat"
	"teamchat-backend/internal/env"
	"teamchat-backend/internal/location"
	"teamchat-backend/internal/queue"
	"teamchat-backend/internal/weather"
	"teamchat-backend/internal/websocket"

	"github.com/go-redis/redis/v8"
)

func main() {
	queueManager := queue.NewRequestQueueManager(10, 10)

	weatherClient := weather.NewClient(
		env.Get(env.WeatherAPIKey),
		env.Get(env.WeatherAPIBaseURL),
		env.Get(env.WeatherGeoBaseURL),
	)
	var store weather.Store = weather.NewMemoryStore()
	if addr := env.Get(env.WeatherRedisURL); addr != "" {
		store = weather.NewRedisStore(redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: env.Get(env.WeatherRedisPass),
			DB:       0,
		}))
	}
	weatherService := weather.NewService(weatherClient, store)

	locationService := location.NewService("", "")

	hub := websocket.NewHub()
	chatService := chat.New(chat.NewRegistry(), hub, weatherService)
	handler := websocket.NewHandler(hub, chatService)

	listenAddr := ":" + env.GetOrDefault(env.Port, "4000")
	server := api.NewAPIServer(
		listenAddr,
		queueManager,
		weatherService,
		locationService,
		handler,
		router.UtilsRoutes("/api/v1"),
		router.WeatherRoutes("/api/v1"),
		router.LocationRoutes("/api/v1"),
		router.ChatWebsocketRoutes("/api/v1"),
	)

	server.Run()
}
