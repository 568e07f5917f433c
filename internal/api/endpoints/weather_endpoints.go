package endpoints

import (
	"fmt"
	"net/http"

	"teamchat-backend/internal/weather"
)

type WeatherEndpoints interface {
	CurrentWeather(http.ResponseWriter, *http.Request) error
}

type weatherEndpoints struct {
	service *weather.Service
}

func NewWeatherEndpoints(service *weather.Service) WeatherEndpoints {
	return &weatherEndpoints{service: service}
}

// CurrentWeather is the stateless one-off lookup: no room or membership
// context, just a city name. Provider failures surface as a generic 502;
// the upstream detail stays in the server log.
func (h *weatherEndpoints) CurrentWeather(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.handleCurrentWeather,
	})
}

func (h *weatherEndpoints) handleCurrentWeather(w http.ResponseWriter, r *http.Request) error {
	city := r.URL.Query().Get("city")
	if city == "" {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "City query parameter is required",
			ErrorLog:   fmt.Errorf("weather request without city parameter"),
		}
	}

	payload, err := h.service.Resolve(r.Context(), city)
	if err != nil {
		return &HTTPError{
			StatusCode: http.StatusBadGateway,
			Message:    "Failed to fetch weather data",
			ErrorLog:   fmt.Errorf("weather lookup for %q: %w", city, err),
		}
	}

	return WriteJSON(w, http.StatusOK, payload)
}
