package endpoints

import (
	"fmt"
	"net/http"

	"teamchat-backend/internal/location"
)

type LocationEndpoints interface {
	Countries(http.ResponseWriter, *http.Request) error
	Cities(http.ResponseWriter, *http.Request) error
}

type locationEndpoints struct {
	service *location.Service
}

func NewLocationEndpoints(service *location.Service) LocationEndpoints {
	return &locationEndpoints{service: service}
}

func (h *locationEndpoints) Countries(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: func(w http.ResponseWriter, r *http.Request) error {
			return WriteJSON(w, http.StatusOK, h.service.Countries(r.Context()))
		},
	})
}

// Cities degrades to an empty list when the provider misbehaves; the only
// client error is a missing country parameter.
func (h *locationEndpoints) Cities(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.handleCities,
	})
}

func (h *locationEndpoints) handleCities(w http.ResponseWriter, r *http.Request) error {
	country := r.URL.Query().Get("country")
	if country == "" {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "Country query parameter is required",
			ErrorLog:   fmt.Errorf("cities request without country parameter"),
		}
	}
	return WriteJSON(w, http.StatusOK, h.service.Cities(r.Context(), country))
}
