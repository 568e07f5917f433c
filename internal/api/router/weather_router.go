package router

import (
	"net/http"

	"teamchat-backend/internal/api"
	"teamchat-backend/internal/api/endpoints"
)

func WeatherRoutes(prefix string) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		weatherEndpoints := endpoints.NewWeatherEndpoints(s.Weather())
		mux.HandleFunc(prefix+"/weather", s.MakeHTTPHandleFunc(weatherEndpoints.CurrentWeather))
	}
}

func LocationRoutes(prefix string) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		locationEndpoints := endpoints.NewLocationEndpoints(s.Location())
		mux.HandleFunc(prefix+"/locations/countries", s.MakeHTTPHandleFunc(locationEndpoints.Countries))
		mux.HandleFunc(prefix+"/locations/cities", s.MakeHTTPHandleFunc(locationEndpoints.Cities))
	}
}
