package env

import (
	"log"
	"os"
)

const (
	Port              = "PORT"
	WeatherAPIKey     = "WEATHER_API_KEY"
	WeatherAPIBaseURL = "WEATHER_API_BASE_URL"
	WeatherGeoBaseURL = "WEATHER_GEO_BASE_URL"
	WeatherRedisURL   = "WEATHER_REDIS_URL"
	WeatherRedisPass  = "WEATHER_REDIS_PASS"
	WebUrl            = "WEB_URL"
)

func init() {
	// The chat core keeps working without a weather credential, so this is
	// a warning rather than a hard requirement.
	if os.Getenv(WeatherAPIKey) == "" {
		log.Printf("[ENV]: %s is not set, weather lookups will be unavailable", WeatherAPIKey)
	}
}

func Get(key string) string {
	return os.Getenv(key)
}

func GetOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func MustGet(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic("env: required environment variable not set: " + key)
	}
	return val
}
