package weather

import "github.com/prometheus/client_golang/prometheus"

var (
	cacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "teamchat_weather_cache_hits_total",
			Help: "Weather lookups served from cache.",
		},
	)
	cacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "teamchat_weather_cache_misses_total",
			Help: "Weather lookups that required a provider call.",
		},
	)
	providerFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "teamchat_weather_provider_failures_total",
			Help: "Provider calls that failed and could not be served from cache.",
		},
	)
)

func init() {
	prometheus.MustRegister(cacheHits, cacheMisses, providerFailures)
}
