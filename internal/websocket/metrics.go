package websocket

import "github.com/prometheus/client_golang/prometheus"

var (
	wsConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "teamchat_ws_connections",
			Help: "Current number of active websocket connections.",
		},
	)
	wsRooms = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "teamchat_ws_rooms",
			Help: "Current number of rooms with at least one subscriber.",
		},
	)
	wsEventsDelivered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "teamchat_ws_events_delivered_total",
			Help: "Total websocket events delivered to clients.",
		},
	)
	wsEventsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "teamchat_ws_events_dropped_total",
			Help: "Inbound events dropped as malformed or unknown.",
		},
	)
)

func init() {
	prometheus.MustRegister(wsConnections, wsRooms, wsEventsDelivered, wsEventsDropped)
}

func incConnections() {
	wsConnections.Inc()
}

func decConnections() {
	wsConnections.Dec()
}

func setRooms(count int) {
	wsRooms.Set(float64(count))
}

func addDelivered(count int) {
	wsEventsDelivered.Add(float64(count))
}

func incDroppedEvents() {
	wsEventsDropped.Inc()
}
