// Package metrics exposes the relay's Prometheus instrumentation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sala_active_connections",
		Help: "Websocket connections currently open.",
	})
	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sala_active_rooms",
		Help: "Rooms with at least one member.",
	})
	JoinsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sala_joins_total",
		Help: "Successful room joins.",
	})
	MessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sala_messages_total",
		Help: "Chat messages relayed.",
	})
	DroppedFramesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sala_dropped_frames_total",
		Help: "Outbound frames dropped because a member's send buffer was full.",
	})
)

// Handler exposes Prometheus metrics at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
