package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chat_connections_active",
		Help: "Live websocket connections.",
	})
	RoomsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chat_rooms_active",
		Help: "Rooms with at least one member.",
	})
	BroadcastsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_broadcasts_total",
		Help: "Payloads fanned out to room members.",
	})
	PushSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_push_sent_total",
		Help: "Web-push notifications delivered.",
	})
	PushFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_push_failed_total",
		Help: "Web-push deliveries that failed transiently.",
	})
	PushPruned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_push_pruned_total",
		Help: "Subscriptions removed after the endpoint reported gone.",
	})
)

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
