package httpx

import (
	"net/http"

	"log/slog"

	"github.com/EuWork/WebSockets/internal/app"
	"github.com/EuWork/WebSockets/internal/push"
	"github.com/EuWork/WebSockets/internal/relay"
	"github.com/EuWork/WebSockets/pkg/metrics"
)

// NewRouter wires up all HTTP routes, middleware, and handlers
func NewRouter(cfg app.Config, logger *slog.Logger, hub *relay.Hub, subs *push.Directory) http.Handler {
	mw := NewMiddleware(cfg)
	rooms := &RoomsAPI{Hub: hub}
	pushAPI := &PushAPI{Subs: subs, VAPIDPublicKey: cfg.VAPIDPublicKey, Log: logger}

	mux := http.NewServeMux()

	// Health / readiness / metrics
	mux.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/readyz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/metrics", metrics.Handler())

	// WebSocket endpoint
	mux.Handle("/ws", http.HandlerFunc(hub.ServeWS))

	// Room listing + push subscription endpoints
	mux.Handle("GET /api/rooms", http.HandlerFunc(rooms.List))
	mux.Handle("POST /api/subscribe", http.HandlerFunc(pushAPI.Subscribe))
	mux.Handle("POST /api/unsubscribe", http.HandlerFunc(pushAPI.Unsubscribe))
	mux.Handle("GET /api/vapid-public-key", http.HandlerFunc(pushAPI.PublicKey))

	// CORS + rate limit applied globally
	return mw.Wrap(mux)
}
