package httpx

import (
	"encoding/json"
	"net/http"

	"log/slog"

	"github.com/EuWork/WebSockets/internal/push"
	"github.com/EuWork/WebSockets/internal/relay"
)

type RoomsAPI struct{ Hub *relay.Hub }

// List returns every active room with its member count.
func (a *RoomsAPI) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, a.Hub.Rooms().Snapshot())
}

type PushAPI struct {
	Subs           *push.Directory
	VAPIDPublicKey string
	Log            *slog.Logger
}

type subscriptionReq struct {
	Room         string            `json:"room"`
	Subscription push.Subscription `json:"subscription"`
}

// Subscribe records a push subscription for a room.
func (a *PushAPI) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscriptionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Room == "" || req.Subscription.Endpoint == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	a.Subs.Subscribe(r.Context(), req.Room, req.Subscription)
	a.Log.Debug("push.subscribed", "room", req.Room)
	writeJSON(w, map[string]bool{"success": true})
}

// Unsubscribe removes a room subscription by endpoint. Unknown endpoints
// still acknowledge success.
func (a *PushAPI) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req subscriptionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Room == "" || req.Subscription.Endpoint == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	a.Subs.Unsubscribe(r.Context(), req.Room, req.Subscription.Endpoint)
	writeJSON(w, map[string]bool{"success": true})
}

// PublicKey hands browsers the VAPID public key they need to subscribe.
func (a *PushAPI) PublicKey(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"publicKey": a.VAPIDPublicKey})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
