package push

import (
	"context"
	"sync"

	"log/slog"
)

// Subscription is a browser push registration bound to one room.
type Subscription struct {
	Endpoint string `json:"endpoint"`
	Keys     Keys   `json:"keys"`
}

// Keys is the credential blob the push service needs for encryption.
type Keys struct {
	Auth   string `json:"auth"`
	P256dh string `json:"p256dh"`
}

// Store persists subscriptions across restarts. Implementations treat
// (room, endpoint) as the unique key.
type Store interface {
	UpsertSubscription(ctx context.Context, room string, sub Subscription) error
	DeleteSubscription(ctx context.Context, room, endpoint string) error
	ListSubscriptions(ctx context.Context) (map[string][]Subscription, error)
}

// Directory maps room names to their push subscriptions, keyed by endpoint.
// The in-memory view is authoritative; the store is write-through and its
// failures are only logged, so push stays best-effort.
type Directory struct {
	mu    sync.RWMutex
	rooms map[string]map[string]Subscription

	store Store
	log   *slog.Logger
}

// NewDirectory creates a directory. store may be nil for a purely in-memory
// directory.
func NewDirectory(store Store, log *slog.Logger) *Directory {
	return &Directory{
		rooms: map[string]map[string]Subscription{},
		store: store,
		log:   log,
	}
}

// Load seeds the directory from the store.
func (d *Directory) Load(ctx context.Context) error {
	if d.store == nil {
		return nil
	}
	saved, err := d.store.ListSubscriptions(ctx)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for room, subs := range saved {
		set := map[string]Subscription{}
		for _, s := range subs {
			set[s.Endpoint] = s
		}
		d.rooms[room] = set
	}
	return nil
}

// Subscribe records sub for the room. Re-subscribing an endpoint replaces
// its stored credentials.
func (d *Directory) Subscribe(ctx context.Context, room string, sub Subscription) {
	d.mu.Lock()
	set := d.rooms[room]
	if set == nil {
		set = map[string]Subscription{}
		d.rooms[room] = set
	}
	set[sub.Endpoint] = sub
	d.mu.Unlock()

	if d.store != nil {
		if err := d.store.UpsertSubscription(ctx, room, sub); err != nil {
			d.log.Error("push.subscription.save", "room", room, "err", err)
		}
	}
}

// Unsubscribe drops the endpoint from the room. An unknown endpoint or room
// is a no-op.
func (d *Directory) Unsubscribe(ctx context.Context, room, endpoint string) {
	d.mu.Lock()
	set := d.rooms[room]
	delete(set, endpoint)
	if len(set) == 0 {
		delete(d.rooms, room)
	}
	d.mu.Unlock()

	if d.store != nil {
		if err := d.store.DeleteSubscription(ctx, room, endpoint); err != nil {
			d.log.Error("push.subscription.delete", "room", room, "err", err)
		}
	}
}

// ForRoom returns the room's subscriptions minus the excluded endpoint.
func (d *Directory) ForRoom(room, excludeEndpoint string) []Subscription {
	d.mu.RLock()
	defer d.mu.RUnlock()

	set := d.rooms[room]
	out := make([]Subscription, 0, len(set))
	for endpoint, sub := range set {
		if excludeEndpoint != "" && endpoint == excludeEndpoint {
			continue
		}
		out = append(out, sub)
	}
	return out
}
