package push

import (
	"context"
	"encoding/json"

	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/EuWork/WebSockets/internal/app"
)

// RoomEvent is one membership change a room's subscribers should hear about.
type RoomEvent struct {
	Room            string `json:"room"`
	Message         string `json:"message"`
	ExcludeEndpoint string `json:"excludeEndpoint,omitempty"`
}

// Publisher hands room events to the push path without blocking it.
type Publisher interface {
	PublishRoomEvent(ctx context.Context, ev RoomEvent) error
}

// RedisBus carries room events from the hub to the push dispatcher over
// redis pub/sub, keeping web-push latency off the broadcast path.
type RedisBus struct {
	rdb *redis.Client
	log *slog.Logger
}

// NewRedisBus connects to redis and verifies connectivity
func NewRedisBus(ctx context.Context, cfg app.Config, log *slog.Logger) (*RedisBus, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisBus{rdb: rdb, log: log}, nil
}

// PublishRoomEvent sends an event to the redis channel for its room
func (b *RedisBus) PublishRoomEvent(ctx context.Context, ev RoomEvent) error {
	raw, _ := json.Marshal(ev)
	return b.rdb.Publish(ctx, channel(ev.Room), raw).Err()
}

// Subscribe listens to all room channels and invokes fn for each event
func (b *RedisBus) Subscribe(ctx context.Context, fn func(RoomEvent)) {
	pubsub := b.rdb.PSubscribe(ctx, channel("*"))
	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			_ = pubsub.Close()
			return
		case msg := <-ch:
			var ev RoomEvent
			_ = json.Unmarshal([]byte(msg.Payload), &ev)
			if ev.Room != "" {
				fn(ev)
			}
		}
	}
}

// Close shuts down the redis connection
func (b *RedisBus) Close() { _ = b.rdb.Close() }

// channel namespacing for room pub/sub
func channel(room string) string { return "room:" + room }
