package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"log/slog"

	"github.com/EuWork/WebSockets/internal/app"
	"github.com/EuWork/WebSockets/internal/push"
)

type Postgres struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewPostgres connects to postgres and returns a pool wrapper
func NewPostgres(ctx context.Context, cfg app.Config, log *slog.Logger) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, cfg.PGURL)
	if err != nil {
		return nil, err
	}
	return &Postgres{pool: pool, log: log}, nil
}

func (p *Postgres) Close() { p.pool.Close() }

// UpsertSubscription stores or refreshes a push subscription for a room
func (p *Postgres) UpsertSubscription(ctx context.Context, room string, sub push.Subscription) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO push_subscriptions (room, endpoint, auth, p256dh)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (room, endpoint)
		DO UPDATE SET auth = EXCLUDED.auth, p256dh = EXCLUDED.p256dh
	`, room, sub.Endpoint, sub.Keys.Auth, sub.Keys.P256dh)
	if err != nil {
		return err
	}
	p.log.Debug("subscription.saved", "room", room)
	return nil
}

// DeleteSubscription removes one endpoint from a room; absent rows are fine
func (p *Postgres) DeleteSubscription(ctx context.Context, room, endpoint string) error {
	_, err := p.pool.Exec(ctx, `
		DELETE FROM push_subscriptions
		WHERE room = $1 AND endpoint = $2
	`, room, endpoint)
	return err
}

// ListSubscriptions returns every stored subscription grouped by room
func (p *Postgres) ListSubscriptions(ctx context.Context) (map[string][]push.Subscription, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT room, endpoint, auth, p256dh
		FROM push_subscriptions
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string][]push.Subscription{}
	for rows.Next() {
		var room string
		var sub push.Subscription
		if err := rows.Scan(&room, &sub.Endpoint, &sub.Keys.Auth, &sub.Keys.P256dh); err != nil {
			return nil, err
		}
		out[room] = append(out[room], sub)
	}
	return out, rows.Err()
}
