package push

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/EuWork/WebSockets/internal/app"
)

// WebPushSender delivers envelopes over the Web Push protocol with VAPID
// authentication.
type WebPushSender struct {
	opts webpush.Options
}

// NewWebPushSender builds a sender from the configured VAPID key pair
func NewWebPushSender(cfg app.Config) *WebPushSender {
	return &WebPushSender{opts: webpush.Options{
		Subscriber:      cfg.VAPIDSubject,
		VAPIDPublicKey:  cfg.VAPIDPublicKey,
		VAPIDPrivateKey: cfg.VAPIDPrivateKey,
		TTL:             60,
	}}
}

// Send pushes one envelope to one endpoint, classifying a 410/404 response
// as ErrEndpointGone so the caller can prune the subscription.
func (s *WebPushSender) Send(ctx context.Context, sub Subscription, env Envelope) error {
	payload, _ := json.Marshal(env)
	target := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			Auth:   sub.Keys.Auth,
			P256dh: sub.Keys.P256dh,
		},
	}

	opts := s.opts
	resp, err := webpush.SendNotificationWithContext(ctx, payload, target, &opts)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound:
		return ErrEndpointGone
	case resp.StatusCode >= 400:
		return fmt.Errorf("push endpoint returned %d", resp.StatusCode)
	}
	return nil
}
