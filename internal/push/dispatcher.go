package push

import (
	"context"
	"errors"
	"sync"
	"time"

	"log/slog"

	"github.com/EuWork/WebSockets/pkg/metrics"
)

// pushTitle is the fixed title of the reduced push envelope.
const pushTitle = "Новое событие"

// ErrEndpointGone marks a permanently dead subscription endpoint.
var ErrEndpointGone = errors.New("push endpoint gone")

// Envelope is the reduced payload delivered out-of-band to subscribers.
type Envelope struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Sender delivers one envelope to one endpoint. ErrEndpointGone means the
// subscription should be pruned; any other error is transient.
type Sender interface {
	Send(ctx context.Context, sub Subscription, env Envelope) error
}

// Dispatcher fans room events out to web-push subscribers, best effort.
// Deliveries run detached so a slow push service never stalls the hub.
type Dispatcher struct {
	dir     *Directory
	sender  Sender
	log     *slog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewDispatcher wires the subscription directory to a delivery capability
func NewDispatcher(dir *Directory, sender Sender, log *slog.Logger) *Dispatcher {
	return &Dispatcher{dir: dir, sender: sender, log: log, timeout: 10 * time.Second}
}

// Run consumes room events from the bus until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context, bus *RedisBus) {
	bus.Subscribe(ctx, func(ev RoomEvent) {
		d.DispatchRoomEvent(ev)
	})
}

// DispatchRoomEvent pushes the event to every subscriber of the room except
// the excluded endpoint. Returns immediately; deliveries are detached.
func (d *Dispatcher) DispatchRoomEvent(ev RoomEvent) {
	env := Envelope{Title: pushTitle, Message: ev.Message}
	for _, sub := range d.dir.ForRoom(ev.Room, ev.ExcludeEndpoint) {
		d.wg.Add(1)
		go d.send(ev.Room, sub, env)
	}
}

func (d *Dispatcher) send(room string, sub Subscription, env Envelope) {
	defer d.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	err := d.sender.Send(ctx, sub, env)
	switch {
	case err == nil:
		metrics.PushSent.Inc()
	case errors.Is(err, ErrEndpointGone):
		// The browser dropped the registration; forget it.
		d.dir.Unsubscribe(ctx, room, sub.Endpoint)
		metrics.PushPruned.Inc()
		d.log.Info("push.endpoint.pruned", "room", room)
	default:
		metrics.PushFailed.Inc()
		d.log.Error("push.send", "room", room, "err", err)
	}
}
