package relay

import (
	"context"
	"net/http"
	"time"

	"log/slog"

	"github.com/EuWork/WebSockets/internal/push"
	"github.com/EuWork/WebSockets/pkg/metrics"
)

// Hub routes protocol frames between connections, the room directory, and
// the push event bus.
type Hub struct {
	log      *slog.Logger
	rooms    *Directory
	registry *Registry
	events   push.Publisher
}

// NewHub sets up the hub. events may be nil when no push path is wired.
func NewHub(logger *slog.Logger, events push.Publisher) *Hub {
	return &Hub{
		log:      logger,
		rooms:    NewDirectory(),
		registry: NewRegistry(),
		events:   events,
	}
}

// Rooms exposes the directory for the REST room listing.
func (h *Hub) Rooms() *Directory { return h.rooms }

// ServeWS handles a new /ws connection and runs its read loop until the
// peer goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ws, err := Accept(w, r)
	if err != nil {
		h.log.Error("ws.accept", "err", err)
		return
	}

	c := NewConn(ws)
	h.registry.Add(c)
	metrics.ConnectionsActive.Inc()
	h.log.Debug("ws.connected", "total", h.registry.Len())

	go c.WriteLoop(ctx)

	h.greet(c)

	sess := &Session{}
	for {
		raw, ok := c.Read(ctx)
		if !ok {
			break
		}
		h.handleFrame(ctx, c, sess, raw)
	}

	h.disconnect(ctx, c, sess)
	_ = c.Close()
}

// greet pushes the current room list to a freshly accepted connection.
func (h *Hub) greet(c *Conn) {
	c.Send(encodeRoomsUpdate(h.rooms.Snapshot()))
}

func (h *Hub) handleFrame(ctx context.Context, c *Conn, sess *Session, raw []byte) {
	f, err := DecodeFrame(raw)
	if err != nil {
		// Malformed frames are dropped; the connection stays open.
		h.log.Error("frame.decode", "err", err)
		return
	}

	switch f.Type {
	case TagJoin:
		h.handleJoin(ctx, c, sess, f.Room, f.Username, f.Endpoint)
	case TagMessage:
		h.handleMessage(f.Room, f.Message, sess.Name)
	case TagLeave:
		name := f.Username
		if name == "" {
			name = sess.Name
		}
		h.handleLeave(ctx, c, sess, f.Room, name)
	default:
		h.log.Debug("frame.unknown", "type", f.Type)
	}
}

// handleJoin moves the session into a room, leaving its old room first.
// Joining a pre-existing room notifies the members already there, never the
// joiner, and dispatches a push for the room excluding the joiner's own
// endpoint. A brand-new room has no one to notify.
func (h *Hub) handleJoin(ctx context.Context, c *Conn, sess *Session, room, name, endpoint string) {
	if sess.InRoom() {
		h.handleLeave(ctx, c, sess, sess.Room, sess.Name)
	}

	isNew, size := h.rooms.Join(room, c)
	sess.Room, sess.Name = room, name
	if endpoint != "" {
		sess.Endpoint = endpoint
	}

	if isNew {
		metrics.RoomsActive.Inc()
		h.log.Info("room.created", "room", room, "user", name)
		return
	}

	h.log.Info("room.join", "room", room, "user", name, "members", size)
	if size > 1 {
		text := name + " присоединился к комнате"
		h.rooms.Broadcast(room, encodeNotification(text), c)
		metrics.BroadcastsTotal.Inc()
		h.publish(ctx, room, text, sess.Endpoint)
	}
}

// handleMessage relays a chat message to every member, sender included.
// A message for a room that no longer exists is dropped silently; the room
// can vanish between the client's send and our processing.
func (h *Hub) handleMessage(room, text, sender string) {
	if !h.rooms.Contains(room) {
		return
	}
	h.rooms.Broadcast(room, encodeMessage(sender, text, time.Now()), nil)
	metrics.BroadcastsTotal.Inc()
}

// handleLeave removes c from the named room. Remaining members hear a
// notification and the room's subscribers get a push; the last member out
// takes the room with it and nothing is sent.
func (h *Hub) handleLeave(ctx context.Context, c *Conn, sess *Session, room, name string) {
	existed, remaining := h.rooms.Leave(room, c)
	if sess.Room == room {
		sess.Room, sess.Name = "", ""
	}
	if !existed {
		return
	}

	if remaining == 0 {
		metrics.RoomsActive.Dec()
		h.log.Info("room.closed", "room", room)
		return
	}

	text := name + " покинул комнату"
	h.rooms.Broadcast(room, encodeNotification(text), nil)
	metrics.BroadcastsTotal.Inc()
	h.publish(ctx, room, text, sess.Endpoint)
	h.log.Info("room.leave", "room", room, "user", name, "members", remaining)
}

// disconnect runs the implicit leave transition and unregisters c.
func (h *Hub) disconnect(ctx context.Context, c *Conn, sess *Session) {
	if sess.InRoom() {
		h.handleLeave(ctx, c, sess, sess.Room, sess.Name)
	}
	h.registry.Remove(c)
	metrics.ConnectionsActive.Dec()
	h.log.Debug("ws.disconnected", "total", h.registry.Len())
}

// publish hands a room event to the push path. Failures are logged and never
// surface to the chat action that triggered them.
func (h *Hub) publish(ctx context.Context, room, message, excludeEndpoint string) {
	if h.events == nil {
		return
	}
	ev := push.RoomEvent{Room: room, Message: message, ExcludeEndpoint: excludeEndpoint}
	if err := h.events.PublishRoomEvent(ctx, ev); err != nil {
		h.log.Error("push.publish", "room", room, "err", err)
	}
}
