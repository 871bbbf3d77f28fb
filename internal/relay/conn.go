package relay

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"nhooyr.io/websocket"
)

// Conn wraps a websocket connection with a buffered outbound queue. Rooms
// hold non-owning references to it; the transport handler owns its lifecycle.
type Conn struct {
	ws     *websocket.Conn
	out    chan []byte
	closed atomic.Bool
}

// Accept upgrades HTTP to websocket (allow all origins)
func Accept(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:  []string{"*"},
		CompressionMode: websocket.CompressionDisabled,
	})
}

// NewConn wraps a websocket connection for room delivery
func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws, out: make(chan []byte, 256)}
}

// Open reports whether the transport is still writable.
func (c *Conn) Open() bool { return !c.closed.Load() }

// Send queues a payload without blocking. Returns false when the connection
// is closed or its buffer is full; the caller treats both as a skip.
func (c *Conn) Send(b []byte) bool {
	if c.closed.Load() {
		return false
	}
	select {
	case c.out <- b:
		return true
	default:
		return false
	}
}

// Read blocks until it receives a text/binary message
// Returns false if connection is closed
func (c *Conn) Read(ctx context.Context) ([]byte, bool) {
	for {
		typ, data, err := c.ws.Read(ctx)
		if err != nil {
			return nil, false
		}
		if typ == websocket.MessageText || typ == websocket.MessageBinary {
			return data, true
		}
	}
}

// WriteLoop sends outbound messages + periodic pings
// Exits when ctx is cancelled
func (c *Conn) WriteLoop(ctx context.Context) {
	t := time.NewTicker(20 * time.Second)
	defer t.Stop()

	for {
		select {
		case b := <-c.out:
			_ = c.ws.Write(ctx, websocket.MessageText, b)
		case <-t.C:
			_ = c.ws.Ping(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Close marks the connection closed and shuts the websocket down; queued
// sends after this point are dropped.
func (c *Conn) Close() error {
	c.closed.Store(true)
	return c.ws.Close(websocket.StatusNormalClosure, "bye")
}
