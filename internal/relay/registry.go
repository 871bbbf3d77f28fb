package relay

import "sync"

// Registry tracks every live connection, joined to a room or not. It backs
// the initial room snapshot push and the live-connection gauge.
type Registry struct {
	mu    sync.Mutex
	conns map[*Conn]struct{}
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{conns: map[*Conn]struct{}{}}
}

// Add registers a connection
func (g *Registry) Add(c *Conn) {
	g.mu.Lock()
	g.conns[c] = struct{}{}
	g.mu.Unlock()
}

// Remove drops a connection
func (g *Registry) Remove(c *Conn) {
	g.mu.Lock()
	delete(g.conns, c)
	g.mu.Unlock()
}

// Len returns the number of live connections
func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.conns)
}
