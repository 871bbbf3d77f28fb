package relay

// Session is the mutable per-connection protocol state: which room the
// connection is in and under what display name. The zero value is the
// unjoined state. A session is in at most one room at a time; joining a new
// room first runs the leave transition for the old one.
type Session struct {
	Room string
	Name string

	// Endpoint is the connection's own push endpoint, if the client supplied
	// one on join. It survives leave so later joins still exclude it.
	Endpoint string
}

// InRoom reports whether the session currently belongs to a room.
func (s *Session) InRoom() bool { return s.Room != "" }
