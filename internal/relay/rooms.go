package relay

import "sync"

// Directory owns the room name → member set mapping. Rooms come into being
// on first join and are deleted in the same critical section that drops the
// last member, so a room is listed iff it has at least one member.
type Directory struct {
	mu    sync.RWMutex
	rooms map[string]map[*Conn]struct{}
}

// NewDirectory creates an empty room directory
func NewDirectory() *Directory {
	return &Directory{rooms: map[string]map[*Conn]struct{}{}}
}

// Join adds c to the room, creating the room if needed. Reports whether this
// call created the room and the resulting member count.
func (d *Directory) Join(room string, c *Conn) (isNew bool, size int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	members := d.rooms[room]
	if members == nil {
		members = map[*Conn]struct{}{}
		d.rooms[room] = members
		isNew = true
	}
	members[c] = struct{}{}
	return isNew, len(members)
}

// Leave removes c from the room. Reports whether the room existed and how
// many members remain; an emptied room is deleted before returning.
func (d *Directory) Leave(room string, c *Conn) (existed bool, remaining int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	members, ok := d.rooms[room]
	if !ok {
		return false, 0
	}
	delete(members, c)
	if len(members) == 0 {
		delete(d.rooms, room)
	}
	return true, len(members)
}

// Contains reports whether the room currently exists.
func (d *Directory) Contains(room string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.rooms[room]
	return ok
}

// Snapshot returns one consistent view of room names and member counts.
// Order is unspecified.
func (d *Directory) Snapshot() []RoomInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]RoomInfo, 0, len(d.rooms))
	for name, members := range d.rooms {
		out = append(out, RoomInfo{Name: name, UsersCount: len(members)})
	}
	return out
}

// Broadcast sends payload to every open member of the room except exclude.
// Closed or saturated connections are skipped; one bad recipient never
// affects the rest.
func (d *Directory) Broadcast(room string, payload []byte, exclude *Conn) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for c := range d.rooms[room] {
		if c == exclude {
			continue
		}
		c.Send(payload)
	}
}
