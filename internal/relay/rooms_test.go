package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinCreatesRoomOnce(t *testing.T) {
	d := NewDirectory()
	a, b := NewConn(nil), NewConn(nil)

	isNew, size := d.Join("room1", a)
	assert.True(t, isNew)
	assert.Equal(t, 1, size)

	isNew, size = d.Join("room1", b)
	assert.False(t, isNew)
	assert.Equal(t, 2, size)
}

func TestRoomExistsIffMembers(t *testing.T) {
	d := NewDirectory()
	a, b := NewConn(nil), NewConn(nil)

	assert.False(t, d.Contains("room1"))

	d.Join("room1", a)
	d.Join("room1", b)
	assert.True(t, d.Contains("room1"))

	existed, remaining := d.Leave("room1", a)
	assert.True(t, existed)
	assert.Equal(t, 1, remaining)
	assert.True(t, d.Contains("room1"))

	existed, remaining = d.Leave("room1", b)
	assert.True(t, existed)
	assert.Equal(t, 0, remaining)
	assert.False(t, d.Contains("room1"), "emptied room must be deleted")
}

func TestLeaveUnknownRoom(t *testing.T) {
	d := NewDirectory()
	existed, remaining := d.Leave("ghost", NewConn(nil))
	assert.False(t, existed)
	assert.Zero(t, remaining)
}

func TestSnapshotCounts(t *testing.T) {
	d := NewDirectory()
	d.Join("room1", NewConn(nil))
	d.Join("room1", NewConn(nil))
	d.Join("room2", NewConn(nil))

	snap := d.Snapshot()
	require.Len(t, snap, 2)

	counts := map[string]int{}
	for _, r := range snap {
		counts[r.Name] = r.UsersCount
	}
	assert.Equal(t, map[string]int{"room1": 2, "room2": 1}, counts)
}

func TestBroadcastExcludesAndSkipsClosed(t *testing.T) {
	d := NewDirectory()
	sender, open, closed := NewConn(nil), NewConn(nil), NewConn(nil)
	d.Join("room1", sender)
	d.Join("room1", open)
	d.Join("room1", closed)
	closed.closed.Store(true)

	d.Broadcast("room1", []byte("hi"), sender)

	assert.Empty(t, drain(sender), "excluded connection must not receive")
	assert.Equal(t, []string{"hi"}, drain(open))
	assert.Empty(t, drain(closed), "closed connection must be skipped")
}

func TestBroadcastUnknownRoomIsNoop(t *testing.T) {
	d := NewDirectory()
	assert.NotPanics(t, func() { d.Broadcast("ghost", []byte("hi"), nil) })
}

// drain empties a connection's outbound queue.
func drain(c *Conn) []string {
	var out []string
	for {
		select {
		case b := <-c.out:
			out = append(out, string(b))
		default:
			return out
		}
	}
}
