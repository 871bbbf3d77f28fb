package relay

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFrame(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Frame
		err  bool
	}{
		{
			name: "join with endpoint",
			raw:  `{"type":"join","room":"room1","username":"alice","endpoint":"https://push.example/a"}`,
			want: Frame{Type: TagJoin, Room: "room1", Username: "alice", Endpoint: "https://push.example/a"},
		},
		{
			name: "message",
			raw:  `{"type":"message","room":"room1","message":"hi"}`,
			want: Frame{Type: TagMessage, Room: "room1", Message: "hi"},
		},
		{
			name: "leave",
			raw:  `{"type":"leave","room":"room1","username":"alice"}`,
			want: Frame{Type: TagLeave, Room: "room1", Username: "alice"},
		},
		{
			name: "malformed",
			raw:  `{"type":`,
			err:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeFrame([]byte(tt.raw))
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeMessageShape(t *testing.T) {
	ts := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	var m map[string]any
	require.NoError(t, json.Unmarshal(encodeMessage("bob", "hi", ts), &m))

	assert.Equal(t, map[string]any{
		"type":      "message",
		"sender":    "bob",
		"message":   "hi",
		"timestamp": "2025-03-14T15:09:26Z",
	}, m)
}

func TestEncodeNotificationShape(t *testing.T) {
	var m map[string]any
	require.NoError(t, json.Unmarshal(encodeNotification("alice покинул комнату"), &m))
	assert.Equal(t, "notification", m["type"])
	assert.Equal(t, "alice покинул комнату", m["message"])
}

func TestEncodeRoomsUpdateEmpty(t *testing.T) {
	var m struct {
		Type  string     `json:"type"`
		Rooms []RoomInfo `json:"rooms"`
	}
	require.NoError(t, json.Unmarshal(encodeRoomsUpdate([]RoomInfo{}), &m))
	assert.Equal(t, TagRoomsUpdate, m.Type)
	assert.NotNil(t, m.Rooms)
	assert.Empty(t, m.Rooms)
}
