package relay

import (
	"encoding/json"
	"time"
)

// Inbound frame tags.
const (
	TagJoin    = "join"
	TagMessage = "message"
	TagLeave   = "leave"
)

// Outbound frame tags.
const (
	TagRoomsUpdate  = "rooms_update"
	TagNotification = "notification"
)

// Frame is one decoded inbound protocol frame. Which fields are meaningful
// depends on Type.
type Frame struct {
	Type     string `json:"type"`
	Room     string `json:"room"`
	Username string `json:"username,omitempty"`
	Message  string `json:"message,omitempty"`
	// Endpoint optionally ties the session to its own push subscription so
	// join/leave pushes skip the user who caused them.
	Endpoint string `json:"endpoint,omitempty"`
}

// DecodeFrame parses a raw inbound frame. Unknown tags are left to the
// caller to ignore; only unparseable JSON is an error.
func DecodeFrame(raw []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return Frame{}, err
	}
	return f, nil
}

// RoomInfo is one entry of the room listing.
type RoomInfo struct {
	Name       string `json:"name"`
	UsersCount int    `json:"usersCount"`
}

type roomsUpdateFrame struct {
	Type  string     `json:"type"`
	Rooms []RoomInfo `json:"rooms"`
}

type messageFrame struct {
	Type      string `json:"type"`
	Sender    string `json:"sender"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type notificationFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func encodeRoomsUpdate(rooms []RoomInfo) []byte {
	b, _ := json.Marshal(roomsUpdateFrame{Type: TagRoomsUpdate, Rooms: rooms})
	return b
}

func encodeMessage(sender, text string, ts time.Time) []byte {
	b, _ := json.Marshal(messageFrame{
		Type:      TagMessage,
		Sender:    sender,
		Message:   text,
		Timestamp: ts.UTC().Format(time.RFC3339),
	})
	return b
}

func encodeNotification(text string) []byte {
	b, _ := json.Marshal(notificationFrame{Type: TagNotification, Message: text})
	return b
}
