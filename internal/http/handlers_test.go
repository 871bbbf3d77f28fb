package httpx

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EuWork/WebSockets/internal/push"
	"github.com/EuWork/WebSockets/internal/relay"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRoomsListEmpty(t *testing.T) {
	hub := relay.NewHub(testLogger(), nil)
	api := &RoomsAPI{Hub: hub}

	rr := httptest.NewRecorder()
	api.List(rr, httptest.NewRequest(http.MethodGet, "/api/rooms", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestRoomsListCounts(t *testing.T) {
	hub := relay.NewHub(testLogger(), nil)
	hub.Rooms().Join("room1", relay.NewConn(nil))
	hub.Rooms().Join("room1", relay.NewConn(nil))
	api := &RoomsAPI{Hub: hub}

	rr := httptest.NewRecorder()
	api.List(rr, httptest.NewRequest(http.MethodGet, "/api/rooms", nil))

	var got []relay.RoomInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, relay.RoomInfo{Name: "room1", UsersCount: 2}, got[0])
}

func TestSubscribeThenUnsubscribe(t *testing.T) {
	dir := push.NewDirectory(nil, testLogger())
	api := &PushAPI{Subs: dir, Log: testLogger()}

	body := `{"room":"room1","subscription":{"endpoint":"https://push.example/a","keys":{"auth":"a","p256dh":"p"}}}`

	rr := httptest.NewRecorder()
	api.Subscribe(rr, httptest.NewRequest(http.MethodPost, "/api/subscribe", strings.NewReader(body)))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true}`, rr.Body.String())
	assert.Len(t, dir.ForRoom("room1", ""), 1)

	rr = httptest.NewRecorder()
	api.Unsubscribe(rr, httptest.NewRequest(http.MethodPost, "/api/unsubscribe", strings.NewReader(body)))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, dir.ForRoom("room1", ""))
}

func TestSubscribeRejectsBadPayload(t *testing.T) {
	dir := push.NewDirectory(nil, testLogger())
	api := &PushAPI{Subs: dir, Log: testLogger()}

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"room":`},
		{"missing room", `{"subscription":{"endpoint":"https://push.example/a"}}`},
		{"missing endpoint", `{"room":"room1","subscription":{}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			api.Subscribe(rr, httptest.NewRequest(http.MethodPost, "/api/subscribe", strings.NewReader(tt.body)))
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestVAPIDPublicKey(t *testing.T) {
	api := &PushAPI{VAPIDPublicKey: "BPub", Log: testLogger()}

	rr := httptest.NewRecorder()
	api.PublicKey(rr, httptest.NewRequest(http.MethodGet, "/api/vapid-public-key", nil))

	assert.JSONEq(t, `{"publicKey":"BPub"}`, rr.Body.String())
}
