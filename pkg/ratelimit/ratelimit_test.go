package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func doRequest(l *Limiter) int {
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:12345"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr.Code
}

func TestLimiterBlocksAfterMax(t *testing.T) {
	l := New(2, time.Minute)

	assert.Equal(t, http.StatusOK, doRequest(l))
	assert.Equal(t, http.StatusOK, doRequest(l))
	assert.Equal(t, http.StatusTooManyRequests, doRequest(l))
}

func TestLimiterResetsAfterWindow(t *testing.T) {
	l := New(1, 30*time.Millisecond)

	assert.Equal(t, http.StatusOK, doRequest(l))
	assert.Equal(t, http.StatusTooManyRequests, doRequest(l))

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, http.StatusOK, doRequest(l))
}
