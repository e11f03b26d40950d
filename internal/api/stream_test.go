package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialTestStream(t *testing.T, h *StreamHandler) (*websocket.Conn, func()) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWS))
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial: %v", err)
	}
	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func TestStreamBroadcastReachesClient(t *testing.T) {
	h := NewStreamHandler()
	conn, cleanup := dialTestStream(t, h)
	defer cleanup()

	// The hub registers the client during the upgrade handler; wait for it.
	deadline := time.Now().Add(2 * time.Second)
	for h.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if h.ClientCount() != 1 {
		t.Fatalf("client count = %d, want 1", h.ClientCount())
	}

	h.Broadcast("state", map[string]string{"state": "playing"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read: %v", err)
	}
	if ev.Type != "state" {
		t.Errorf("event type = %q, want state", ev.Type)
	}
}

func TestStreamDropsDisconnectedClient(t *testing.T) {
	h := NewStreamHandler()
	conn, cleanup := dialTestStream(t, h)
	defer cleanup()

	deadline := time.Now().Add(2 * time.Second)
	for h.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	conn.Close()

	deadline = time.Now().Add(2 * time.Second)
	for h.ClientCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := h.ClientCount(); got != 0 {
		t.Errorf("client count = %d after disconnect, want 0", got)
	}
}

func TestStreamBroadcastWithoutClients(t *testing.T) {
	h := NewStreamHandler()
	// Must not block or panic with nobody connected.
	h.Broadcast("spectrum", []float64{0.1, 0.2})
}
