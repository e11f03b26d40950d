package api

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// Event is one message pushed over the live stream.
type Event struct {
	Type    string `json:"type"` // "state" or "spectrum"
	Payload any    `json:"payload"`
}

// StreamHandler pushes pipeline state changes and spectrum frames to
// connected clients over a websocket.
type StreamHandler struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]chan Event
}

// NewStreamHandler creates an empty hub.
func NewStreamHandler() *StreamHandler {
	return &StreamHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// The UI is served from this process; same-origin checks add
			// nothing for a localhost-bound server.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]chan Event),
	}
}

// HandleWS handles GET /ws
func (h *StreamHandler) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Stream: upgrade failed", "error", err)
		return
	}

	// Buffered so a slow client drops frames instead of blocking the hub.
	ch := make(chan Event, 32)

	h.mu.Lock()
	h.clients[conn] = ch
	count := len(h.clients)
	h.mu.Unlock()
	slog.Debug("Stream: client connected", "clients", count)

	go h.writeLoop(conn, ch)
	go h.readLoop(conn)
}

func (h *StreamHandler) writeLoop(conn *websocket.Conn, ch chan Event) {
	defer h.drop(conn)
	for ev := range ch {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(ev); err != nil {
			return
		}
	}
}

// readLoop drains the connection so close frames are processed.
func (h *StreamHandler) readLoop(conn *websocket.Conn) {
	defer h.drop(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *StreamHandler) drop(conn *websocket.Conn) {
	h.mu.Lock()
	ch, ok := h.clients[conn]
	if ok {
		delete(h.clients, conn)
		close(ch)
	}
	h.mu.Unlock()

	if ok {
		conn.Close()
		slog.Debug("Stream: client disconnected")
	}
}

// Broadcast queues an event for every connected client. Clients whose
// buffers are full skip the event.
func (h *StreamHandler) Broadcast(eventType string, payload any) {
	ev := Event{Type: eventType, Payload: payload}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.clients {
		select {
		case ch <- ev:
		default:
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *StreamHandler) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
