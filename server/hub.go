// Package server broadcasts simulation snapshots to spectators over
// websockets and serves read-only REST views of the state and roster.
package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// Hub fans out the latest snapshot to every connected spectator.
type Hub struct {
	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
	latest      []byte

	upgrader websocket.Upgrader
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// NewHub creates a hub with no subscribers.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[*subscriber]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Publish encodes v, keeps it as the latest snapshot, and sends it to all
// subscribers. Subscribers whose write fails are dropped.
func (h *Hub) Publish(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	h.mu.Lock()
	h.latest = data
	subs := make([]*subscriber, 0, len(h.subscribers))
	for sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		if err := sub.send(data); err != nil {
			slog.Debug("dropping spectator", "remote", sub.conn.RemoteAddr().String(), "error", err)
			h.remove(sub)
		}
	}
	return nil
}

// Latest returns the most recently published snapshot, or nil.
func (h *Hub) Latest() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest
}

// Subscribers returns the number of connected spectators.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Close disconnects every spectator.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subscribers
	h.subscribers = make(map[*subscriber]struct{})
	h.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down")
	for sub := range subs {
		sub.mu.Lock()
		sub.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		sub.mu.Unlock()
		sub.conn.Close()
	}
}

// ServeWS upgrades the request and streams snapshots until the spectator
// disconnects. The latest snapshot, if any, is sent immediately.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	sub := &subscriber{conn: conn}
	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	latest := h.latest
	count := len(h.subscribers)
	h.mu.Unlock()
	slog.Info("spectator connected", "remote", r.RemoteAddr, "spectators", count)

	if latest != nil {
		if err := sub.send(latest); err != nil {
			h.remove(sub)
			return
		}
	}

	// Spectators are passive; reading only detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(sub)
	slog.Info("spectator disconnected", "remote", r.RemoteAddr, "spectators", h.Subscribers())
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	_, ok := h.subscribers[sub]
	delete(h.subscribers, sub)
	h.mu.Unlock()
	if ok {
		sub.conn.Close()
	}
}

func (s *subscriber) send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}
