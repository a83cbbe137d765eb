// Package server provides the HTTP server for the mudra gesture recognition system.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Event is a single named pipeline event, pushed to every connected client as
// a JSON text frame.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// EventHub broadcasts pipeline events over WebSocket, adapted from the
// teacher's LandmarksHandler: instead of polling a camera/detector pair on a
// ticker, the pipeline pushes events in (Broadcast) as they occur, since the
// contour/curve/finger/gesture stages already fire their own callbacks per
// frame.
type EventHub struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewEventHub creates an empty EventHub.
func NewEventHub() *EventHub {
	return &EventHub{clients: make(map[*websocket.Conn]bool)}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *EventHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep the connection alive by reading (and discarding) messages; the
	// hub is write-only from the client's perspective.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Broadcast sends a typed event to every connected client.
func (h *EventHub) Broadcast(eventType string, data interface{}) {
	h.mu.RLock()
	if len(h.clients) == 0 {
		h.mu.RUnlock()
		return
	}
	h.mu.RUnlock()

	msg, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		log.Printf("server: marshal event %s: %v", eventType, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("server: write to client failed: %v", err)
		}
	}
}

// ClientCount returns the number of currently connected clients.
func (h *EventHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
