package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client is one connected websocket viewer. Connections are anonymous;
// the id is an opaque handle generated at upgrade time.
type Client struct {
	conn *websocket.Conn
	id   string
	send chan []byte
}

// Hub maintains the set of active clients and fans messages out to them.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run owns the client registry. It must run in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			count := len(h.clients)
			h.mu.Unlock()
			log.Printf("[WS] client %s connected (total=%d)", client.id, count)

		case client := <-h.unregister:
			h.mu.Lock()
			if cur, ok := h.clients[client.id]; ok && cur == client {
				delete(h.clients, client.id)
				select {
				case <-client.send:
				default:
					close(client.send)
				}
			}
			count := len(h.clients)
			h.mu.Unlock()
			log.Printf("[WS] client %s disconnected (remaining=%d)", client.id, count)
		}
	}
}

// Broadcast sends a message to every connected client except excludeID
// (empty string excludes nobody).
func (h *Hub) Broadcast(message interface{}, excludeID string) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] error marshaling broadcast: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, client := range h.clients {
		if id == excludeID {
			continue
		}
		select {
		case client.send <- data:
		default:
			log.Printf("[WS] send buffer full for client %s, dropping broadcast", id)
		}
	}
}

// SendTo sends a message to one client.
func (h *Hub) SendTo(id string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if client, ok := h.clients[id]; ok {
		select {
		case client.send <- data:
		default:
			log.Printf("[WS] send buffer full for client %s, dropping message", id)
		}
	} else {
		log.Printf("[WS] SendTo: no client %s", id)
	}
}

// Disconnect closes a client's connection; the read pump unregisters it.
func (h *Hub) Disconnect(id string) {
	h.mu.RLock()
	client, ok := h.clients[id]
	h.mu.RUnlock()
	if !ok {
		return
	}

	deadline := time.Now().Add(5 * time.Second)
	if err := client.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "disconnected by server"), deadline); err != nil {
		log.Printf("[WS] error writing close to client %s: %v", id, err)
	}
	client.conn.Close()
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// writePump writes queued messages to the connection and keeps it alive
// with periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Channel closed; best-effort close frame.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WS] write error for client %s: %v", c.id, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[WS] ping error for client %s: %v", c.id, err)
				return
			}
		}
	}
}
