package ws

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pixelsoccer/backend/internal/auth"
	"github.com/pixelsoccer/backend/internal/game"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// Client represents a connected WebSocket client
type Client struct {
	conn    *websocket.Conn
	id      string
	session *game.Session
	seat    auth.Seat
	codec   Codec
	send    chan []byte

	mu     sync.Mutex
	closed bool
}

// Hub maintains the set of active clients per match room
type Hub struct {
	rooms      map[string]map[*Client]bool // match token -> clients
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// BroadcastToMatch sends a message to every client watching a match. Each codec encodes the
// message once.
func (h *Hub) BroadcastToMatch(token string, message interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room, exists := h.rooms[token]
	if !exists {
		return
	}
	encoded := make(map[Codec][]byte, 2)
	for client := range room {
		data, ok := encoded[client.codec]
		if !ok {
			var err error
			data, err = client.codec.Marshal(message)
			if err != nil {
				log.Printf("Error marshaling message: %v", err)
				return
			}
			encoded[client.codec] = data
		}
		if !client.enqueue(data) {
			log.Printf("Client send buffer full for %s in match %s, dropping message", client.id, token)
		}
	}
}

// RoomSize returns the number of clients in a match room.
func (h *Hub) RoomSize(token string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[token])
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			token := client.session.Token
			if _, exists := h.rooms[token]; !exists {
				h.rooms[token] = make(map[*Client]bool)
			}
			h.rooms[token][client] = true
			size := len(h.rooms[token])
			h.mu.Unlock()
			log.Printf("[WS] %s connected to match %s (room_size=%d)", client.id, token, size)

		case client := <-h.unregister:
			h.mu.Lock()
			token := client.session.Token
			if room, exists := h.rooms[token]; exists && room[client] {
				delete(room, client)
				if len(room) == 0 {
					delete(h.rooms, token)
				}
				log.Printf("[WS] %s disconnected from match %s", client.id, token)
			}
			h.mu.Unlock()
			client.close()
		}
	}
}

// enqueue queues an encoded frame without blocking. It is safe after close.
func (c *Client) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// sendMessage encodes and queues one message for this client only.
func (c *Client) sendMessage(message interface{}) {
	data, err := c.codec.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message for %s: %v", c.id, err)
		return
	}
	if !c.enqueue(data) {
		log.Printf("[WS] dropped message for %s (buffer full)", c.id)
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(message string) {
	c.sendMessage(map[string]interface{}{
		"type":    "error",
		"message": message,
	})
}

// writePump writes messages to the WebSocket connection
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
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(c.codec.MessageType(), message); err != nil {
				log.Printf("WebSocket write error for %s: %v", c.id, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("WebSocket ping error for %s: %v", c.id, err)
				return
			}
		}
	}
}
