// Package ws implements the websocket hub that pushes newly created auctions
// to connected clubs. Delivery is fire and forget: a club that is offline or
// slow simply misses the push and can still find the auction through the
// open-auction listing.
package ws

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Hub tracks the websocket connections of clubs keyed by club id. A club may
// hold several connections (multiple devices); every one receives each push.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{} // clubID -> connections
}

// Client is one club connection. Outbound messages go through the buffered
// Send channel so one slow connection never blocks a broadcast.
type Client struct {
	ClubID string
	Conn   *websocket.Conn
	Send   chan []byte
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*Client]struct{})}
}

// Register adds a client and starts its write pump. The caller owns the read
// side and must call Unregister when the connection drops.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	set, ok := h.clients[c.ClubID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.ClubID] = set
	}
	set[c] = struct{}{}
	h.mu.Unlock()
	go c.writePump()
}

// Unregister removes a client and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if set, ok := h.clients[c.ClubID]; ok {
		if _, present := set[c]; present {
			delete(set, c)
			close(c.Send)
		}
		if len(set) == 0 {
			delete(h.clients, c.ClubID)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

// SendToClub delivers payload to every live connection of one club. Full
// send buffers are skipped; the club still sees the auction via the listing.
func (h *Hub) SendToClub(clubID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[clubID] {
		select {
		case c.Send <- payload:
		default:
			log.Printf("ws: dropping message for club %s, send buffer full", clubID)
		}
	}
}

// ConnectionCount reports how many connections a club currently holds.
func (h *Hub) ConnectionCount(clubID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[clubID])
}

// writePump forwards queued messages to the connection and keeps it alive
// with periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
