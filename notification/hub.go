package notification

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

// Message is the wire format pushed to connected clients.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Client is one websocket connection belonging to an owner. The client
// reports its notification permission with a {"type":"permission"}
// message after connecting; until then it receives no popups.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	ownerID string
	granted atomic.Bool
}

func NewClient(hub *Hub, conn *websocket.Conn, ownerID string) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, 16),
		ownerID: ownerID,
	}
}

// ReadPump pumps messages from the websocket connection to the hub.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.WithError(err).Warn("websocket read error")
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.hub.log.WithError(err).Warn("invalid websocket message")
			continue
		}

		if msg.Type == "permission" {
			state, _ := msg.Data.(string)
			c.granted.Store(state == "granted")
		}
	}
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Hub tracks connected clients per owner and implements the Browser
// channel on top of them.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]bool
	log     *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]bool),
		log:     log,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[c.ownerID] == nil {
		h.clients[c.ownerID] = make(map[*Client]bool)
	}
	h.clients[c.ownerID][c] = true
	h.log.WithField("owner", c.ownerID).Info("client connected")
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	owned, ok := h.clients[c.ownerID]
	if !ok || !owned[c] {
		return
	}
	delete(owned, c)
	if len(owned) == 0 {
		delete(h.clients, c.ownerID)
	}
	close(c.send)
	h.log.WithField("owner", c.ownerID).Info("client disconnected")
}

// RequestPermission asks the owner's clients to prompt for notification
// permission. It reports whether the channel is usable at all, i.e. the
// owner has at least one connection.
func (h *Hub) RequestPermission(ctx context.Context, ownerID string) bool {
	delivered := h.push(ownerID, Message{Type: "notification-permission-request"}, false)
	return delivered > 0
}

// Show pushes a popup to every connected client of the owner that has
// granted permission. No client, no permission: silent drop.
func (h *Hub) Show(ownerID, title, body string) {
	h.push(ownerID, Message{
		Type: "notification",
		Data: map[string]string{"title": title, "body": body},
	}, true)
}

func (h *Hub) push(ownerID string, msg Message, grantedOnly bool) int {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.log.WithError(err).Warn("marshal websocket message")
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for c := range h.clients[ownerID] {
		if grantedOnly && !c.granted.Load() {
			continue
		}
		select {
		case c.send <- payload:
			delivered++
		default:
			// Slow client; drop rather than block the dispatcher.
		}
	}
	return delivered
}
