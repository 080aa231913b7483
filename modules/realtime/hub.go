package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/contrib/websocket"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// deadlineConn is implemented by connections that support write deadlines.
type deadlineConn interface {
	SetWriteDeadline(t time.Time) error
}

const (
	// clientBuffer is how many frames may wait for a slow client before it
	// is dropped.
	clientBuffer = 64
	writeWait    = 10 * time.Second
)

// Client is one connected websocket, owned by a signed-in user.
type Client struct {
	ID     string
	UserID string
	Conn   Conn

	send chan []byte
}

// Notification is the JSON frame pushed to clients.
type Notification struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"order_id,omitempty"`
	OrderIDs   []string  `json:"order_ids,omitempty"`
	ItemID     string    `json:"item_id,omitempty"`
	ProductID  string    `json:"product_id,omitempty"`
	ProductIDs []string  `json:"product_ids,omitempty"`
	Status     string    `json:"status,omitempty"`
	UserID     string    `json:"user_id,omitempty"`
	At         time.Time `json:"at"`
}

type delivery struct {
	userID       string
	notification Notification
}

// Hub tracks connected clients by user and fans notifications out to them.
// Each client has its own outbound queue drained by a writer goroutine, so a
// stalled connection never holds up the others.
type Hub struct {
	clients    map[string]*Client
	users      map[string]map[string]struct{}
	register   chan *Client
	unregister chan *Client
	deliver    chan delivery
	done       chan struct{}
	mu         sync.RWMutex
	logger     types.Logger
}

// NewHub creates a hub. Call Run to start it.
func NewHub(logger types.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		users:      make(map[string]map[string]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan delivery, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes registrations and deliveries until ctx is cancelled, then
// closes every connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return
		case c := <-h.register:
			h.add(c)
		case c := <-h.unregister:
			h.remove(c)
		case d := <-h.deliver:
			h.send(d)
		}
	}
}

// Wait blocks until Run has returned.
func (h *Hub) Wait() {
	<-h.done
}

// Register adds a client. It is a no-op once the hub stopped.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// Unregister removes a client. It is a no-op once the hub stopped.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast queues a notification for every client.
func (h *Hub) Broadcast(n Notification) {
	h.queue(delivery{notification: n})
}

// Notify queues a notification for the clients of one user.
func (h *Hub) Notify(userID string, n Notification) {
	h.queue(delivery{userID: userID, notification: n})
}

func (h *Hub) queue(d delivery) {
	select {
	case h.deliver <- d:
	case <-h.done:
	}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c.send = make(chan []byte, clientBuffer)
	h.clients[c.ID] = c
	go h.writePump(c)
	if h.users[c.UserID] == nil {
		h.users[c.UserID] = make(map[string]struct{})
	}
	h.users[c.UserID][c.ID] = struct{}{}
	h.logger.Debug("Client registered", "client_id", c.ID, "user_id", c.UserID)
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *Client) {
	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	delete(h.clients, c.ID)
	close(c.send)
	if ids := h.users[c.UserID]; ids != nil {
		delete(ids, c.ID)
		if len(ids) == 0 {
			delete(h.users, c.UserID)
		}
	}
	h.logger.Debug("Client unregistered", "client_id", c.ID, "user_id", c.UserID)
}

func (h *Hub) send(d delivery) {
	data, err := json.Marshal(d.notification)
	if err != nil {
		h.logger.Error("Failed to marshal notification", "type", d.notification.Type, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	var targets []*Client
	if d.userID == "" {
		for _, c := range h.clients {
			targets = append(targets, c)
		}
	} else {
		for id := range h.users[d.userID] {
			targets = append(targets, h.clients[id])
		}
	}

	for _, c := range targets {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("Dropping slow client", "client_id", c.ID, "user_id", c.UserID)
			_ = c.Conn.Close()
			h.removeLocked(c)
		}
	}
}

// writePump writes queued frames to one connection until its queue is
// closed or a write fails.
func (h *Hub) writePump(c *Client) {
	for data := range c.send {
		if dc, ok := c.Conn.(deadlineConn); ok {
			_ = dc.SetWriteDeadline(time.Now().Add(writeWait))
		}
		if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Warn("Dropping client after failed write", "client_id", c.ID, "error", err)
			_ = c.Conn.Close()
			h.Unregister(c)
			return
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, c := range h.clients {
		close(c.send)
		_ = c.Conn.Close()
	}
	h.clients = make(map[string]*Client)
	h.users = make(map[string]map[string]struct{})
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// UserClientCount returns the number of connections a user holds.
func (h *Hub) UserClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}
