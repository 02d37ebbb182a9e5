package notifications

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"chirper/internal/middleware"

	"github.com/gofiber/websocket/v2"
)

const maxTotalConns = 10000

// ErrConnectionLimit is returned by Register when the hub is full.
var ErrConnectionLimit = errors.New("server connection limit reached")

// Hub tracks the connected event stream clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	limit   int
	closed  bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{}), limit: maxTotalConns}
}

// Register adds a connection to the hub.
func (h *Hub) Register(conn *websocket.Conn, userID uint) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed || len(h.clients) >= h.limit {
		return nil, ErrConnectionLimit
	}

	client := NewClient(h, conn, userID)
	h.clients[client] = struct{}{}
	middleware.ActiveWebSockets.Inc()
	return client, nil
}

// UnregisterClient removes the client and closes its send channel.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)
	middleware.ActiveWebSockets.Dec()
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastAll sends message to every connected client.
func (h *Hub) BroadcastAll(message string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	data := []byte(message)
	for c := range h.clients {
		c.TrySend(data)
	}
}

// StartWiring forwards every comment event published through n to the
// connected clients.
func (h *Hub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartEventSubscriber(ctx, func(_ string, payload string) {
		h.BroadcastAll(payload)
	})
}

// Shutdown closes every client's send channel, which makes its write pump
// send a close frame, and empties the hub. Later registrations are refused.
func (h *Hub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for client := range h.clients {
		close(client.Send)
		middleware.ActiveWebSockets.Dec()
	}
	if n := len(h.clients); n > 0 {
		middleware.Logger.Info("closed websocket clients", slog.Int("count", n))
	}
	h.clients = make(map[*Client]struct{})
	return nil
}
