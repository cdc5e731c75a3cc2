package realtime

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"apexcrm/internal/models"
)

// FrameNotification carries a models.Notification to every dashboard.
const FrameNotification = "notification"

type Hub struct {
	mu    sync.RWMutex
	conns map[*Conn]struct{}
	log   *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{conns: make(map[*Conn]struct{}), log: log}
}

func (h *Hub) Register(conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
}

func (h *Hub) Unregister(conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Broadcast queues v on every registered connection.
func (h *Hub) Broadcast(v interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.conns {
		_ = conn.Send(v)
	}
}

// Notify implements services.Notifier.
func (h *Hub) Notify(_ context.Context, n models.Notification) error {
	h.Broadcast(outbound{Type: FrameNotification, Payload: n})
	return nil
}

// CloseAll closes every registered connection, used on shutdown.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	conns := make([]*Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()
	for _, c := range conns {
		c.Close()
	}
}
