package net

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"lost-and-hound/server/internal/world"
)

const (
	writeWait      = 5 * time.Second
	subscriberSlop = 8
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// subscriber is one connected state-stream client. Each has a private
// send queue so a slow client cannot stall the broadcast fan-out.
type subscriber struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub fans simulation snapshots out to WebSocket subscribers. Clients
// that fall behind their queue are evicted rather than back-pressuring
// the tick loop.
type Hub struct {
	logger *zap.Logger

	mu          sync.Mutex
	subscribers map[string]*subscriber
}

// NewHub builds an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		logger:      logger,
		subscribers: make(map[string]*subscriber),
	}
}

// Broadcast serializes the snapshot once and queues it to every
// subscriber. Meant to run as the loop's after-tick hook.
func (h *Hub) Broadcast(snap world.Snapshot) {
	payload, err := json.Marshal(snap)
	if err != nil {
		h.logger.Error("marshal snapshot", zap.Error(err))
		return
	}

	h.mu.Lock()
	var stale []*subscriber
	for _, sub := range h.subscribers {
		select {
		case sub.send <- payload:
		default:
			stale = append(stale, sub)
		}
	}
	for _, sub := range stale {
		delete(h.subscribers, sub.id)
		close(sub.send)
	}
	h.mu.Unlock()

	for _, sub := range stale {
		h.logger.Info("evicting slow subscriber", zap.String("id", sub.id))
		sub.conn.Close()
	}
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subscribers))
	for _, sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.subscribers = make(map[string]*subscriber)
	h.mu.Unlock()

	for _, sub := range subs {
		close(sub.send)
		sub.conn.Close()
	}
}

func (h *Hub) handleUpgrade(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	sub := &subscriber{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, subscriberSlop),
	}

	h.mu.Lock()
	h.subscribers[sub.id] = sub
	h.mu.Unlock()

	h.logger.Info("subscriber connected", zap.String("id", sub.id))

	go h.writePump(sub)
	go h.readPump(sub)
}

// writePump drains the subscriber's queue onto the wire.
func (h *Hub) writePump(sub *subscriber) {
	for payload := range sub.send {
		sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := sub.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.remove(sub)
			return
		}
	}
}

// readPump discards inbound frames and detects disconnects. The state
// stream is one-way; all commands arrive over HTTP.
func (h *Hub) readPump(sub *subscriber) {
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			h.remove(sub)
			return
		}
	}
}

// remove unregisters the subscriber and releases its connection. Safe
// to call from both pumps; only the first call does the teardown.
func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	_, live := h.subscribers[sub.id]
	if live {
		delete(h.subscribers, sub.id)
		close(sub.send)
	}
	h.mu.Unlock()

	if live {
		h.logger.Info("subscriber disconnected", zap.String("id", sub.id))
		sub.conn.Close()
	}
}
