// Package notify pushes change events to a user's open WebSocket connections.
// Delivery is best effort: a frame for a connection whose send queue is full is
// dropped, and nothing is replayed on reconnect.
package notify

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"finsight/internal/logger"
	"finsight/internal/metrics"
)

// Event types.
const (
	TypeConnection      = "connection"
	TypeExpenseUpdate   = "expense_update"
	TypeInsightsUpdate  = "insights_update"
	TypeAnalyticsUpdate = "analytics_update"
	TypePing            = "ping"
	TypePong            = "pong"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 16
)

// Message is the frame written to clients.
type Message struct {
	Type      string    `json:"type"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub tracks open connections by user id.
type Hub struct {
	mu       sync.RWMutex
	conns    map[string]map[*conn]struct{}
	upgrader websocket.Upgrader
	log      *zap.SugaredLogger
	now      func() time.Time
}

// NewHub creates a Hub. allowedOrigin "*" accepts any Origin header.
func NewHub(allowedOrigin string) *Hub {
	return &Hub{
		conns: make(map[string]map[*conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "*" || origin == "" || origin == allowedOrigin
			},
		},
		log: logger.Named("notify"),
		now: time.Now,
	}
}

// ServeWS upgrades the request and registers the connection for userID. The
// caller must have authenticated the request.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string) error {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &conn{hub: h, ws: ws, userID: userID, send: make(chan []byte, sendBuffer)}
	h.register(c)

	go c.writePump()
	go c.readPump()

	c.enqueue(h.frame(TypeConnection, map[string]string{"message": "Connected to real-time updates"}))
	return nil
}

// Publish sends an event to every connection of userID.
func (h *Hub) Publish(userID, eventType string, data any) {
	frame := h.frame(eventType, data)
	if frame == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns[userID] {
		c.enqueue(frame)
	}
}

// BroadcastAll sends an event to every open connection.
func (h *Hub) BroadcastAll(eventType string, data any) {
	frame := h.frame(eventType, data)
	if frame == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, set := range h.conns {
		for c := range set {
			c.enqueue(frame)
		}
	}
}

// ConnectionCount returns the number of open connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.conns {
		n += len(set)
	}
	return n
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	var all []*conn
	for _, set := range h.conns {
		for c := range set {
			all = append(all, c)
		}
	}
	h.mu.Unlock()
	for _, c := range all {
		h.unregister(c)
	}
}

func (h *Hub) frame(eventType string, data any) []byte {
	b, err := json.Marshal(Message{Type: eventType, Data: data, Timestamp: h.now().UTC()})
	if err != nil {
		h.log.Errorw("failed to encode frame", "type", eventType, "error", err)
		return nil
	}
	return b
}

func (h *Hub) register(c *conn) {
	h.mu.Lock()
	set, ok := h.conns[c.userID]
	if !ok {
		set = make(map[*conn]struct{})
		h.conns[c.userID] = set
	}
	set[c] = struct{}{}
	h.mu.Unlock()
	metrics.WSConnections.Inc()
	h.log.Debugw("client connected", "user_id", c.userID)
}

func (h *Hub) unregister(c *conn) {
	h.mu.Lock()
	set, ok := h.conns[c.userID]
	if ok {
		if _, present := set[c]; present {
			delete(set, c)
			if len(set) == 0 {
				delete(h.conns, c.userID)
			}
			metrics.WSConnections.Dec()
		}
	}
	h.mu.Unlock()
	c.close()
}
