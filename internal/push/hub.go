package push

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/user/frontier-trail/internal/interfaces"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 32
)

// Envelope is the wire format for every pushed event
type Envelope struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans session events out to websocket subscribers. A client that
// cannot keep up has its connection dropped rather than blocking the game.
type Hub struct {
	logger   *zap.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]map[*client]struct{}
}

// NewHub creates an empty hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[string]map[*client]struct{}),
	}
}

// Notify pushes one event to every subscriber of the session
func (h *Hub) Notify(sessionID, event string, payload interface{}) {
	data, err := json.Marshal(Envelope{Event: event, Payload: payload})
	if err != nil {
		h.logger.Error("failed to marshal push event",
			zap.String("event", event),
			zap.Error(err))
		return
	}

	h.mu.RLock()
	subs := h.clients[sessionID]
	targets := make([]*client, 0, len(subs))
	for c := range subs {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		select {
		case c.send <- data:
		default:
			// Slow consumer, cut it loose
			h.unregister(sessionID, c)
		}
	}
}

// HandleWS upgrades an HTTP request into a session event subscription.
// The session_id query parameter selects the stream.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBufferSize)}
	h.register(sessionID, c)
	h.logger.Info("websocket subscribed", zap.String("session_id", sessionID))

	go h.writeLoop(sessionID, c)
	go h.readLoop(sessionID, c)
}

func (h *Hub) register(sessionID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.clients[sessionID]
	if !ok {
		subs = make(map[*client]struct{})
		h.clients[sessionID] = subs
	}
	subs[c] = struct{}{}
}

func (h *Hub) unregister(sessionID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.clients[sessionID]
	if !ok {
		return
	}
	if _, present := subs[c]; !present {
		return
	}
	delete(subs, c)
	if len(subs) == 0 {
		delete(h.clients, sessionID)
	}
	close(c.send)
}

// readLoop drains inbound frames; the stream is push-only, so reads exist
// to surface disconnects and feed pong handling.
func (h *Hub) readLoop(sessionID string, c *client) {
	defer func() {
		h.unregister(sessionID, c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(sessionID string, c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

var _ interfaces.Notifier = (*Hub)(nil)
