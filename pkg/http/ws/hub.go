package ws

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	sendQueueSize = 64
	readTimeout   = 60 * time.Second
	writeTimeout  = 10 * time.Second
	pingInterval  = 30 * time.Second
)

// NewUpgrader returns an upgrader that accepts requests without an Origin
// header, same-host origins and the listed origins. "*" allows every origin.
func NewUpgrader(allowedOrigins []string) *websocket.Upgrader {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.ToLower(strings.TrimRight(strings.TrimSpace(o), "/"))] = struct{}{}
	}
	_, allowAll := allowed["*"]

	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || allowAll {
				return true
			}
			if _, ok := allowed[strings.ToLower(origin)]; ok {
				return true
			}
			u, err := url.Parse(origin)
			return err == nil && strings.EqualFold(u.Host, r.Host)
		},
	}
}

// Hub tracks websocket connections per game session and fans messages out to them.
type Hub struct {
	mu          sync.RWMutex
	connections map[string]*Connection         // connection_id -> connection
	sessions    map[string]map[string]struct{} // session_id -> connection_ids
	logger      zerolog.Logger
}

// NewHub creates a new WebSocket hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		connections: make(map[string]*Connection),
		sessions:    make(map[string]map[string]struct{}),
		logger:      logger.With().Str("component", "ws_hub").Logger(),
	}
}

// Join registers conn as a watcher of sessionID.
func (h *Hub) Join(sessionID string, conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn.sessionID = sessionID
	h.connections[conn.ID] = conn
	watchers, ok := h.sessions[sessionID]
	if !ok {
		watchers = make(map[string]struct{})
		h.sessions[sessionID] = watchers
	}
	watchers[conn.ID] = struct{}{}
	h.logger.Debug().Str("session_id", sessionID).Str("connection_id", conn.ID).Msg("connection joined")
}

// Leave closes and forgets the connection.
func (h *Hub) Leave(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, exists := h.connections[connID]
	if !exists {
		return
	}
	conn.Close()
	delete(h.connections, connID)

	if watchers, ok := h.sessions[conn.sessionID]; ok {
		delete(watchers, connID)
		if len(watchers) == 0 {
			delete(h.sessions, conn.sessionID)
		}
	}
	h.logger.Debug().Str("session_id", conn.sessionID).Str("connection_id", connID).Msg("connection left")
}

// BroadcastToSession queues msg for every watcher of sessionID. Slow watchers whose
// queue is full miss the message; the next state push supersedes it.
func (h *Hub) BroadcastToSession(sessionID string, msg Message) error {
	h.mu.RLock()
	conns := make([]*Connection, 0, len(h.sessions[sessionID]))
	for id := range h.sessions[sessionID] {
		conns = append(conns, h.connections[id])
	}
	h.mu.RUnlock()

	var firstErr error
	for _, conn := range conns {
		if err := conn.Send(msg); err != nil {
			h.logger.Warn().Err(err).Str("session_id", sessionID).Str("connection_id", conn.ID).Msg("broadcast send failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Watchers returns the number of connections watching sessionID.
func (h *Hub) Watchers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// Connection represents a WebSocket connection with send queue.
type Connection struct {
	ID        string
	sessionID string

	conn   *websocket.Conn
	sendCh chan Message
	mu     sync.Mutex
	closed bool
	logger zerolog.Logger
}

// NewConnection wraps a WebSocket connection.
func NewConnection(conn *websocket.Conn, logger zerolog.Logger) *Connection {
	id := uuid.NewString()
	return &Connection{
		ID:     id,
		conn:   conn,
		sendCh: make(chan Message, sendQueueSize),
		logger: logger.With().Str("connection_id", id).Logger(),
	}
}

// Send queues a message for delivery.
func (c *Connection) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.sendCh <- msg:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// Close shuts down the connection.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	close(c.sendCh)
	_ = c.conn.Close()
}

// WritePump sends queued messages and keeps the connection alive with pings.
func (c *Connection) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.sendCh:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Warn().Err(err).Msg("write error")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump receives messages and calls the handler until the peer goes away.
func (c *Connection) ReadPump(handler func(Message) error) {
	defer func() { _ = c.conn.Close() }()

	_ = c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("read error")
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(readTimeout))

		if err := handler(msg); err != nil {
			c.logger.Warn().Err(err).Msg("message handler error")
		}
	}
}

// NewMessage marshals payload into a typed message.
func NewMessage(msgType string, payload any) (Message, error) {
	msg := Message{Type: msgType}
	if payload == nil {
		return msg, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	msg.Payload = data
	return msg, nil
}

var (
	ErrConnectionClosed = &Error{Code: "connection_closed", Message: "Connection is closed"}
	ErrSendQueueFull    = &Error{Code: "send_queue_full", Message: "Send queue is full"}
)

type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}
