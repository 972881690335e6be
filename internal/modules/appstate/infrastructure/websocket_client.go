package infrastructure

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"restauReserva/internal/modules/appstate/domain"
)

const (
	defaultQueue  = 16
	maxFrameBytes = 1 << 16
	pingEvery     = 30 * time.Second
	pongWait      = 60 * time.Second
	writeWait     = 5 * time.Second
)

// Client is one front-end connection. Outbound messages go through a bounded queue
// drained by a single writer goroutine.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	sessionID string
	commands  *CommandProcessor

	// subscribed is guarded by hub.mu.
	subscribed map[string]struct{}

	queueMu sync.RWMutex
	queue   chan []byte
	closed  bool
	once    sync.Once
}

// NewClient wraps conn with an outbound queue of size messages.
func NewClient(hub *Hub, conn *websocket.Conn, sessionID string, size int, commands *CommandProcessor) *Client {
	if size <= 0 {
		size = defaultQueue
	}
	return &Client{
		hub:        hub,
		conn:       conn,
		sessionID:  sessionID,
		commands:   commands,
		subscribed: make(map[string]struct{}),
		queue:      make(chan []byte, size),
	}
}

func (c *Client) SessionID() string { return c.sessionID }

func (c *Client) wants(topic, entity string) bool {
	for _, key := range [...]string{AllTopics, topic, entity} {
		if _, ok := c.subscribed[key]; ok {
			return true
		}
	}
	return false
}

// Send queues msg for this client only.
func (c *Client) Send(msg *domain.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("ws marshal error", slog.String("sessionId", c.sessionID), slog.Any("error", err))
		return
	}
	if !c.enqueue(data) {
		slog.Warn("ws client queue full", slog.String("sessionId", c.sessionID))
		go c.hub.detachClient(c)
	}
}

// enqueue reports false only when the queue is full; a closed client drops silently.
func (c *Client) enqueue(data []byte) bool {
	c.queueMu.RLock()
	defer c.queueMu.RUnlock()
	if c.closed {
		return true
	}
	select {
	case c.queue <- data:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.once.Do(func() {
		c.queueMu.Lock()
		c.closed = true
		close(c.queue)
		c.queueMu.Unlock()
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

// Run starts the writer and blocks reading commands until the connection ends,
// then detaches the client.
func (c *Client) Run() {
	go c.writeLoop()
	c.readLoop()
}

func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingEvery)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-c.queue:
			if !ok {
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				slog.Warn("ws write error", slog.String("sessionId", c.sessionID), slog.Any("error", err))
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				slog.Warn("ws ping error", slog.String("sessionId", c.sessionID), slog.Any("error", err))
				return
			}
		}
	}
}

func (c *Client) readLoop() {
	defer c.hub.detachClient(c)

	c.conn.SetReadLimit(maxFrameBytes)
	extend := func(string) error { return c.conn.SetReadDeadline(time.Now().Add(pongWait)) }
	_ = extend("")
	c.conn.SetPongHandler(extend)

	for {
		var cmd Command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("ws read error", slog.String("sessionId", c.sessionID), slog.Any("error", err))
			}
			return
		}
		_ = extend("")
		if c.commands != nil {
			c.commands.Process(c, cmd)
		}
	}
}
