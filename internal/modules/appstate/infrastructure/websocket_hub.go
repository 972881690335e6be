package infrastructure

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"restauReserva/internal/modules/appstate/domain"
)

// AllTopics subscribes a client to every message.
const AllTopics = "*"

// Hub fans store change messages out to attached websocket clients, one per session.
// A client receives a message when it subscribed to the exact topic, to the topic's
// entity ("reservations" covers "reservations.created") or to AllTopics.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Client
	onCount  func(int)
}

func NewHub() *Hub {
	return &Hub{sessions: make(map[string]*Client)}
}

// ObserveClientCount installs fn, called with the number of attached sessions whenever
// it changes. fn runs under the hub lock and must not call back into the hub.
func (h *Hub) ObserveClientCount(fn func(int)) {
	h.mu.Lock()
	h.onCount = fn
	h.mu.Unlock()
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// AttachClient registers c under its session, closing any older connection of the same
// session, and subscribes it to topics.
func (h *Hub) AttachClient(c *Client, topics []string) {
	h.mu.Lock()
	previous, replaced := h.sessions[c.sessionID]
	h.sessions[c.sessionID] = c
	for _, topic := range topics {
		if topic = strings.TrimSpace(topic); topic != "" {
			c.subscribed[topic] = struct{}{}
		}
	}
	if !replaced && h.onCount != nil {
		h.onCount(len(h.sessions))
	}
	h.mu.Unlock()

	if replaced && previous != c {
		previous.close()
		slog.Info("ws session replaced", slog.String("sessionId", c.sessionID))
	}
	slog.Info("ws client attached", slog.String("sessionId", c.sessionID), slog.Any("topics", topics))
}

func (h *Hub) AttachClientToAll(c *Client) {
	h.AttachClient(c, []string{AllTopics})
}

func (h *Hub) subscribe(c *Client, topic string) {
	h.mu.Lock()
	c.subscribed[topic] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unsubscribe(c *Client, topic string) {
	h.mu.Lock()
	delete(c.subscribed, topic)
	h.mu.Unlock()
}

// detachClient drops c if it still owns its session and closes it either way.
func (h *Hub) detachClient(c *Client) {
	if c == nil {
		return
	}
	h.mu.Lock()
	if current, ok := h.sessions[c.sessionID]; ok && current == c {
		delete(h.sessions, c.sessionID)
		if h.onCount != nil {
			h.onCount(len(h.sessions))
		}
	}
	h.mu.Unlock()
	c.close()
	slog.Info("ws client detached", slog.String("sessionId", c.sessionID))
}

// Broadcast delivers msg to every matching client, or only to the session named in
// msg.Metadata["sessionId"]. Clients whose queue is full are detached.
func (h *Hub) Broadcast(_ context.Context, msg *domain.Message) {
	if msg == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("broadcast marshal error", slog.String("topic", msg.Topic), slog.Any("error", err))
		return
	}
	target := strings.TrimSpace(msg.Metadata["sessionId"])
	entity, _ := domain.SplitTopic(msg.Topic)

	h.mu.RLock()
	recipients := make([]*Client, 0, len(h.sessions))
	for session, c := range h.sessions {
		if target != "" && session != target {
			continue
		}
		if c.wants(msg.Topic, entity) {
			recipients = append(recipients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range recipients {
		if !c.enqueue(data) {
			slog.Warn("ws client too slow, detaching", slog.String("sessionId", c.sessionID))
			go h.detachClient(c)
		}
	}
}
