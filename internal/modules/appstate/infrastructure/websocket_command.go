package infrastructure

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"restauReserva/internal/modules/appstate/domain"
)

// Command is a JSON frame sent by a front end, e.g. {"action":"subscribe","topics":["reservations"]}.
type Command struct {
	Action string   `json:"action"`
	Topic  string   `json:"topic,omitempty"`
	Topics []string `json:"topics,omitempty"`
}

// targets merges Topic and Topics, trimmed and without blanks.
func (cmd Command) targets() []string {
	out := make([]string, 0, len(cmd.Topics)+1)
	for _, topic := range append([]string{cmd.Topic}, cmd.Topics...) {
		if topic = strings.TrimSpace(topic); topic != "" {
			out = append(out, topic)
		}
	}
	return out
}

type CommandHandler func(ctx context.Context, client *Client, cmd Command)

// CommandProcessor routes client commands by action, case-insensitively.
type CommandProcessor struct {
	hub      *Hub
	handlers map[string]CommandHandler
	now      func() time.Time
}

// NewCommandProcessor comes with subscribe, unsubscribe and ping.
func NewCommandProcessor(hub *Hub) *CommandProcessor {
	p := &CommandProcessor{hub: hub, handlers: make(map[string]CommandHandler), now: time.Now}
	p.Register("subscribe", p.subscribe)
	p.Register("unsubscribe", p.unsubscribe)
	p.Register("ping", func(_ context.Context, client *Client, _ Command) {
		client.Send(domain.NewMessage(domain.SystemEntity, domain.ActionPong, "", nil, p.now()))
	})
	return p
}

func (p *CommandProcessor) Register(action string, handler CommandHandler) {
	if key := strings.ToLower(strings.TrimSpace(action)); key != "" && handler != nil {
		p.handlers[key] = handler
	}
}

func (p *CommandProcessor) Process(client *Client, cmd Command) {
	if client == nil {
		return
	}
	action := strings.ToLower(strings.TrimSpace(cmd.Action))
	handler, ok := p.handlers[action]
	if !ok {
		slog.Debug("ws command ignored", slog.String("sessionId", client.sessionID), slog.String("action", action))
		return
	}
	handler(context.Background(), client, cmd)
}

// subscribe acknowledges with system.subscribed listing the added topics.
func (p *CommandProcessor) subscribe(_ context.Context, client *Client, cmd Command) {
	topics := cmd.targets()
	if len(topics) == 0 {
		return
	}
	for _, topic := range topics {
		p.hub.subscribe(client, topic)
	}
	slog.Debug("ws subscribe", slog.String("sessionId", client.sessionID), slog.Any("topics", topics))
	client.Send(domain.NewMessage(domain.SystemEntity, domain.ActionSubscribed, "", map[string]any{"topics": topics}, p.now()))
}

func (p *CommandProcessor) unsubscribe(_ context.Context, client *Client, cmd Command) {
	for _, topic := range cmd.targets() {
		p.hub.unsubscribe(client, topic)
	}
}
