package infrastructure

import (
	"context"
	"log/slog"
	"strings"

	"restauReserva/internal/modules/appstate/application/port"
	"restauReserva/internal/modules/appstate/domain"
)

// HandlerRegistry routes broker messages to the handler registered for their source topic.
type HandlerRegistry struct {
	handlers map[string][]port.TopicHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: make(map[string][]port.TopicHandler)}
}

func (r *HandlerRegistry) Register(h port.TopicHandler) {
	topic := strings.TrimSpace(h.Topic())
	if topic == "" {
		return
	}
	r.handlers[topic] = append(r.handlers[topic], h)
}

// Topics lists the registered source topics.
func (r *HandlerRegistry) Topics() []string {
	topics := make([]string, 0, len(r.handlers))
	for topic := range r.handlers {
		topics = append(topics, topic)
	}
	return topics
}

func (r *HandlerRegistry) Dispatch(ctx context.Context, sourceTopic string, msg *domain.Message) error {
	var firstErr error
	for _, h := range r.handlers[strings.TrimSpace(sourceTopic)] {
		if err := h.Handle(ctx, msg); err != nil {
			slog.Warn("topic handler error", slog.String("topic", sourceTopic), slog.Any("error", err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
