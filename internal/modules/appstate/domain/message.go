package domain

import "time"

// Message is a cache change event pushed to websocket subscribers and read from Kafka.
type Message struct {
	Topic      string            `json:"topic"`
	Entity     string            `json:"entity"`
	Action     string            `json:"action"`
	ResourceID string            `json:"resourceId,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Data       any               `json:"data,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// NewMessage composes a message whose topic is derived from entity and action.
func NewMessage(entity, action, resourceID string, data any, at time.Time) *Message {
	return &Message{
		Topic:      CustomTopic(entity, action),
		Entity:     entity,
		Action:     action,
		ResourceID: resourceID,
		Data:       data,
		Timestamp:  at.UTC(),
	}
}
