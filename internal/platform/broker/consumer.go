package broker

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"restauReserva/internal/modules/appstate/domain"
	"restauReserva/internal/shared/identity"
	"restauReserva/internal/shared/normalization"
)

const readRetryDelay = time.Second

type KafkaConsumer struct {
	reader *kafka.Reader
	topic  string
}

func NewKafkaConsumer(brokers []string, groupID string, topic string) *KafkaConsumer {
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
		}),
		topic: topic,
	}
}

// Consume reads until ctx is done, handing each decoded message to handler with its source topic.
func (c *KafkaConsumer) Consume(ctx context.Context, handler func(ctx context.Context, sourceTopic string, msg *domain.Message) error) error {
	defer c.reader.Close()
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("kafka read error", slog.String("topic", c.topic), slog.Any("error", err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(readRetryDelay):
			}
			continue
		}
		msg := decodeMessage(m, time.Now())
		slog.Info("kafka message consumed",
			slog.String("topic", m.Topic),
			slog.Int("partition", m.Partition),
			slog.Int64("offset", m.Offset),
			slog.String("entity", msg.Entity),
			slog.String("action", msg.Action),
			slog.String("resourceId", msg.ResourceID),
		)
		if err := handler(ctx, m.Topic, msg); err != nil {
			slog.Warn("kafka handler error", slog.String("topic", m.Topic), slog.Any("error", err))
		}
	}
}

type rawEvent struct {
	Entity     string            `json:"entity"`
	Action     string            `json:"action"`
	ResourceID identity.ID       `json:"resourceId"`
	Topic      string            `json:"topic"`
	Metadata   map[string]string `json:"metadata"`
	Data       any               `json:"data"`
}

// decodeMessage turns a Kafka record into a domain message. Payloads that are not JSON
// events fall back to the entity and action encoded in the topic name.
func decodeMessage(m kafka.Message, now time.Time) *domain.Message {
	msg := &domain.Message{Timestamp: now.UTC()}

	var event rawEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		entity, action := inferEntityActionFromTopic(m.Topic)
		msg.Entity = entity
		msg.Action = action
		msg.Topic = domain.CustomTopic(entity, action)
		msg.Data = string(m.Value)
		return msg
	}

	topicEntity, topicAction := inferEntityActionFromTopic(m.Topic)
	msg.Entity = normalization.NormalizeEntity(normalization.FirstNonEmpty(event.Entity, topicEntity))
	msg.Action = strings.ToLower(normalization.FirstNonEmpty(event.Action, topicAction, "unknown"))
	msg.ResourceID = event.ResourceID.String()
	msg.Metadata = event.Metadata
	msg.Data = event.Data
	if payload := normalization.MapFromPayload(event.Data); payload != nil {
		msg.Data = payload
		if msg.ResourceID == "" {
			msg.ResourceID = normalization.AsString(payload["id"])
		}
	}
	msg.Topic = normalization.FirstNonEmpty(event.Topic, domain.CustomTopic(msg.Entity, msg.Action))
	return msg
}

// inferEntityActionFromTopic reads "<prefix>.<entity>.<action>" or "<prefix>.<entity>" topic names.
func inferEntityActionFromTopic(topic string) (string, string) {
	parts := strings.Split(strings.TrimSpace(topic), ".")
	for i := len(parts) - 1; i >= 0; i-- {
		if normalization.IsCachedEntity(parts[i]) {
			entity := normalization.NormalizeEntity(parts[i])
			if i+1 < len(parts) && strings.TrimSpace(parts[i+1]) != "" {
				return entity, strings.ToLower(strings.TrimSpace(parts[i+1]))
			}
			return entity, "unknown"
		}
	}
	if len(parts) >= 2 {
		entity := strings.TrimSpace(parts[len(parts)-2])
		action := strings.TrimSpace(parts[len(parts)-1])
		if entity != "" && action != "" {
			return normalization.NormalizeEntity(entity), strings.ToLower(action)
		}
	}
	return normalization.NormalizeEntity(parts[len(parts)-1]), "unknown"
}
