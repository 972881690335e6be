package broker

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"restauReserva/internal/modules/appstate/domain"
)

// Dispatcher receives decoded messages along with the topic they were read from.
type Dispatcher interface {
	Dispatch(ctx context.Context, sourceTopic string, msg *domain.Message) error
}

// ConsumerSettings selects the cluster, consumer group and topics to follow.
type ConsumerSettings struct {
	Brokers []string
	GroupID string
	Topics  []string
}

// StartKafkaConsumers runs one consumer per topic until ctx is done. The returned
// function blocks until all of them have closed their readers. Without brokers
// nothing starts.
func StartKafkaConsumers(ctx context.Context, dispatcher Dispatcher, settings ConsumerSettings) (wait func()) {
	var wg sync.WaitGroup
	if len(settings.Brokers) == 0 || len(settings.Topics) == 0 {
		slog.Info("kafka disabled", slog.Int("brokers", len(settings.Brokers)), slog.Int("topics", len(settings.Topics)))
		return wg.Wait
	}
	for _, topic := range settings.Topics {
		consumer := NewKafkaConsumer(settings.Brokers, settings.GroupID, topic)
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := consumer.Consume(ctx, dispatcher.Dispatch)
			if err != nil && !errors.Is(err, context.Canceled) {
				slog.Warn("kafka consumer stopped", slog.String("topic", topic), slog.Any("error", err))
				return
			}
			slog.Info("kafka consumer stopped", slog.String("topic", topic))
		}()
	}
	return wg.Wait
}
