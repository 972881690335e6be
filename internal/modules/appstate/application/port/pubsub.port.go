package port

import (
	"context"
	"time"

	"restauReserva/internal/modules/appstate/domain"
)

// ChangeNotifier receives every successful cache change.
type ChangeNotifier interface {
	Broadcast(ctx context.Context, msg *domain.Message)
}

// OperationRecorder observes store operations for metrics.
type OperationRecorder interface {
	ObserveOperation(operation, outcome string, elapsed time.Duration)
	SetCacheSize(entity string, size int)
}

// TopicHandler handles server change events consumed from a broker topic.
type TopicHandler interface {
	Topic() string
	Handle(ctx context.Context, msg *domain.Message) error
}
