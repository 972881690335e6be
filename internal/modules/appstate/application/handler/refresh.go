package handler

import (
	"context"
	"log/slog"
	"strings"

	"restauReserva/internal/modules/appstate/domain"
	restaurantdomain "restauReserva/internal/modules/restaurants/domain"
	"restauReserva/internal/shared/normalization"
)

// Refresher is the part of the store a server change event can trigger.
type Refresher interface {
	LoadRestaurants(ctx context.Context, filter restaurantdomain.Filter) error
	ActiveFilter() restaurantdomain.Filter
	LoadReservations(ctx context.Context) error
	ReservationsLoaded() bool
}

// RefreshHandler reloads the cached collection named by a Kafka topic whenever the
// server reports a change to it.
type RefreshHandler struct {
	entity         string
	kafkaTopic     string
	allowedActions map[string]struct{}
	store          Refresher
}

func NewRefreshHandler(entity, kafkaTopic string, allowedActions []string, store Refresher) *RefreshHandler {
	actionSet := make(map[string]struct{}, len(allowedActions))
	for _, a := range allowedActions {
		if v := strings.TrimSpace(strings.ToLower(a)); v != "" {
			actionSet[v] = struct{}{}
		}
	}
	return &RefreshHandler{
		entity:         normalization.NormalizeEntity(entity),
		kafkaTopic:     strings.TrimSpace(kafkaTopic),
		allowedActions: actionSet,
		store:          store,
	}
}

func (h *RefreshHandler) Topic() string { return h.kafkaTopic }

func (h *RefreshHandler) Handle(ctx context.Context, msg *domain.Message) error {
	if msg == nil {
		return nil
	}
	if len(h.allowedActions) > 0 {
		if _, ok := h.allowedActions[strings.ToLower(msg.Action)]; !ok {
			return nil
		}
	}
	entity := h.entity
	if entity == "" {
		topicEntity, _ := domain.SplitTopic(msg.Topic)
		entity = normalization.NormalizeEntity(normalization.FirstNonEmpty(msg.Entity, topicEntity))
	}

	switch entity {
	case normalization.EntityRestaurants:
		filter := h.store.ActiveFilter()
		slog.Info("refresh restaurants", slog.String("action", msg.Action), slog.String("resourceId", msg.ResourceID), slog.String("city", filter.City), slog.String("letter", filter.Letter))
		return h.store.LoadRestaurants(ctx, filter)
	case normalization.EntityReservations:
		if !h.store.ReservationsLoaded() {
			slog.Debug("refresh reservations skipped, collection not loaded", slog.String("action", msg.Action))
			return nil
		}
		slog.Info("refresh reservations", slog.String("action", msg.Action), slog.String("resourceId", msg.ResourceID))
		return h.store.LoadReservations(ctx)
	default:
		slog.Debug("refresh ignored", slog.String("entity", entity), slog.String("topic", msg.Topic))
		return nil
	}
}
