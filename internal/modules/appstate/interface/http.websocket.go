package transport

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"restauReserva/internal/modules/appstate/domain"
	"restauReserva/internal/modules/appstate/infrastructure"
)

const (
	actionSnapshot = "snapshot"
	clientBuffer   = 16
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamState streams store change events. ?topics=a,b limits the stream to those
// topics or entities; without it the client receives everything. ?session= lets a reconnecting client
// replace its previous connection.
func (h *Handler) streamState(c echo.Context) error {
	sessionID := strings.TrimSpace(c.QueryParam("session"))
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	topics := splitTopics(c.QueryParam("topics"))

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error("ws upgrade failed", slog.String("sessionId", sessionID), slog.Any("error", err))
		return err
	}

	client := infrastructure.NewClient(h.hub, conn, sessionID, clientBuffer, h.commands)
	if len(topics) == 0 {
		h.hub.AttachClientToAll(client)
	} else {
		h.hub.AttachClient(client, topics)
	}

	go client.Run()

	connected := domain.NewMessage(domain.SystemEntity, domain.ActionConnected, "", map[string]any{
		"topics": topics,
	}, h.now())
	connected.Metadata = map[string]string{"sessionId": sessionID}
	client.Send(connected)
	slog.Info("ws connected", slog.String("sessionId", sessionID), slog.String("ip", c.RealIP()))
	return nil
}

func (h *Handler) newCommandProcessor() *infrastructure.CommandProcessor {
	processor := infrastructure.NewCommandProcessor(h.hub)
	processor.Register(actionSnapshot, func(_ context.Context, client *infrastructure.Client, _ infrastructure.Command) {
		client.Send(domain.NewMessage(domain.SystemEntity, actionSnapshot, "", h.store.Snapshot(), h.now()))
	})
	return processor
}

func splitTopics(raw string) []string {
	var topics []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			topics = append(topics, trimmed)
		}
	}
	return topics
}
