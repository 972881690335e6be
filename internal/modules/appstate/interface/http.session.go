package transport

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"restauReserva/internal/shared/auth"
)

type sessionTokenRequest struct {
	Token string `json:"token"`
}

type sessionResponse struct {
	Authenticated bool            `json:"authenticated"`
	Token         *auth.TokenInfo `json:"token,omitempty"`
}

// getSession reports what the persisted bearer token says about itself. The signature
// is not checked here; the remote API stays the authority.
func (h *Handler) getSession(c echo.Context) error {
	ctx := c.Request().Context()
	token, err := h.tokens.Get(ctx, h.tokenKey)
	if err != nil {
		return h.sessions.Respond(c, "session.get", fmt.Errorf("%w: %v", errSessionStore, err))
	}
	if strings.TrimSpace(token) == "" {
		return c.JSON(http.StatusOK, sessionResponse{})
	}
	info, err := auth.Inspect(token, h.now())
	if err != nil {
		slog.Warn("stored session token unreadable", slog.Any("error", err))
		return c.JSON(http.StatusOK, sessionResponse{})
	}
	return c.JSON(http.StatusOK, sessionResponse{Authenticated: !info.Expired, Token: info})
}

// putSessionToken stores the token the API client attaches as bearer to every request.
func (h *Handler) putSessionToken(c echo.Context) error {
	var req sessionTokenRequest
	if err := c.Bind(&req); err != nil {
		return h.sessions.Respond(c, "session.put", errInvalidBody)
	}
	token := strings.TrimSpace(req.Token)
	if token == "" {
		token = auth.TokenFromRequest(c.Request())
	}
	info, err := auth.Inspect(token, h.now())
	if err != nil {
		return h.sessions.Respond(c, "session.put", err)
	}
	if err := h.tokens.Set(c.Request().Context(), h.tokenKey, token); err != nil {
		return h.sessions.Respond(c, "session.put", fmt.Errorf("%w: %v", errSessionStore, err))
	}
	slog.Info("session token stored", slog.String("subject", info.Subject), slog.Bool("expired", info.Expired))
	return c.JSON(http.StatusOK, sessionResponse{Authenticated: !info.Expired, Token: info})
}

func (h *Handler) deleteSessionToken(c echo.Context) error {
	if err := h.tokens.Delete(c.Request().Context(), h.tokenKey); err != nil {
		return h.sessions.Respond(c, "session.delete", fmt.Errorf("%w: %v", errSessionStore, err))
	}
	slog.Info("session token cleared")
	return c.NoContent(http.StatusNoContent)
}
