package httputil

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Outcome is the status and client-facing message an error maps to.
type Outcome struct {
	Status  int
	Message string
}

// Rule returns the outcome for err, or false to let the next rule decide.
type Rule func(err error) (Outcome, bool)

// Match maps every error wrapping target to a fixed outcome.
func Match(target error, status int, message string) Rule {
	return func(err error) (Outcome, bool) {
		if errors.Is(err, target) {
			return Outcome{Status: status, Message: message}, true
		}
		return Outcome{}, false
	}
}

// ErrorMapper turns errors into HTTP outcomes by trying its rules in order.
type ErrorMapper struct {
	rules    []Rule
	fallback Outcome
}

func NewErrorMapper(fallbackStatus int, fallbackMessage string, rules ...Rule) *ErrorMapper {
	kept := make([]Rule, 0, len(rules))
	for _, rule := range rules {
		if rule != nil {
			kept = append(kept, rule)
		}
	}
	return &ErrorMapper{rules: kept, fallback: Outcome{Status: fallbackStatus, Message: fallbackMessage}}
}

// Map resolves err. Context expiry wins over every rule.
func (m *ErrorMapper) Map(err error) Outcome {
	switch {
	case err == nil:
		return Outcome{Status: http.StatusOK}
	case errors.Is(err, context.DeadlineExceeded):
		return Outcome{Status: http.StatusGatewayTimeout, Message: "request timeout"}
	case errors.Is(err, context.Canceled):
		return Outcome{Status: http.StatusServiceUnavailable, Message: "request cancelled"}
	}
	for _, rule := range m.rules {
		if outcome, ok := rule(err); ok {
			return outcome
		}
	}
	return m.fallback
}

// Respond writes {"error": message} with the mapped status and logs err under route.
func (m *ErrorMapper) Respond(c echo.Context, route string, err error) error {
	outcome := m.Map(err)
	attrs := []any{slog.String("route", route), slog.Int("status", outcome.Status), slog.Any("error", err)}
	if outcome.Status >= http.StatusInternalServerError {
		slog.Error("gateway request failed", attrs...)
	} else {
		slog.Warn("gateway request rejected", attrs...)
	}
	return c.JSON(outcome.Status, map[string]string{"error": outcome.Message})
}
