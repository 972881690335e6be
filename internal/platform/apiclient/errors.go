package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Kind tags how a request failed.
type Kind string

const (
	KindServer  Kind = "ServerError"
	KindNetwork Kind = "NetworkError"
	KindUnknown Kind = "Unknown"
)

// Error is the single normalized failure shape produced by the client.
// Message carries the server-provided explanation when the body had one.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Method  string
	Path    string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(strings.ToLower(string(e.Kind)))
	if e.Method != "" || e.Path != "" {
		fmt.Fprintf(&b, " %s %s", e.Method, e.Path)
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, " status %d", e.Status)
	}
	switch {
	case e.Message != "":
		b.WriteString(": " + e.Message)
	case e.Err != nil:
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// AsError extracts a normalized client error from err.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// UserMessage returns the most specific message available for err, or fallback.
func UserMessage(err error, fallback string) string {
	if apiErr, ok := AsError(err); ok && strings.TrimSpace(apiErr.Message) != "" {
		return strings.TrimSpace(apiErr.Message)
	}
	return fallback
}

func networkError(method, path string, err error) *Error {
	kind := KindNetwork
	if errors.Is(err, context.Canceled) {
		kind = KindUnknown
	}
	return &Error{Kind: kind, Method: method, Path: path, Err: err}
}

func serverError(method, path string, status int, body []byte) *Error {
	return &Error{
		Kind:    KindServer,
		Status:  status,
		Message: extractMessage(body),
		Method:  method,
		Path:    path,
		Err:     fmt.Errorf("unexpected response %d", status),
	}
}

func unknownError(method, path string, err error) *Error {
	return &Error{Kind: KindUnknown, Method: method, Path: path, Err: err}
}

// extractMessage reads {"error": ...}, {"msg": ...}, {"message": ...} or a
// field-to-messages validation map from an error body.
func extractMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || !strings.HasPrefix(trimmed, "{") {
		return ""
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return ""
	}
	for _, key := range []string{"error", "msg", "message"} {
		if value, ok := payload[key].(string); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}

	parts := make([]string, 0, len(payload))
	for _, field := range slices.Sorted(maps.Keys(payload)) {
		if text := joinMessages(payload[field]); text != "" {
			parts = append(parts, field+": "+text)
		}
	}
	return strings.Join(parts, "; ")
}

func joinMessages(value any) string {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case []any:
		texts := make([]string, 0, len(typed))
		for _, item := range typed {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				texts = append(texts, strings.TrimSpace(s))
			}
		}
		return strings.Join(texts, ", ")
	default:
		return ""
	}
}
