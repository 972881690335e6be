package auth

import (
	"net/http"
	"strings"
)

const bearerScheme = "Bearer"

// BearerHeader renders the Authorization value for token, or "" when token is blank.
func BearerHeader(token string) string {
	if token = strings.TrimSpace(token); token == "" {
		return ""
	}
	return bearerScheme + " " + token
}

// TokenFromRequest returns the bearer token a request carries, if any.
func TokenFromRequest(r *http.Request) string {
	if r == nil {
		return ""
	}
	return TokenFromHeader(r.Header.Get("Authorization"))
}

// TokenFromHeader parses "Bearer <token>"; the scheme is matched case-insensitively.
func TokenFromHeader(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, bearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}
