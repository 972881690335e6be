package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken   = errors.New("missing token")
	ErrMalformedToken = errors.New("malformed token")
)

// TokenInfo is what the client can read from a bearer token without the signing key.
type TokenInfo struct {
	Subject   string     `json:"subject,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Expired   bool       `json:"expired"`
}

// Inspect decodes the token claims without verifying the signature.
// The API remains the only authority on whether the token is accepted.
func Inspect(token string, now time.Time) (*TokenInfo, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return nil, ErrMissingToken
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(trimmed, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	info := &TokenInfo{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time.UTC()
		info.ExpiresAt = &exp
		info.Expired = !exp.After(now)
	}
	return info, nil
}
