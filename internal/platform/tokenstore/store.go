package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Kinds accepted by New.
const (
	KindFile   = "file"
	KindRedis  = "redis"
	KindMemory = "memory"
)

var ErrUnknownKind = errors.New("unknown token store kind")

// Store is the persisted key-value store holding the session bearer token.
// Get returns "" and a nil error when the key is absent.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Key returns the storage key for the application's bearer token ("<app-name>-jwt").
func Key(appName string) string {
	return strings.TrimSpace(appName) + "-jwt"
}

// ValidateKind checks the configured store kind.
func ValidateKind(kind string) error {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindFile, KindRedis, KindMemory, "":
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
