package tokenstore

import (
	"context"
	"strings"
)

// Config selects and configures a Store.
type Config struct {
	Kind     string
	FilePath string
	AppName  string
	Redis    RedisConfig
}

// New builds the configured store. The returned close function releases its connections.
func New(ctx context.Context, cfg Config) (Store, func() error, error) {
	if err := ValidateKind(cfg.Kind); err != nil {
		return nil, nil, err
	}
	noop := func() error { return nil }
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case KindMemory:
		return NewMemoryStore(), noop, nil
	case KindRedis:
		client := NewRedisClient(cfg.Redis)
		if err := Ping(ctx, client); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return NewRedisStore(client), client.Close, nil
	default:
		path := strings.TrimSpace(cfg.FilePath)
		if path == "" {
			path = DefaultFilePath(cfg.AppName)
		}
		return NewFileStore(path), noop, nil
	}
}
