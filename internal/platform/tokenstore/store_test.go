package tokenstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestKey(t *testing.T) {
	if got := Key(" RestauReserva "); got != "RestauReserva-jwt" {
		t.Fatalf("unexpected key: %s", got)
	}
}

func TestValidateKind(t *testing.T) {
	for _, kind := range []string{"file", "REDIS", "memory", ""} {
		if err := ValidateKind(kind); err != nil {
			t.Fatalf("ValidateKind(%q) unexpected error: %v", kind, err)
		}
	}
	if err := ValidateKind("cookie"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	got, err := store.Get(ctx, "app-jwt")
	if err != nil || got != "" {
		t.Fatalf("expected empty value for missing key, got %q (%v)", got, err)
	}
	if err := store.Set(ctx, "app-jwt", "token-1"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if got, _ := store.Get(ctx, "app-jwt"); got != "token-1" {
		t.Fatalf("expected token-1, got %q", got)
	}
	if err := store.Delete(ctx, "app-jwt"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if got, _ := store.Get(ctx, "app-jwt"); got != "" {
		t.Fatalf("expected empty after delete, got %q", got)
	}
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "session.json")
	exerciseStore(t, NewFileStore(path))

	store := NewFileStore(path)
	if err := store.Set(context.Background(), "app-jwt", "persisted"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	reopened := NewFileStore(path)
	if got, _ := reopened.Get(context.Background(), "app-jwt"); got != "persisted" {
		t.Fatalf("expected value to survive reopen, got %q", got)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600 permissions, got %o", perm)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := NewFileStore(path).Get(context.Background(), "app-jwt"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestFileStoreNullFileStartsEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("null\n"), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	store := NewFileStore(path)
	ctx := context.Background()

	if got, err := store.Get(ctx, "App-jwt"); err != nil || got != "" {
		t.Fatalf("expected empty token, got %q %v", got, err)
	}
	if err := store.Set(ctx, "App-jwt", "tok"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if got, err := store.Get(ctx, "App-jwt"); err != nil || got != "tok" {
		t.Fatalf("expected tok, got %q %v", got, err)
	}
}

type fakeRedis struct {
	values map[string]string
	err    error
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	value, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.values[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	var removed int64
	for _, key := range keys {
		if _, ok := f.values[key]; ok {
			delete(f.values, key)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}

func TestRedisStore(t *testing.T) {
	t.Parallel()
	exerciseStore(t, NewRedisStore(&fakeRedis{values: map[string]string{}}))
}

func TestRedisStorePropagatesErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	store := NewRedisStore(&fakeRedis{values: map[string]string{}, err: boom})
	if _, err := store.Get(context.Background(), "app-jwt"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped redis error, got %v", err)
	}
}

func TestNewSelectsStore(t *testing.T) {
	t.Parallel()

	memory, closeFn, err := New(context.Background(), Config{Kind: "Memory"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer closeFn()
	if _, ok := memory.(*MemoryStore); !ok {
		t.Fatalf("expected memory store, got %T", memory)
	}

	path := filepath.Join(t.TempDir(), "session.json")
	file, _, err := New(context.Background(), Config{FilePath: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := file.(*FileStore); !ok {
		t.Fatalf("expected file store by default, got %T", file)
	}

	if _, _, err := New(context.Background(), Config{Kind: "etcd"}); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}
