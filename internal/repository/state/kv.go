package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a key holds no value.
var ErrNotFound = errors.New("state not found")

// ErrUnknownKind is returned by Open for an unsupported store kind.
var ErrUnknownKind = errors.New("unknown store kind")

// KV is an atomic single-key store.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

const (
	// KindRedis selects RedisKV.
	KindRedis = "redis"
	// KindFile selects FileKV.
	KindFile = "file"
	// KindMemory selects MemoryKV.
	KindMemory = "memory"
)

// Open creates a KV for the configured kind. target is the Redis URL for
// "redis" and the file path for "file"; it is ignored for "memory".
//
//nolint:ireturn // Callers choose the backend at runtime.
func Open(kind, target string) (KV, error) {
	switch strings.ToLower(kind) {
	case KindRedis:
		return NewRedisKV(target)
	case KindFile:
		return NewFileKV(target), nil
	case KindMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
