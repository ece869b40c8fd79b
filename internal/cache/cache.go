// Package cache holds read-through caches for public content lists.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"portfolio-site/internal/logging"
)

// Cache stores JSON-encodable values by key.
type Cache interface {
	// Get decodes the cached value into dst and reports whether it was found.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	// DeletePrefix drops every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

// Config selects and tunes a cache implementation.
type Config struct {
	Driver string // memory, redis or none
	TTL    time.Duration
	Redis  RedisConfig
}

// New builds the cache named by cfg.Driver.
func New(cfg Config) (Cache, error) {
	switch cfg.Driver {
	case "", "none":
		return Nop{}, nil
	case "memory":
		return NewMemory(cfg.TTL), nil
	case "redis":
		return NewRedis(cfg.Redis, cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

// Remember returns the cached value for key, or calls load and caches its result.
// Cache failures are logged and fall through to load.
//
// A load that overlaps an invalidation may store the pre-write value; it lives
// until the TTL expires.
func Remember[T any](ctx context.Context, c Cache, log logging.Logger, key string, load func(context.Context) (T, error)) (T, error) {
	var cached T
	ok, err := c.Get(ctx, key, &cached)
	if err != nil {
		log.Warn(ctx, "cache read failed", "key", key, "error", err)
	} else if ok {
		return cached, nil
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if err := c.Set(ctx, key, v); err != nil {
		log.Warn(ctx, "cache write failed", "key", key, "error", err)
	}
	return v, nil
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string, any) (bool, error) { return false, nil }
func (Nop) Set(context.Context, string, any) error         { return nil }
func (Nop) DeletePrefix(context.Context, string) error     { return nil }

func encode(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cache value: %w", err)
	}
	return data, nil
}
