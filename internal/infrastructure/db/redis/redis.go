// Package redis keeps Idempotency-Key bookkeeping for vehicle creation.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTimeout = 5 * time.Second

// Config selects the Redis instance backing idempotency keys. Timeout bounds
// dialing, each command and the start-up ping.
type Config struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// Open connects to Redis, pings it and returns an IdempotencyStore over the
// connection. The caller owns the store and must Close it.
func Open(ctx context.Context, cfg Config) (*IdempotencyStore, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		DB:           cfg.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})

	store := NewIdempotencyStore(client)

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := store.Ping(pingCtx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return store, nil
}

// Ping reports whether the idempotency backend is reachable.
func (s *IdempotencyStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *IdempotencyStore) Close() error {
	return s.client.Close()
}
