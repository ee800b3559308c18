// Package cache stores short-lived JSON values such as resolved sessions and reset tokens.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a key/value store with per-entry expiry. Values round-trip through JSON.
type Cache interface {
	// Get decodes the value stored under key into dest and reports whether it was found
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	// Set stores value under key for ttl. A zero ttl never expires.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Delete removes keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}

// New returns a redis-backed cache when redisURL is set and an in-process cache otherwise
func New(ctx context.Context, redisURL string) (Cache, error) {
	if redisURL == "" {
		log.Info("REDIS_URL not set, using in-memory cache")
		return NewMemory(), nil
	}

	client, err := NewRedisClient(ctx, redisURL)
	if err != nil {
		return nil, err
	}
	return NewRedis(client), nil
}

// NewRedisClient parses redisURL and checks the server answers
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.WithField("redis_addr", opt.Addr).Info("Connected to redis")
	return client, nil
}
