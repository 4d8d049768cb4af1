// Package cache provides the redis-backed provider-response cache.
// Caching is strictly best effort: redis being down means every lookup
// is a miss, never an error.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/tokensentry/tokensentry/internal/config"
)

// Redis caches raw provider response bodies.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects a cache from config. Returns nil when no redis address
// is configured; callers must leave the provider cache unset in that
// case rather than wrapping the nil pointer.
func New(cfg config.CacheConfig) *Redis {
	if cfg.RedisAddr == "" {
		return nil
	}
	return &Redis{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}),
		ttl: cfg.TTL.Std(),
	}
}

// NewWithClient wraps an existing client; tests use it with redismock.
func NewWithClient(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Get returns a cached response body.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Debug().Err(err).Str("key", key).Msg("cache read failed")
		}
		return nil, false
	}
	return data, true
}

// Set stores a response body. The configured TTL applies when the
// caller passes zero.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = r.ttl
	}
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("cache write failed")
	}
}
