// Package providers implements the external data-source adapters: the
// security scanner, the liquidity indexer, the block explorer, the
// ledger RPC and the direct on-chain reader. Every adapter shares the
// same outbound middleware stack: rate limiting, circuit breaking and
// bounded retries with exponential backoff. Callers above the fetch
// boundary never see these errors; a failed provider resolves to nil.
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/tokensentry/tokensentry/internal/config"
)

// Cache is an optional response cache consulted for GET requests.
// Backed by redis in production; nil disables caching.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// client is the shared outbound HTTP stack for one provider.
type client struct {
	name       string
	http       *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	maxRetries int
	retryDelay time.Duration
	cache      Cache
	cacheTTL   time.Duration
}

func newClient(name string, cfg config.ProviderConfig, cache Cache, cacheTTL time.Duration) *client {
	rps := cfg.RatePerSec
	if rps <= 0 {
		rps = 1
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &client{
		name: name,
		http: &http.Client{Timeout: cfg.Timeout.Std()},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 2,
			Interval:    time.Minute,
			Timeout:     2 * time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 4
			},
		}),
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay.Std(),
		cache:      cache,
		cacheTTL:   cacheTTL,
	}
}

// getJSON issues a GET and decodes the body into target, honoring the
// cache, rate limiter, circuit breaker and retry budget.
func (c *client) getJSON(ctx context.Context, url string, target any) error {
	if c.cache != nil {
		if body, ok := c.cache.Get(ctx, c.name+":"+url); ok {
			return json.Unmarshal(body, target)
		}
	}
	body, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if c.cache != nil {
		c.cache.Set(ctx, c.name+":"+url, body, c.cacheTTL)
	}
	return json.Unmarshal(body, target)
}

// postJSON issues a POST with a JSON payload and decodes the response.
// POSTs are never cached.
func (c *client) postJSON(ctx context.Context, url string, payload, target any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	body, err := c.do(ctx, http.MethodPost, url, encoded)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, target)
}

func (c *client) do(ctx context.Context, method, url string, payload []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: rate limit wait: %w", c.name, err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: delay, 2*delay, 4*delay, ...
			backoff := c.retryDelay << (attempt - 1)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := c.breaker.Execute(func() (any, error) {
			return c.roundTrip(ctx, method, url, payload)
		})
		if err == nil {
			return result.([]byte), nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		log.Debug().Err(err).Str("provider", c.name).Int("attempt", attempt+1).Msg("provider request failed")
	}
	return nil, fmt.Errorf("%s: %w", c.name, lastErr)
}

func (c *client) roundTrip(ctx context.Context, method, url string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
