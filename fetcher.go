package docpack

import (
	"context"
	"time"
)

// Fetcher retrieves the body of a URL.
// Implementations may use browser automation to handle JavaScript-rendered content.
type Fetcher interface {
	// Fetch returns the response body for url. A missing resource is
	// reported as ENOTFOUND.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (body string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// Cache stores opaque values by key.
type Cache interface {
	// Get returns the value stored under key. The boolean is false when the
	// key is missing or expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key. A zero ttl never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key.
	Delete(ctx context.Context, key string) error
}
