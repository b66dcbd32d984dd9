package mock

import (
	"context"
	"time"

	"github.com/fwojciec/docpack"
)

var (
	_ docpack.Fetcher       = (*Fetcher)(nil)
	_ docpack.DomainLimiter = (*DomainLimiter)(nil)
	_ docpack.Cache         = (*Cache)(nil)
)

// Fetcher is a mock implementation of docpack.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

// DomainLimiter is a mock implementation of docpack.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

// Cache is a mock implementation of docpack.Cache.
type Cache struct {
	GetFn    func(ctx context.Context, key string) ([]byte, bool, error)
	SetFn    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFn func(ctx context.Context, key string) error
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return c.GetFn(ctx, key)
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.SetFn(ctx, key, value, ttl)
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.DeleteFn(ctx, key)
}
