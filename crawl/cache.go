package crawl

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fwojciec/docpack"
)

// Default cache lifetimes.
const (
	DefaultBodyTTL = 24 * time.Hour
	DefaultSiteTTL = 6 * time.Hour
)

var (
	_ docpack.Fetcher    = (*CachingFetcher)(nil)
	_ docpack.Discoverer = (*CachingDiscoverer)(nil)
)

// CachingFetcher serves response bodies from a Cache and stores successful
// fetches. Cache errors are ignored: the cache only ever saves work.
type CachingFetcher struct {
	Fetcher docpack.Fetcher
	Cache   docpack.Cache
	TTL     time.Duration
}

// NewCachingFetcher wraps fetcher with cache using DefaultBodyTTL.
func NewCachingFetcher(fetcher docpack.Fetcher, cache docpack.Cache) *CachingFetcher {
	return &CachingFetcher{Fetcher: fetcher, Cache: cache, TTL: DefaultBodyTTL}
}

func (f *CachingFetcher) Fetch(ctx context.Context, url string) (string, error) {
	key := cacheKey("body", url)
	if v, ok, err := f.Cache.Get(ctx, key); err == nil && ok {
		return string(v), nil
	}

	body, err := f.Fetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	_ = f.Cache.Set(ctx, key, []byte(body), f.TTL)
	return body, nil
}

// Invalidator drops a stored response so the next fetch of url reaches
// the origin.
type Invalidator interface {
	Invalidate(ctx context.Context, url string) error
}

var _ Invalidator = (*CachingFetcher)(nil)

// Invalidate removes the cached body of url. PageFetcher calls it for
// bodies the quality gate rejected, so a transient challenge page is not
// replayed until the entry expires.
func (f *CachingFetcher) Invalidate(ctx context.Context, url string) error {
	return f.Cache.Delete(ctx, cacheKey("body", url))
}

func (f *CachingFetcher) Close() error {
	return f.Fetcher.Close()
}

// CachingDiscoverer caches discovered sites as JSON.
type CachingDiscoverer struct {
	Discoverer docpack.Discoverer
	Cache      docpack.Cache
	TTL        time.Duration
}

// NewCachingDiscoverer wraps discoverer with cache using DefaultSiteTTL.
func NewCachingDiscoverer(discoverer docpack.Discoverer, cache docpack.Cache) *CachingDiscoverer {
	return &CachingDiscoverer{Discoverer: discoverer, Cache: cache, TTL: DefaultSiteTTL}
}

func (d *CachingDiscoverer) Discover(ctx context.Context, pageURL string) (*docpack.DocSite, error) {
	key := cacheKey("site", docpack.NormalizeURL(pageURL))
	if v, ok, err := d.Cache.Get(ctx, key); err == nil && ok {
		var site docpack.DocSite
		if err := json.Unmarshal(v, &site); err == nil && len(site.Pages) > 0 {
			site.Framework = docpack.ParseFramework(string(site.Framework))
			return &site, nil
		}
		_ = d.Cache.Delete(ctx, key)
	}

	site, err := d.Discoverer.Discover(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	if v, err := json.Marshal(site); err == nil {
		_ = d.Cache.Set(ctx, key, v, d.TTL)
	}
	return site, nil
}
