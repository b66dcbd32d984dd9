package crawl_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/docpack"
	"github.com/fwojciec/docpack/crawl"
	"github.com/fwojciec/docpack/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryCache is a map-backed mock.Cache.
func memoryCache() *mock.Cache {
	var mu sync.Mutex
	data := map[string][]byte{}
	return &mock.Cache{
		GetFn: func(_ context.Context, key string) ([]byte, bool, error) {
			mu.Lock()
			defer mu.Unlock()
			v, ok := data[key]
			return v, ok, nil
		},
		SetFn: func(_ context.Context, key string, value []byte, _ time.Duration) error {
			mu.Lock()
			defer mu.Unlock()
			data[key] = value
			return nil
		},
		DeleteFn: func(_ context.Context, key string) error {
			mu.Lock()
			defer mu.Unlock()
			delete(data, key)
			return nil
		},
	}
}

func TestCachingFetcher(t *testing.T) {
	t.Parallel()

	t.Run("invalidate forgets a stored body", func(t *testing.T) {
		t.Parallel()

		var calls int
		f := crawl.NewCachingFetcher(&mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				calls++
				return "body", nil
			},
		}, memoryCache())
		ctx := context.Background()

		_, err := f.Fetch(ctx, "https://docs.example.com/a")
		require.NoError(t, err)
		require.NoError(t, f.Invalidate(ctx, "https://docs.example.com/a"))
		_, err = f.Fetch(ctx, "https://docs.example.com/a")

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("serves repeated fetches from the cache", func(t *testing.T) {
		t.Parallel()

		var calls int
		f := crawl.NewCachingFetcher(&mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				calls++
				return "body of " + url, nil
			},
		}, memoryCache())

		first, err := f.Fetch(context.Background(), "https://docs.example.com/a")
		require.NoError(t, err)
		second, err := f.Fetch(context.Background(), "https://docs.example.com/a")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, calls)
	})

	t.Run("does not cache failures", func(t *testing.T) {
		t.Parallel()

		var calls int
		f := crawl.NewCachingFetcher(&mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				calls++
				return "", docpack.Errorf(docpack.ENOTFOUND, "HTTP 404")
			},
		}, memoryCache())

		_, _ = f.Fetch(context.Background(), "https://docs.example.com/missing")
		_, err := f.Fetch(context.Background(), "https://docs.example.com/missing")

		require.Error(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("fetches through a broken cache", func(t *testing.T) {
		t.Parallel()

		cacheErr := errors.New("database is locked")
		f := crawl.NewCachingFetcher(&mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				return "fresh", nil
			},
		}, &mock.Cache{
			GetFn: func(_ context.Context, _ string) ([]byte, bool, error) { return nil, false, cacheErr },
			SetFn: func(_ context.Context, _ string, _ []byte, _ time.Duration) error { return cacheErr },
		})

		body, err := f.Fetch(context.Background(), "https://docs.example.com/a")

		require.NoError(t, err)
		assert.Equal(t, "fresh", body)
	})

	t.Run("closes the wrapped fetcher", func(t *testing.T) {
		t.Parallel()

		var closed bool
		f := crawl.NewCachingFetcher(&mock.Fetcher{
			CloseFn: func() error {
				closed = true
				return nil
			},
		}, memoryCache())

		require.NoError(t, f.Close())
		assert.True(t, closed)
	})
}

func TestCachingDiscoverer(t *testing.T) {
	t.Parallel()

	t.Run("caches discovered sites", func(t *testing.T) {
		t.Parallel()

		var calls int
		d := crawl.NewCachingDiscoverer(&mock.Discoverer{
			DiscoverFn: func(_ context.Context, pageURL string) (*docpack.DocSite, error) {
				calls++
				return &docpack.DocSite{
					BaseURL:   "https://docs.example.com",
					Title:     "Example",
					Framework: docpack.FrameworkMkDocs,
					Source:    docpack.SourceSidebar,
					Pages:     pagesOf("https://docs.example.com/a", "https://docs.example.com/b"),
				}, nil
			},
		}, memoryCache())

		first, err := d.Discover(context.Background(), "https://docs.example.com/a")
		require.NoError(t, err)
		second, err := d.Discover(context.Background(), "https://docs.example.com/a#install")
		require.NoError(t, err)

		assert.Equal(t, 1, calls)
		assert.Equal(t, first, second)
	})

	t.Run("does not cache discovery errors", func(t *testing.T) {
		t.Parallel()

		var calls int
		d := crawl.NewCachingDiscoverer(&mock.Discoverer{
			DiscoverFn: func(_ context.Context, _ string) (*docpack.DocSite, error) {
				calls++
				return nil, docpack.Errorf(docpack.ENOTFOUND, "no pages found")
			},
		}, memoryCache())

		_, _ = d.Discover(context.Background(), "https://docs.example.com/")
		_, err := d.Discover(context.Background(), "https://docs.example.com/")

		require.Error(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("forgets frameworks it no longer knows", func(t *testing.T) {
		t.Parallel()

		d := crawl.NewCachingDiscoverer(&mock.Discoverer{
			DiscoverFn: func(_ context.Context, _ string) (*docpack.DocSite, error) {
				t.Fatal("discoverer should not be called on a cache hit")
				return nil, nil
			},
		}, &mock.Cache{
			GetFn: func(_ context.Context, _ string) ([]byte, bool, error) {
				return []byte(`{"BaseURL":"https://docs.example.com","Framework":"legacy-theme","Pages":[{"URL":"https://docs.example.com/a"}]}`), true, nil
			},
		})

		site, err := d.Discover(context.Background(), "https://docs.example.com/a")

		require.NoError(t, err)
		assert.Equal(t, docpack.FrameworkUnknown, site.Framework)
		assert.Len(t, site.Pages, 1)
	})

	t.Run("discards corrupt entries", func(t *testing.T) {
		t.Parallel()

		var deleted bool
		d := crawl.NewCachingDiscoverer(&mock.Discoverer{
			DiscoverFn: func(_ context.Context, _ string) (*docpack.DocSite, error) {
				return &docpack.DocSite{Pages: pagesOf("https://docs.example.com/a")}, nil
			},
		}, &mock.Cache{
			GetFn: func(_ context.Context, _ string) ([]byte, bool, error) { return []byte("{not json"), true, nil },
			SetFn: func(_ context.Context, _ string, _ []byte, _ time.Duration) error { return nil },
			DeleteFn: func(_ context.Context, _ string) error {
				deleted = true
				return nil
			},
		})

		site, err := d.Discover(context.Background(), "https://docs.example.com/a")

		require.NoError(t, err)
		assert.Len(t, site.Pages, 1)
		assert.True(t, deleted)
	})
}
