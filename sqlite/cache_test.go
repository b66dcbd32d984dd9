package sqlite_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/docpack"
	"github.com/fwojciec/docpack/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_GetSet(t *testing.T) {
	t.Parallel()

	t.Run("returns stored value", func(t *testing.T) {
		t.Parallel()

		cache, _ := newTestCache(t)
		ctx := context.Background()

		require.NoError(t, cache.Set(ctx, "body:abc", []byte("<html>hi</html>"), time.Hour))

		value, ok, err := cache.Get(ctx, "body:abc")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "<html>hi</html>", string(value))
	})

	t.Run("reports missing key", func(t *testing.T) {
		t.Parallel()

		cache, _ := newTestCache(t)

		value, ok, err := cache.Get(context.Background(), "missing")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, value)
	})

	t.Run("replaces existing value and expiry", func(t *testing.T) {
		t.Parallel()

		cache, clock := newTestCache(t)
		ctx := context.Background()

		// Given a value that expires in a minute
		require.NoError(t, cache.Set(ctx, "k", []byte("old"), time.Minute))

		// When it is overwritten without expiry
		require.NoError(t, cache.Set(ctx, "k", []byte("new"), 0))
		clock.advance(24 * time.Hour)

		// Then the new value survives
		value, ok, err := cache.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "new", string(value))
	})

	t.Run("stores empty values", func(t *testing.T) {
		t.Parallel()

		cache, _ := newTestCache(t)
		ctx := context.Background()

		require.NoError(t, cache.Set(ctx, "empty", nil, 0))

		value, ok, err := cache.Get(ctx, "empty")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, value)
	})

	t.Run("rejects empty key", func(t *testing.T) {
		t.Parallel()

		cache, _ := newTestCache(t)

		err := cache.Set(context.Background(), "", []byte("x"), 0)

		require.Error(t, err)
		assert.Equal(t, docpack.EINVALID, docpack.ErrorCode(err))
	})
}

func TestCache_Expiry(t *testing.T) {
	t.Parallel()

	t.Run("expired entry is missing and removed", func(t *testing.T) {
		t.Parallel()

		cache, clock := newTestCache(t)
		ctx := context.Background()

		// Given an entry with a one hour TTL
		require.NoError(t, cache.Set(ctx, "site:x", []byte("{}"), time.Hour))

		// When the TTL elapses
		clock.advance(time.Hour)
		_, ok, err := cache.Get(ctx, "site:x")

		// Then the entry is gone
		require.NoError(t, err)
		assert.False(t, ok)
		entries, err := cache.Entries(ctx)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("entry is served before the TTL elapses", func(t *testing.T) {
		t.Parallel()

		cache, clock := newTestCache(t)
		ctx := context.Background()

		require.NoError(t, cache.Set(ctx, "site:x", []byte("{}"), time.Hour))
		clock.advance(59 * time.Minute)

		_, ok, err := cache.Get(ctx, "site:x")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestCache_Delete(t *testing.T) {
	t.Parallel()

	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, cache.Delete(ctx, "k"))
	require.NoError(t, cache.Delete(ctx, "never-stored"))

	_, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_Purge(t *testing.T) {
	t.Parallel()

	cache, clock := newTestCache(t)
	ctx := context.Background()

	// Given two short-lived entries and one permanent entry
	require.NoError(t, cache.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, cache.Set(ctx, "b", []byte("2"), time.Minute))
	require.NoError(t, cache.Set(ctx, "c", []byte("3"), 0))

	// When purging after expiry
	clock.advance(2 * time.Minute)
	n, err := cache.Purge(ctx)

	// Then only the permanent entry remains
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	entries, err := cache.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "c", entries[0].Key)
	assert.True(t, entries[0].ExpiresAt.IsZero())
}

func TestCache_Entries(t *testing.T) {
	t.Parallel()

	cache, clock := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "body:2", []byte("hello"), time.Hour))
	require.NoError(t, cache.Set(ctx, "body:1", []byte("hi"), 0))

	entries, err := cache.Entries(ctx)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "body:1", entries[0].Key)
	assert.Equal(t, 2, entries[0].Size)
	assert.Equal(t, clock.now().UTC().Truncate(time.Second), entries[1].StoredAt)
	assert.Equal(t, clock.now().Add(time.Hour).UTC(), entries[1].ExpiresAt)

	require.NoError(t, cache.Clear(ctx))
	entries, err = cache.Entries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	cache, _ := newTestCache(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i))
			assert.NoError(t, cache.Set(ctx, key, []byte(key), time.Hour))
			_, _, err := cache.Get(ctx, key)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	entries, err := cache.Entries(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 20)
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestCache(t *testing.T) (*sqlite.Cache, *testClock) {
	t.Helper()

	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })

	clock := &testClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	cache := sqlite.NewCache(db)
	cache.Now = clock.now
	return cache, clock
}
