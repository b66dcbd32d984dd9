package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/docpack"
)

// Compile-time interface verification.
var _ docpack.Cache = (*Cache)(nil)

// Cache implements docpack.Cache on the cache_entries table.
type Cache struct {
	db *DB

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewCache creates a new Cache.
func NewCache(db *DB) *Cache {
	return &Cache{db: db, Now: time.Now}
}

// CacheEntry describes a stored value without its payload.
type CacheEntry struct {
	Key      string
	Size     int
	StoredAt time.Time
	// ExpiresAt is zero for entries that never expire.
	ExpiresAt time.Time
}

// Get returns the value stored under key. Expired entries are reported as
// missing and removed.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	var expires int64

	err := c.db.QueryRowContext(ctx, `
		SELECT value, expires_at
		FROM cache_entries
		WHERE key = ?
	`, key).Scan(&value, &expires)

	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if expired(expires, c.now()) {
		if err := c.Delete(ctx, key); err != nil {
			return nil, false, err
		}
		return nil, false, nil
	}

	return value, true, nil
}

// Set stores value under key, replacing any previous value. A zero ttl
// never expires.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return docpack.Errorf(docpack.EINVALID, "cache key required")
	}
	if value == nil {
		value = []byte{}
	}

	now := c.now().UTC()
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO cache_entries (key, value, stored_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			stored_at = excluded.stored_at,
			expires_at = excluded.expires_at
	`, key, value, now.Format(time.RFC3339), expiresAt(now, ttl))

	return err
}

// Delete removes key. Deleting a missing key is not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key)
	return err
}

// Purge removes every expired entry and returns how many were removed.
func (c *Cache) Purge(ctx context.Context) (int, error) {
	result, err := c.db.ExecContext(ctx, `
		DELETE FROM cache_entries
		WHERE expires_at != 0 AND expires_at <= ?
	`, c.now().UnixNano())
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Clear removes every entry.
func (c *Cache) Clear(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM cache_entries`)
	return err
}

// Entries lists stored entries ordered by key, including expired ones
// that have not been purged yet.
func (c *Cache) Entries(ctx context.Context) ([]CacheEntry, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT key, length(value), stored_at, expires_at
		FROM cache_entries
		ORDER BY key
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []CacheEntry
	for rows.Next() {
		var e CacheEntry
		var storedAt string
		var expires int64
		if err := rows.Scan(&e.Key, &e.Size, &storedAt, &expires); err != nil {
			return nil, err
		}
		if e.StoredAt, err = parseStoredAt(storedAt); err != nil {
			return nil, err
		}
		if expires != 0 {
			e.ExpiresAt = time.Unix(0, expires).UTC()
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (c *Cache) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}
