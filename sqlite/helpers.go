package sqlite

import (
	"fmt"
	"time"
)

// parseStoredAt reads a stored_at column written by Cache.Set.
func parseStoredAt(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse stored_at %q: %w", value, err)
	}
	return t, nil
}

// expiresAt returns the unix nanosecond expiry of an entry stored at now.
// Zero means the entry never expires.
func expiresAt(now time.Time, ttl time.Duration) int64 {
	if ttl <= 0 {
		return 0
	}
	return now.Add(ttl).UnixNano()
}

// expired reports whether an entry with the given expiry is stale at now.
func expired(expires int64, now time.Time) bool {
	return expires != 0 && now.UnixNano() >= expires
}
