package cache

import (
	"context"
	"time"
)

// Cache is the capability contract shared by the in-memory and Redis
// backends. Values are serialized JSON; callers treat an entry that fails to
// unmarshal as a miss, so a backend never has to understand the payload.
//
// Backends must be safe for concurrent use. A failing backend (e.g. an
// unreachable Redis) degrades to misses and best-effort writes; it never
// surfaces errors to the caller.
type Cache interface {
	// Get returns the stored value, or false if the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key. A non-positive ttl selects the backend's
	// default TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)

	// Delete removes key if present.
	Delete(ctx context.Context, key string)

	// Clear removes all entries.
	Clear(ctx context.Context)

	// Size returns the number of stored entries.
	Size(ctx context.Context) int
}
