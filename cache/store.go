package cache

import "time"

// Store is the expiring key-value store a graph cache writes entries into.
// Implementations must be safe for concurrent use.
type Store interface {
	// Add stores value under key unless a live entry already exists and
	// reports whether it did. Concurrent Adds for one key store at most one
	// value.
	Add(key string, value any, expiresAt time.Time) bool
	Get(key string) (any, bool)
	Contains(key string) bool
	Remove(key string)
	// Keys returns a snapshot of the live keys.
	Keys() []string
	// Range calls fn for every live entry until fn returns false.
	Range(fn func(key string, value any) bool)
	Len() int
	// MaxTTL is the longest lifetime the store keeps an entry for. Zero means
	// entries live until their own expiration.
	MaxTTL() time.Duration
}
