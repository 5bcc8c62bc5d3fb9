// Package cache provides the response cache used by the read path and its
// key derivation policy. Two backends implement the same interface: a
// process-local in-memory cache (the default) and an optional Redis cache.
package cache

import (
	"context"
	"time"
)

// ResponseCache stores marshaled JSON response payloads keyed by the
// derivation scheme in keys.go. Values are opaque bytes; storing the
// serialized form keeps cached payloads immune to cross-request mutation.
type ResponseCache interface {
	// Get retrieves a cached payload. Returns nil, nil on cache miss.
	// An entry past its TTL is a miss, never a stale hit.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a payload under key, resetting its expiration to ttl from now.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a single entry. Removing an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// DeleteByPrefix removes every entry whose key starts with one of the
	// given prefixes. Used for category-scoped invalidation after writes;
	// entries outside the given prefixes are untouched.
	DeleteByPrefix(ctx context.Context, prefixes ...string) error

	// Clear empties the cache. Administrative use only.
	Clear(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
