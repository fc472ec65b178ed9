// Package cache provides the metadata cache used to memoize flake
// resolution lookups.
//
// Resolving an unpinned reference ("what revision is latest right
// now?") requires a network round trip through nix. The answers change
// rarely, so they are cached with a TTL. The cache is strictly an
// optimization layer: the persistent profile remains the single source
// of truth for what is installed, and a cold or disabled cache only
// costs extra lookups.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with optional
// expiry.
type Cache interface {
	// Get retrieves a value. The second return value reports a hit;
	// expired or missing entries are misses, not errors.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// MetadataKey builds the cache key for a flake metadata lookup.
// The reference string is hashed so hostile references cannot influence
// the on-disk layout.
func MetadataKey(ref string) string {
	return "flake-metadata:" + Hash([]byte(ref))
}
