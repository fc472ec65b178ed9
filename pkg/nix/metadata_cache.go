package nix

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kenbanks-peng/mise-nix/pkg/cache"
)

// CachedMetadata decorates a Nix implementation, memoizing Metadata
// lookups through a cache. Only metadata resolution is cached; build,
// profile and version operations pass straight through, since the
// profile is the source of truth for installed state.
type CachedMetadata struct {
	Nix
	cache cache.Cache
	ttl   time.Duration
}

// WithMetadataCache wraps n so repeated metadata lookups for the same
// reference skip the network until the ttl expires.
func WithMetadataCache(n Nix, c cache.Cache, ttl time.Duration) *CachedMetadata {
	return &CachedMetadata{Nix: n, cache: c, ttl: ttl}
}

// Metadata returns the cached resolution when fresh, falling back to
// the underlying implementation. Cache failures degrade to lookups,
// never to errors.
func (m *CachedMetadata) Metadata(ctx context.Context, ref string) (*FlakeMetadata, error) {
	key := cache.MetadataKey(ref)

	if data, hit, err := m.cache.Get(ctx, key); err == nil && hit {
		var meta FlakeMetadata
		if json.Unmarshal(data, &meta) == nil {
			return &meta, nil
		}
	}

	meta, err := m.Nix.Metadata(ctx, ref)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(meta); err == nil {
		_ = m.cache.Set(ctx, key, data, m.ttl)
	}
	return meta, nil
}
