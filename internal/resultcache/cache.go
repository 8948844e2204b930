// Package resultcache is SPEC_FULL.md's optional query-result cache
// (§4.10-EXPANDED): a small TTL cache in front of the pipeline facade so a
// repeated identical query skips routing-engine round trips entirely.
// Adapted from the teacher's Redis cache repository (Get/Set/Delete over a
// byte slice, logged the same way) generalized from tile keys to query
// fingerprints, with an in-process map fallback for when no Redis address
// is configured.
package resultcache

import (
	"context"
	"time"
)

// Cache is the minimal byte-oriented store both backends implement.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
