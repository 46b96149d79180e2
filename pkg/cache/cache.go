// Package cache provides byte-level caching for rendered artifacts.
//
// Projections themselves are never cached - layout and timeline are
// recomputed live from the node set on every call. What may be cached is
// expensive rendered output (Graphviz SVG/PNG), and only under a key
// derived from the canvas content hash: any topology mutation changes the
// hash, so a stale artifact can never be served for a mutated canvas.
package cache

import (
	"context"
	"fmt"
	"time"
)

// TTLArtifact is how long rendered artifacts stay cached. Content-hashed
// keys never go stale, so the TTL only bounds disk usage.
const TTLArtifact = 7 * 24 * time.Hour

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get retrieves a value. The second return reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases any resources held by the cache.
	Close() error
}

// ArtifactKey builds the cache key for a rendered artifact. canvasHash
// must be the content hash of the normalized node set.
func ArtifactKey(canvasHash, format string) string {
	return fmt.Sprintf("artifact:%s:%s", format, canvasHash)
}
