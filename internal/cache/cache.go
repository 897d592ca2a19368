// Package cache provides result caching for the calculation API. Identical
// requests always produce identical schedules, so serialized summaries can be
// cached keyed by a hash of the request.
package cache

import (
	"context"
	"time"
)

// Cache stores serialized calculation results keyed by request hash.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}
