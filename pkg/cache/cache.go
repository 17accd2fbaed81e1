// Package cache provides pluggable result caching for analysis runs. The
// engine keys per-jurisdiction results on the dataset fingerprint plus the
// feature set, so a cache survives process restarts only when its backend
// does.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented cache with per-entry TTL. Implementations must be
// safe for concurrent use. A miss is (nil, false, nil); errors are reserved
// for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
