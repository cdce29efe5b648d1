// Package cache implements the Result Cache (A4): the storage backend the
// Cached Analyzer Contract is built against.
package cache

import (
	"context"
	"time"
)

// Cache is the storage contract the Cached Analyzer Contract depends on.
// Implementations never interpret the payload; they only store and
// retrieve opaque bytes under a TTL.
type Cache interface {
	Get(ctx context.Context, key string) (payload []byte, found bool, err error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
}
