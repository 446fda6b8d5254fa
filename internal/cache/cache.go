// Package cache defines the key/value cache used in front of slow upstreams.
package cache

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("key not found in cache")

// Cache stores opaque string values with a TTL.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}
