package repositories

import (
	"context"
	"time"
)

// CacheRepositoryInterface backs the login throttle. Counters are plain
// integer keys with a TTL; a missing key reads as zero.
type CacheRepositoryInterface interface {
	GetCounter(ctx context.Context, key string) (int64, error)
	IncrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Delete(ctx context.Context, key string) error
}
