package cache

import (
	"context"
	"errors"
	"time"
)

var ErrCacheMiss = errors.New("cache: key not found")

// Service is the cache the scanner writes scoreboards and last prices
// through and the API reads from. Implementations are MemoryCache,
// RedisCache, and the LayeredCache combining both.
type Service interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, keys ...string) (bool, error)

	// TryLock acquires a best-effort lease under key; it reports false
	// when another holder has it. Unlock releases the lease early,
	// otherwise it lapses after ttl.
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}
