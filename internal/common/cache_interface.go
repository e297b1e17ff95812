package common

import "time"

// CacheInterface is implemented by the in-memory and Redis caches that hold
// reference display data. Values read back from Redis are decoded JSON, not
// the original Go type.
type CacheInterface interface {
	Set(key string, value interface{}, duration time.Duration)

	// Get returns the value and true if the key is present
	Get(key string) (interface{}, bool)

	Delete(key string)

	// GetOrSet returns the cached value, or stores and returns what loader
	// produces. Loader errors are not cached.
	GetOrSet(key string, duration time.Duration, loader func() (any, error)) (interface{}, error)

	// Close releases connections owned by the cache
	Close() error
}
