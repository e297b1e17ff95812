package common

import (
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// CacheService is the in-process cache used for reference display data
type CacheService struct {
	cache *cache.Cache
	loads singleflight.Group
}

var _ CacheInterface = (*CacheService)(nil)

// NewCacheService creates a cache whose entries default to defaultExpiration
// and are swept every cleanUpInterval
func NewCacheService(defaultExpiration, cleanUpInterval time.Duration) *CacheService {
	return &CacheService{cache: cache.New(defaultExpiration, cleanUpInterval)}
}

func (cs *CacheService) Set(key string, value interface{}, duration time.Duration) {
	cs.cache.Set(key, value, duration)
}

func (cs *CacheService) Get(key string) (interface{}, bool) {
	return cs.cache.Get(key)
}

func (cs *CacheService) Delete(key string) {
	cs.cache.Delete(key)
}

// GetOrSet returns the cached value or runs loader once for every concurrent
// caller missing the same key. Loader errors are returned and not cached.
func (cs *CacheService) GetOrSet(key string, duration time.Duration, loader func() (any, error)) (interface{}, error) {
	if val, found := cs.Get(key); found {
		return val, nil
	}

	val, err, _ := cs.loads.Do(key, func() (interface{}, error) {
		if val, found := cs.Get(key); found {
			return val, nil
		}
		val, err := loader()
		if err != nil {
			return nil, err
		}
		cs.Set(key, val, duration)
		return val, nil
	})
	return val, err
}

// Flush drops every entry
func (cs *CacheService) Flush() {
	cs.cache.Flush()
}

func (cs *CacheService) Close() error {
	return nil
}
