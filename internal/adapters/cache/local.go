package cache

import (
	"context"
	"errors"
	"time"

	"github.com/coocood/freecache"
)

const minLocalSizeMB = 1

var _ Cache = (*LocalCache)(nil)

// LocalCache keeps entries in process memory. It is used when no Redis
// server is configured.
type LocalCache struct {
	cache *freecache.Cache
}

func NewLocalCache(sizeMB int) *LocalCache {
	if sizeMB < minLocalSizeMB {
		sizeMB = minLocalSizeMB
	}
	return &LocalCache{cache: freecache.NewCache(sizeMB * 1024 * 1024)}
}

func (c *LocalCache) Get(_ context.Context, key string) ([]byte, error) {
	val, err := c.cache.Get([]byte(key))
	if err != nil {
		if errors.Is(err, freecache.ErrNotFound) {
			return nil, ErrMiss
		}
		return nil, err
	}
	return val, nil
}

// Set stores value for ttl, rounded up to whole seconds. A ttl <= 0 never expires.
func (c *LocalCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	seconds := 0
	if ttl > 0 {
		seconds = int((ttl + time.Second - 1) / time.Second)
	}
	return c.cache.Set([]byte(key), value, seconds)
}

func (c *LocalCache) Delete(_ context.Context, key string) error {
	c.cache.Del([]byte(key))
	return nil
}
