package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	log "github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/kanso-fit/internal/adapters/cache"
	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
)

const (
	DefaultCacheTTL = 30 * time.Minute
	keyLockStripes  = 64
)

var _ domain.UserDataRepository = (*CachedUserDataRepository)(nil)

// CacheObserver receives hit/miss notifications, usually the metrics manager.
type CacheObserver interface {
	CacheHit()
	CacheMiss()
}

// CachedUserDataRepository is a read-through cache in front of next. A cache
// fill and a write on the same key hold the same lock, so a fill that read
// the store before a write can never land after that write's invalidation.
type CachedUserDataRepository struct {
	next     domain.UserDataRepository
	cache    cache.Cache
	ttl      time.Duration
	observer CacheObserver
	locks    [keyLockStripes]sync.Mutex
}

func NewCachedUserDataRepository(next domain.UserDataRepository, c cache.Cache, ttl time.Duration, observer CacheObserver) *CachedUserDataRepository {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedUserDataRepository{
		next:     next,
		cache:    c,
		ttl:      ttl,
		observer: observer,
	}
}

func (r *CachedUserDataRepository) cacheKey(userID, key string) string {
	return fmt.Sprintf("userdata:%s:%s", userID, key)
}

func (r *CachedUserDataRepository) lockFor(cacheKey string) *sync.Mutex {
	return &r.locks[xxhash.Sum64String(cacheKey)%keyLockStripes]
}

func (r *CachedUserDataRepository) invalidate(ctx context.Context, userID, key string) {
	if err := r.cache.Delete(ctx, r.cacheKey(userID, key)); err != nil {
		log.Warnf("[CACHE] Failed to invalidate %s for user %s: %v", key, userID, err)
	}
}

func (r *CachedUserDataRepository) Get(ctx context.Context, userID, key string) ([]byte, error) {
	ck := r.cacheKey(userID, key)

	val, err := r.cache.Get(ctx, ck)
	if err == nil {
		r.hit()
		return val, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		log.Warnf("[CACHE] Read error for %s: %v", ck, err)
	}

	mu := r.lockFor(ck)
	mu.Lock()
	defer mu.Unlock()

	// filled by another reader while we waited
	if val, err := r.cache.Get(ctx, ck); err == nil {
		r.hit()
		return val, nil
	}
	r.miss()

	val, err = r.next.Get(ctx, userID, key)
	if err != nil {
		return nil, err
	}

	if setErr := r.cache.Set(ctx, ck, val, r.ttl); setErr != nil {
		log.Warnf("[CACHE] Set error for %s: %v", ck, setErr)
	}
	return val, nil
}

func (r *CachedUserDataRepository) Set(ctx context.Context, userID, key string, value []byte) error {
	mu := r.lockFor(r.cacheKey(userID, key))
	mu.Lock()
	defer mu.Unlock()

	if err := r.next.Set(ctx, userID, key, value); err != nil {
		return err
	}
	r.invalidate(ctx, userID, key)
	return nil
}

func (r *CachedUserDataRepository) hit() {
	if r.observer != nil {
		r.observer.CacheHit()
	}
}

func (r *CachedUserDataRepository) miss() {
	if r.observer != nil {
		r.observer.CacheMiss()
	}
}
