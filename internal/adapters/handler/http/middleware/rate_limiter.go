package middleware

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coocood/freecache"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// RateCounter counts hits on key inside a fixed window and reports how long
// the window still has to run.
type RateCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

type RedisRateCounter struct {
	rdb *redis.Client
}

func NewRedisRateCounter(rdb *redis.Client) *RedisRateCounter {
	return &RedisRateCounter{rdb: rdb}
}

func (r *RedisRateCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	count, err := r.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}

	if count == 1 {
		if err := r.rdb.Expire(ctx, key, window).Err(); err != nil {
			// a key without expiry would block the client forever
			r.rdb.Del(ctx, key)
			return 0, 0, fmt.Errorf("expire %s: %w", key, err)
		}
	}

	ttl, err := r.rdb.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}
	return count, ttl, nil
}

// LocalRateCounter keeps windows in process memory for single-instance
// deployments without Redis.
type LocalRateCounter struct {
	mu    sync.Mutex
	cache *freecache.Cache
}

func NewLocalRateCounter(sizeMB int) *LocalRateCounter {
	if sizeMB < 1 {
		sizeMB = 1
	}
	return &LocalRateCounter{cache: freecache.NewCache(sizeMB * 1024 * 1024)}
}

func (l *LocalRateCounter) Hit(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := []byte(key)
	windowSeconds := max(int((window+time.Second-1)/time.Second), 1)

	val, expireAt, err := l.cache.GetWithExpiration(k)
	if err != nil {
		if !errors.Is(err, freecache.ErrNotFound) {
			return 0, 0, err
		}
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, 1)
		if err := l.cache.Set(k, buf, windowSeconds); err != nil {
			return 0, 0, err
		}
		return 1, window, nil
	}

	count := int64(binary.BigEndian.Uint64(val)) + 1
	remaining := time.Until(time.Unix(int64(expireAt), 0))
	remainingSeconds := max(int((remaining+time.Second-1)/time.Second), 1)

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(count))
	if err := l.cache.Set(k, buf, remainingSeconds); err != nil {
		return 0, 0, err
	}
	return count, remaining, nil
}

// RateLimiterMiddleware limits each caller (user id when sent, client IP
// otherwise) to limit requests per window. Counter failures let the request through.
func RateLimiterMiddleware(counter RateCounter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if caller == "" {
			caller = c.ClientIP()
		}
		key := fmt.Sprintf("rate_limit:%s", caller)

		count, ttl, err := counter.Hit(c.Request.Context(), key, window)
		if err != nil {
			log.Warnf("Rate limiter skipped: %v", err)
			c.Next()
			return
		}

		resetTime := time.Now().Add(ttl).Unix()
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", max(0, int64(limit)-count)))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", resetTime))

		if count > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":     "error",
				"message":    "Too many requests. Slow down!",
				"retry_in_s": int(ttl.Seconds()),
			})
			return
		}

		c.Next()
	}
}
