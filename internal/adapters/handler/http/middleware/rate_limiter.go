package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/comitanigiacomo/kanso-planner/internal/logger"
)

func tooManyRequests(c *gin.Context, retryIn time.Duration) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"status":     "error",
		"message":    "Too many requests. Slow down!",
		"retry_in_s": int(retryIn.Seconds()),
	})
}

// RateLimiterMiddleware counts requests per client IP in fixed redis windows.
// Redis failures let the request through.
func RateLimiterMiddleware(rdb *redis.Client, limit int, window time.Duration, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := fmt.Sprintf("rate_limit:%s", c.ClientIP())

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			log.Warn("rate limiter skipped", zap.Error(err))
			c.Next()
			return
		}

		if count == 1 {
			if err := rdb.Expire(ctx, key, window).Err(); err != nil {
				log.Warn("rate limiter expire failed, dropping key", zap.String("key", key), zap.Error(err))
				rdb.Del(ctx, key)
				c.Next()
				return
			}
		}

		ttl, err := rdb.TTL(ctx, key).Result()
		if err != nil || ttl < 0 {
			ttl = window
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", max(0, int64(limit)-count)))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(ttl).Unix()))

		if count > int64(limit) {
			tooManyRequests(c, ttl)
			return
		}

		c.Next()
	}
}

// localLimiters holds one token bucket per client IP. A bucket idle for a
// whole window has refilled completely, so it is dropped on the next sweep.
type localLimiters struct {
	mu        sync.Mutex
	entries   map[string]*localEntry
	limit     int
	every     rate.Limit
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type localEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLocalLimiters(limit int, window time.Duration, now func() time.Time) *localLimiters {
	return &localLimiters{
		entries:   make(map[string]*localEntry),
		limit:     limit,
		every:     rate.Every(window / time.Duration(limit)),
		idle:      window,
		lastSweep: now(),
		now:       now,
	}
}

func (l *localLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idle {
		for key, e := range l.entries {
			if now.Sub(e.lastSeen) >= l.idle {
				delete(l.entries, key)
			}
		}
		l.lastSweep = now
	}

	e, ok := l.entries[ip]
	if !ok {
		e = &localEntry{limiter: rate.NewLimiter(l.every, l.limit)}
		l.entries[ip] = e
	}
	e.lastSeen = now
	return e.limiter
}

func (l *localLimiters) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// LocalRateLimiterMiddleware is the in-process variant used when redis is
// disabled: a token bucket per client IP refilling limit tokens per window.
func LocalRateLimiterMiddleware(limit int, window time.Duration) gin.HandlerFunc {
	return localRateLimiter(newLocalLimiters(limit, window, time.Now))
}

func localRateLimiter(limiters *localLimiters) gin.HandlerFunc {
	return func(c *gin.Context) {
		l := limiters.get(c.ClientIP())
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limiters.limit))

		r := l.Reserve()
		if delay := r.Delay(); delay > 0 {
			r.Cancel()
			tooManyRequests(c, delay)
			return
		}

		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", max(0, int(l.Tokens()))))
		c.Next()
	}
}
