package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
)

type Limiter interface {
	Allow(key string, limit int, window time.Duration) bool
}

// MemoryLimiter is a fixed-window counter kept in process memory.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rateBucket
	now     func() time.Time
}

type rateBucket struct {
	count     int
	windowEnd time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{buckets: make(map[string]*rateBucket), now: time.Now}
}

func (r *MemoryLimiter) Allow(key string, limit int, window time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	bucket, ok := r.buckets[key]
	if !ok || now.After(bucket.windowEnd) {
		r.buckets[key] = &rateBucket{count: 1, windowEnd: now.Add(window)}
		r.sweep(now)
		return true
	}
	if bucket.count >= limit {
		return false
	}
	bucket.count++
	return true
}

func (r *MemoryLimiter) sweep(now time.Time) {
	if len(r.buckets) < 1024 {
		return
	}
	for k, b := range r.buckets {
		if now.After(b.windowEnd) {
			delete(r.buckets, k)
		}
	}
}

// RateLimit answers 429 once key exceeds limit requests within window.
func RateLimit(limiter Limiter, prefix string, limit int, window time.Duration) fiber.Handler {
	return func(c fiber.Ctx) error {
		if limiter == nil || limit <= 0 || window <= 0 {
			return c.Next()
		}
		key := ClientIP(c)
		if key == "" {
			return c.Next()
		}
		if !limiter.Allow(prefix+key, limit, window) {
			return NewAppError(fiber.StatusTooManyRequests, "Too many requests", nil)
		}
		return c.Next()
	}
}

// ClientIP is the peer address, or the forwarded client address when the
// peer is a trusted proxy (see fiber.Config.TrustProxyConfig).
func ClientIP(c fiber.Ctx) string {
	return c.IP()
}
