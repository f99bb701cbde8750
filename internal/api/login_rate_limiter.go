package api

import (
	"strconv"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/juju/ratelimit"
	"github.com/terraincognita07/vitalink/internal/metrics"
)

const (
	defaultLoginRate  = 5.0 / 60.0
	defaultLoginBurst = 5
)

// loginRateLimiter hands every client IP its own token bucket. Each login
// request takes one token whatever its outcome.
type loginRateLimiter struct {
	mu      sync.RWMutex
	clients map[string]*ratelimit.Bucket
	rate    float64
	burst   int64
}

func newLoginRateLimiter(rate float64, burst int64) *loginRateLimiter {
	if rate <= 0 {
		rate = defaultLoginRate
	}
	if burst <= 0 {
		burst = defaultLoginBurst
	}
	return &loginRateLimiter{
		clients: make(map[string]*ratelimit.Bucket),
		rate:    rate,
		burst:   burst,
	}
}

func (limiter *loginRateLimiter) bucket(clientKey string) *ratelimit.Bucket {
	limiter.mu.RLock()
	bucket, exists := limiter.clients[clientKey]
	limiter.mu.RUnlock()
	if exists {
		return bucket
	}

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	if bucket, exists = limiter.clients[clientKey]; !exists {
		bucket = ratelimit.NewBucketWithRate(limiter.rate, limiter.burst)
		limiter.clients[clientKey] = bucket
		metrics.RateLimiterBucketsTotal.Set(float64(len(limiter.clients)))
	}
	return bucket
}

// prune drops buckets that have refilled completely.
func (limiter *loginRateLimiter) prune() {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	for key, bucket := range limiter.clients {
		if bucket.Available() == bucket.Capacity() {
			delete(limiter.clients, key)
		}
	}
	metrics.RateLimiterBucketsTotal.Set(float64(len(limiter.clients)))
}

func (handler *Handler) LoginRateLimit(c *fiber.Ctx) error {
	bucket := handler.loginLimiter.bucket(requestLimiterKey(c))

	c.Set("X-RateLimit-Limit", strconv.FormatInt(bucket.Capacity(), 10))
	if bucket.TakeAvailable(1) < 1 {
		c.Set("X-RateLimit-Remaining", "0")
		c.Set(fiber.HeaderRetryAfter, "60")
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts, please try again later")
	}
	c.Set("X-RateLimit-Remaining", strconv.FormatInt(bucket.Available(), 10))
	return c.Next()
}

// PruneRateLimiters releases idle client buckets and expired lockouts; the
// server calls it on a schedule.
func (handler *Handler) PruneRateLimiters() {
	handler.loginLimiter.prune()
	handler.failedLogins.sweep(handler.now())
}
