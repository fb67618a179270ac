package middleware

import (
	"log/slog"
	"math"
	"strconv"
	"sync"
	"time"

	"newsdesk/helper"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter throttles requests per client IP. It guards the
// unauthenticated auth endpoints, so the key cannot be a user id.
type RateLimiter struct {
	rate            rate.Limit
	burst           int
	cleanupInterval time.Duration

	mu       sync.Mutex
	limiters map[string]*clientLimiter

	stopCh chan struct{}
}

// NewRateLimiter allows perMinute requests per client with the given burst
// and starts the background cleanup of idle clients.
func NewRateLimiter(perMinute, burst int, cleanupInterval time.Duration) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}
	rl := &RateLimiter{
		rate:            rate.Limit(float64(perMinute) / 60.0),
		burst:           burst,
		cleanupInterval: cleanupInterval,
		limiters:        make(map[string]*clientLimiter),
		stopCh:          make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

func (rl *RateLimiter) Middleware(h *helper.HTTPHelper) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if !rl.limiter(key).Allow() {
			retryAfter := 1
			if rl.rate > 0 {
				retryAfter = int(math.Max(1, math.Ceil(1.0/float64(rl.rate))))
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			slog.Warn("rate limit exceeded", slog.String("client", key), slog.String("path", c.FullPath()))
			h.SendTooManyRequests(c, "Too many requests. Please try again later.")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ClientCount returns the number of tracked clients.
func (rl *RateLimiter) ClientCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if cl, ok := rl.limiters[key]; ok {
		cl.lastAccess = time.Now()
		return cl.limiter
	}
	cl := &clientLimiter{
		limiter:    rate.NewLimiter(rl.rate, rl.burst),
		lastAccess: time.Now(),
	}
	rl.limiters[key] = cl
	return cl.limiter
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now())
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup drops clients idle for more than two cleanup intervals.
func (rl *RateLimiter) cleanup(now time.Time) {
	ttl := rl.cleanupInterval * 2

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, cl := range rl.limiters {
		if now.Sub(cl.lastAccess) > ttl {
			delete(rl.limiters, key)
		}
	}
}
