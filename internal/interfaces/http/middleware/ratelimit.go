package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is an in-memory fixed-window limiter keyed by an arbitrary
// string, usually the client IP. State for idle keys is dropped periodically.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientWindow
	limit   int
	window  time.Duration
}

type clientWindow struct {
	tokens  int
	resetAt time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*clientWindow),
		limit:   limit,
		window:  window,
	}
	go rl.evictLoop()
	return rl
}

// evictLoop drops windows that expired more than one window ago.
func (rl *RateLimiter) evictLoop() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for key, cw := range rl.clients {
			if now.Sub(cw.resetAt) > rl.window {
				delete(rl.clients, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Allow consumes one token for the key and reports whether the request may
// proceed.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cw, exists := rl.clients[key]
	if !exists || now.After(cw.resetAt) {
		rl.clients[key] = &clientWindow{
			tokens:  rl.limit - 1,
			resetAt: now.Add(rl.window),
		}
		return true
	}

	if cw.tokens > 0 {
		cw.tokens--
		return true
	}
	return false
}

// Remaining returns the number of requests left in the key's current window.
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cw, exists := rl.clients[key]
	if !exists || time.Now().After(cw.resetAt) {
		return rl.limit
	}
	return cw.tokens
}

// RetryAfter returns how long the key must wait for a fresh window.
func (rl *RateLimiter) RetryAfter(key string) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cw, exists := rl.clients[key]
	if !exists {
		return 0
	}
	wait := time.Until(cw.resetAt)
	if wait < 0 {
		return 0
	}
	return wait
}

func rejectRateLimited(c *gin.Context, limiter *RateLimiter, key string) {
	retryAfter := limiter.RetryAfter(key)
	c.Header("Retry-After", strconv.Itoa(int(retryAfter.Round(time.Second).Seconds())))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "RATE_LIMIT_EXCEEDED",
			"message": "Too many requests. Please try again later.",
		},
	})
}

// RateLimit returns a middleware limiting requests per client IP.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		if !limiter.Allow(key) {
			rejectRateLimited(c, limiter, key)
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key)))

		c.Next()
	}
}

// RateLimitByKey returns a rate limiting middleware with a custom key
// extractor, e.g. per authenticated caller instead of per IP.
func RateLimitByKey(limiter *RateLimiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)

		if !limiter.Allow(key) {
			rejectRateLimited(c, limiter, key)
			return
		}

		c.Next()
	}
}
