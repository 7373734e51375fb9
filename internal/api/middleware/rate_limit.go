package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"teacherpin/internal/config"
	"teacherpin/internal/metrics"
	"teacherpin/internal/models"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter implements per-client rate limiting using a token bucket. The
// router puts a second, tighter instance in front of PIN validation to slow
// down guessing across many accounts, which the per-account lockout alone
// does not.
type RateLimiter struct {
	limiters map[string]*clientLimiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	idle     time.Duration
	window   int // Store window size for header calculations
	requests int // Store total requests for header calculations
	now      func() time.Time
	metrics  *metrics.Metrics
}

// NewRateLimiter creates a new rate limiter middleware
func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	requests := cfg.Requests
	if requests <= 0 {
		requests = 1
	}
	window := cfg.Window
	if window <= 0 {
		window = 1
	}
	burst := cfg.Burst
	if burst <= 0 || burst > requests {
		burst = requests
	}

	return &RateLimiter{
		limiters: make(map[string]*clientLimiter),
		rate:     rate.Every(time.Duration(window) * time.Second / time.Duration(requests)),
		burst:    burst,
		idle:     time.Hour,
		window:   window,
		requests: requests,
		now:      time.Now,
	}
}

// WithMetrics counts rejected requests in m
func (rl *RateLimiter) WithMetrics(m *metrics.Metrics) *RateLimiter {
	rl.metrics = m
	return rl
}

// getLimiter returns a rate limiter for the given key
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, exists := rl.limiters[key]
	if !exists {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = cl
	}
	cl.lastSeen = rl.now()
	return cl.limiter
}

// Run evicts idle clients every interval until ctx is done
func (rl *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

// sweep drops limiters that have not been used for rl.idle
func (rl *RateLimiter) sweep() int {
	cutoff := rl.now().Add(-rl.idle)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for key, cl := range rl.limiters {
		if cl.lastSeen.Before(cutoff) {
			delete(rl.limiters, key)
			removed++
		}
	}
	return removed
}

// Middleware returns a Gin middleware function that implements rate limiting
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := rl.getLimiter(c.ClientIP())

		now := rl.now()
		r := limiter.ReserveN(now, 1)
		if delay := r.DelayFrom(now); !r.OK() || delay > 0 {
			r.CancelAt(now)
			if rl.metrics != nil {
				rl.metrics.RateLimited.Inc()
			}
			retryAfter := int(delay.Round(time.Second).Seconds())
			if !r.OK() || retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", rl.requests))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", now.Add(delay).Unix()))
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{Error: "rate limit exceeded"})
			return
		}

		// Calculate remaining tokens
		tokens := int(limiter.TokensAt(now))
		if tokens < 0 {
			tokens = 0
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", rl.requests))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", tokens))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", now.Add(time.Duration(rl.window)*time.Second).Unix()))

		c.Next()
	}
}
