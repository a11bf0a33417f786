// middleware/rate_limiter.go

package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	logger "github.com/phishnheat/backend/logging"
)

// clientLimiters keeps one token bucket per client IP. Idle entries are
// dropped after an hour so the map does not grow without bound.
type clientLimiters struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	limit    rate.Limit
	burst    int
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiters(requests int, per time.Duration) *clientLimiters {
	cl := &clientLimiters{
		limiters: make(map[string]*clientLimiter),
		limit:    rate.Every(per / time.Duration(requests)),
		burst:    requests,
	}
	go cl.cleanup()
	return cl
}

func (cl *clientLimiters) get(key string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	entry, ok := cl.limiters[key]
	if !ok {
		entry = &clientLimiter{limiter: rate.NewLimiter(cl.limit, cl.burst)}
		cl.limiters[key] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

func (cl *clientLimiters) cleanup() {
	for range time.Tick(10 * time.Minute) {
		cl.mu.Lock()
		for key, entry := range cl.limiters {
			if time.Since(entry.lastSeen) > time.Hour {
				delete(cl.limiters, key)
			}
		}
		cl.mu.Unlock()
	}
}

// RateLimiter throttles inbound requests per client IP.
func RateLimiter(requests int, per time.Duration) gin.HandlerFunc {
	limiters := newClientLimiters(requests, per)

	return func(c *gin.Context) {
		key := c.ClientIP()

		c.Header("X-RateLimit-Limit", strconv.Itoa(requests))
		c.Header("X-RateLimit-Duration", per.String())

		if !limiters.get(key).Allow() {
			logger.Warn("Rate limit exceeded",
				zap.String("ip", key),
				zap.Int("limit", requests),
				zap.Duration("per", per))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			c.Abort()
			return
		}

		c.Next()
	}
}
