package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// rateLimiterStore holds a map of caller keys to their rate limiters.
type rateLimiterStore struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
}

var limiterStore = &rateLimiterStore{
	limiters: make(map[string]*rate.Limiter),
}

// getLimiter returns the rate limiter for a caller, creating one if it
// doesn't exist. Rate: 30 requests per minute with burst capacity of 10.
func (s *rateLimiterStore) getLimiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(rate.Every(time.Minute/30), 10)
		s.limiters[key] = limiter
	}
	return limiter
}

// RateLimitMiddleware limits requests per caller. The X-User-Id header keys
// the limiter when present so one chatty user cannot starve others behind
// the same proxy; otherwise the client IP is used.
func RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-User-Id")
		if key == "" {
			key = getClientIP(c)
		}
		limiter := limiterStore.getLimiter(key)
		if !limiter.Allow() {
			zap.L().Warn("Rate limit exceeded", zap.String("caller", key))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}
