package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	limit rate.Limit
	burst int
	ips   map[string]*rate.Limiter
	mu    sync.Mutex
}

func NewRateLimiter(every time.Duration, burst int) *RateLimiter {
	return &RateLimiter{
		limit: rate.Every(every),
		burst: burst,
		ips:   make(map[string]*rate.Limiter),
	}
}

// NewStrictRateLimiter is meant for the login endpoint: 5 attempts a minute per IP.
func NewStrictRateLimiter() gin.HandlerFunc {
	return NewRateLimiter(12*time.Second, 5).RateLimit()
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	l, ok := rl.ips[ip]
	if !ok {
		l = rate.NewLimiter(rl.limit, rl.burst)
		rl.ips[ip] = l
	}
	return l
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiter(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"status":  false,
				"message": "too many requests, please wait a moment",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
