// Package middleware holds the echo middlewares shared by the routers.
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimiter limits requests per client IP. AI-backed endpoints get a much
// tighter budget than plain CRUD since every call costs provider money.
type RateLimiter struct {
	mu       sync.Mutex
	limits   map[string]*rate.Limiter
	interval time.Duration
	burst    int
}

// NewRateLimiter allows one request per interval with the given burst.
func NewRateLimiter(interval time.Duration, burst int) *RateLimiter {
	return &RateLimiter{
		limits:   make(map[string]*rate.Limiter),
		interval: interval,
		burst:    burst,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, ok := rl.limits[key]; ok {
		return limiter
	}
	limiter := rate.NewLimiter(rate.Every(rl.interval), rl.burst)
	rl.limits[key] = limiter
	return limiter
}

// Allow checks whether a request from key may proceed.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// Middleware rejects over-budget requests with 429.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.Allow(c.RealIP()) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
