// Package middleware provides request-level middleware helpers.
package middleware

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter provides per-key rate limiting for the command endpoint.
// Every LLM-backed command costs real money upstream, so each user gets
// their own token bucket.
type RateLimiter struct {
	mu     sync.Mutex
	limits map[string]*rate.Limiter

	perSecond float64
	burst     int
}

// NewRateLimiter creates a new rate limiter allowing perSecond requests per
// key with the given burst.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	if perSecond <= 0 {
		perSecond = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limits:    make(map[string]*rate.Limiter),
		perSecond: perSecond,
		burst:     burst,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, ok := rl.limits[key]; ok {
		return limiter
	}

	limiter := rate.NewLimiter(rate.Limit(rl.perSecond), rl.burst)
	rl.limits[key] = limiter
	return limiter
}

// Allow checks if a request is allowed for the given key.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// ReserveDelay reports how long the key must wait for the next slot.
func (rl *RateLimiter) ReserveDelay(key string) time.Duration {
	reservation := rl.getLimiter(key).Reserve()
	delay := reservation.Delay()
	reservation.Cancel()
	return delay
}
