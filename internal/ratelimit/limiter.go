// Package ratelimit provides per-key rate limiting for the worddiff MCP tools.
package ratelimit

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ErrRateLimited is returned by CheckLimit when a tool's budget is spent.
var ErrRateLimited = errors.New("rate limit exceeded")

// Limiter hands out one token bucket per key. All buckets share the
// configured rate and burst. It is safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	rate    rate.Limit
	burst   int
	nowFunc func() time.Time // injectable clock for testing
}

// NewLimiter creates a rate limiter with the given rate (tokens/sec) and burst size.
// The burst size also serves as the initial number of tokens available.
func NewLimiter(perSecond float64, burst int) *Limiter {
	return &Limiter{
		buckets: make(map[string]*rate.Limiter),
		rate:    rate.Limit(perSecond),
		burst:   burst,
		nowFunc: time.Now,
	}
}

// PerMinute is a convenience for limits expressed as n calls per minute.
func PerMinute(n float64, burst int) *Limiter {
	return NewLimiter(n/60.0, burst)
}

// Allow reports whether a request for key may proceed now, consuming a
// token if so.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = rate.NewLimiter(l.rate, l.burst)
		l.buckets[key] = b
	}
	now := l.nowFunc()
	l.mu.Unlock()

	return b.AllowN(now, 1)
}

// Burst returns the bucket size.
func (l *Limiter) Burst() int { return l.burst }

// ToolLimiters maps tool names to their rate limiters.
type ToolLimiters map[string]*Limiter

// NewToolLimiters creates the default set of per-tool rate limiters.
// Diffing is cheap but unbounded in input size; pattern changes touch
// state shared by every caller and are limited harder.
func NewToolLimiters() ToolLimiters {
	return ToolLimiters{
		"worddiff_diff":        PerMinute(120, 20), // 2/second, burst 20
		"worddiff_set_pattern": PerMinute(10, 3),   // 10/minute, burst 3
		"worddiff_get_pattern": PerMinute(60, 10),  // 60/minute, burst 10
	}
}

// CheckLimit checks the rate limit for a given tool name.
// Returns nil if allowed, or an error wrapping ErrRateLimited.
// Tools without a configured limiter are always allowed.
func CheckLimit(limiters ToolLimiters, toolName string) error {
	limiter, ok := limiters[toolName]
	if !ok {
		return nil // No limiter configured = no limit
	}

	if !limiter.Allow(toolName) {
		return fmt.Errorf("%w for %s, please try again shortly", ErrRateLimited, toolName)
	}

	return nil
}
