package security

import (
	"sync"
	"time"

	"github.com/coder/websocket"
)

// RateLimiter caps how many messages a single connection may send per
// window. Each connection owns its own limiter.
type RateLimiter struct {
	mu        sync.Mutex
	count     int
	lastReset time.Time
	maxTokens int
	window    time.Duration
}

// NewRateLimiter creates a new rate limiter
// maxTokens: maximum messages per window
// window: time window for rate limiting (e.g., 1 second)
func NewRateLimiter(maxTokens int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		lastReset: time.Now(),
		maxTokens: maxTokens,
		window:    window,
	}
}

// Allow reports whether another message fits in the current window.
// Returns true if allowed, false if rate limit exceeded
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if time.Since(rl.lastReset) > rl.window {
		rl.count = 0
		rl.lastReset = time.Now()
	}

	rl.count++
	return rl.count <= rl.maxTokens
}

// OriginValidator validates WebSocket connection origins
type OriginValidator struct {
	allowedPatterns []string
}

// NewOriginValidator creates a new origin validator
func NewOriginValidator(patterns []string) *OriginValidator {
	return &OriginValidator{
		allowedPatterns: patterns,
	}
}

// GetAcceptOptions returns websocket.AcceptOptions with origin patterns
func (ov *OriginValidator) GetAcceptOptions() *websocket.AcceptOptions {
	return &websocket.AcceptOptions{
		OriginPatterns: ov.allowedPatterns,
	}
}
