package notifier

import (
	"sync"
	"time"
)

// RateLimiter implements a sliding window rate limiter for notifications.
type RateLimiter struct {
	mu           sync.Mutex
	maxPerWindow int
	window       time.Duration
	timestamps   []time.Time
	dropped      int64
	enabled      bool
}

// RateLimitConfig holds rate limiter configuration.
type RateLimitConfig struct {
	MaxPerWindow int           // Maximum notifications per window (default: 10)
	Window       time.Duration // Time window (default: 1 minute)
	Enabled      bool          // Whether rate limiting is enabled (default: true)
}

// DefaultRateLimitConfig returns default rate limit settings.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxPerWindow: 10,
		Window:       time.Minute,
		Enabled:      true,
	}
}

// NewRateLimiter creates a new rate limiter with the given configuration.
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.MaxPerWindow <= 0 {
		config.MaxPerWindow = 10
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}

	return &RateLimiter{
		maxPerWindow: config.MaxPerWindow,
		window:       config.Window,
		timestamps:   make([]time.Time, 0, config.MaxPerWindow),
		enabled:      config.Enabled,
	}
}

// Allow checks if a notification is allowed under the rate limit.
func (r *RateLimiter) Allow() bool {
	if !r.enabled {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-r.window)

	valid := r.timestamps[:0]
	for _, t := range r.timestamps {
		if t.After(windowStart) {
			valid = append(valid, t)
		}
	}
	r.timestamps = valid

	if len(r.timestamps) >= r.maxPerWindow {
		r.dropped++
		return false
	}

	r.timestamps = append(r.timestamps, now)
	return true
}

// Dropped returns the number of notifications dropped so far.
func (r *RateLimiter) Dropped() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}
