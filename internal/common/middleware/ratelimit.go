package middleware

import (
	"context"
	"sync"
	"time"
)

// RateLimiter decides whether a request may proceed.
type RateLimiter interface {
	Allow(ctx context.Context) bool
}

// TokenBucket is a token-bucket rate limiter.
type TokenBucket struct {
	capacity   int64
	tokens     int64
	refillRate int64 // tokens added per second
	lastRefill time.Time
	mu         sync.Mutex
}

func NewTokenBucket(capacity, refillRate int64) *TokenBucket {
	return &TokenBucket{
		capacity:   capacity,
		tokens:     capacity,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// Allow takes one token if available.
func (tb *TokenBucket) Allow(ctx context.Context) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()

	tokensToAdd := int64(elapsed * float64(tb.refillRate))
	if tokensToAdd > 0 {
		tb.tokens = minInt64(tb.tokens+tokensToAdd, tb.capacity)
		tb.lastRefill = now
	}

	if tb.tokens > 0 {
		tb.tokens--
		return true
	}

	return false
}

// SlidingWindow limits requests per rolling time window.
type SlidingWindow struct {
	requests    []time.Time
	window      time.Duration
	maxRequests int
	mu          sync.Mutex
}

func NewSlidingWindow(window time.Duration, maxRequests int) *SlidingWindow {
	return &SlidingWindow{
		requests:    make([]time.Time, 0),
		window:      window,
		maxRequests: maxRequests,
	}
}

func (sw *SlidingWindow) Allow(ctx context.Context) bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-sw.window)

	validRequests := make([]time.Time, 0)
	for _, reqTime := range sw.requests {
		if reqTime.After(windowStart) {
			validRequests = append(validRequests, reqTime)
		}
	}
	sw.requests = validRequests

	if len(sw.requests) < sw.maxRequests {
		sw.requests = append(sw.requests, now)
		return true
	}

	return false
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
