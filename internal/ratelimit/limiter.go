package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter is a token bucket used to pace document fetches against remote
// repositories. Bursts up to the bucket size are allowed; sustained
// throughput is one token per refill interval.
type Limiter struct {
	tokens     int
	maxTokens  int
	refillRate time.Duration
	mu         sync.Mutex
	lastRefill time.Time
}

// NewLimiter creates a token bucket holding maxTokens, refilled at one
// token per refillRate.
func NewLimiter(maxTokens int, refillRate time.Duration) *Limiter {
	return &Limiter{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// Allow consumes a token if one is available and reports whether the
// request may proceed immediately.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()

	if l.tokens > 0 {
		l.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is available or the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		if l.Allow() {
			return nil
		}

		sleep := l.refillRate / time.Duration(l.maxTokens)
		if sleep <= 0 {
			sleep = time.Millisecond
		}

		timer := time.NewTimer(sleep)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}

// Tokens returns the number of tokens currently available.
func (l *Limiter) Tokens() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()
	return l.tokens
}

// refill adds tokens based on elapsed time. Caller must hold the mutex.
func (l *Limiter) refill() {
	now := time.Now()
	elapsed := now.Sub(l.lastRefill)

	add := int(elapsed / l.refillRate)
	if add > 0 {
		l.tokens = min(l.maxTokens, l.tokens+add)
		l.lastRefill = now
	}
}

// NewRepositoryLimiter returns the default pacing for remote card
// repositories: small bursts, roughly five documents per second sustained.
func NewRepositoryLimiter() *Limiter {
	return NewLimiter(10, 200*time.Millisecond)
}
