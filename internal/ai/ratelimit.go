package ai

import (
	"context"
	"sync"
	"time"
)

// Limiter gates outgoing provider calls.
type Limiter interface {
	// Wait blocks until a call may proceed or the context is cancelled.
	Wait(ctx context.Context) error
	// Allow reports whether a call may proceed right now, consuming a
	// token if so.
	Allow() bool
}

// NoopLimiter never blocks.
type NoopLimiter struct{}

func (NoopLimiter) Wait(context.Context) error { return nil }
func (NoopLimiter) Allow() bool                { return true }

// TokenBucket is a token-bucket limiter: reqPerMinute sustained rate with
// a small burst. The bucket starts full so the first calls go straight
// through.
type TokenBucket struct {
	mu         sync.Mutex
	rate       float64 // tokens per second
	burst      float64
	tokens     float64
	lastUpdate time.Time
}

// NewTokenBucket builds a limiter for reqPerMinute with the given burst.
func NewTokenBucket(reqPerMinute float64, burst int) *TokenBucket {
	if burst < 1 {
		burst = 1
	}
	return &TokenBucket{
		rate:       reqPerMinute / 60.0,
		burst:      float64(burst),
		tokens:     float64(burst),
		lastUpdate: time.Now(),
	}
}

// Wait blocks until a token is available or ctx ends.
func (l *TokenBucket) Wait(ctx context.Context) error {
	for {
		if l.Allow() {
			return nil
		}
		wait := time.Duration(float64(time.Second) / l.rate)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// Allow refills by elapsed time and consumes one token when available.
func (l *TokenBucket) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.tokens += now.Sub(l.lastUpdate).Seconds() * l.rate
	if l.tokens > l.burst {
		l.tokens = l.burst
	}
	l.lastUpdate = now

	if l.tokens >= 1.0 {
		l.tokens -= 1.0
		return true
	}
	return false
}
