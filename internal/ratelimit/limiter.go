// Package ratelimit paces requests against upstream market-data APIs.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter holds one token bucket per upstream source, keyed by
// provider name.
type Limiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
}

// New creates a Limiter with conservative defaults for the known
// providers. Yahoo tolerates a handful of requests per second on its
// public chart endpoint; finance-go shares the same backend.
func New() *Limiter {
	return &Limiter{
		limiters: map[string]*rate.Limiter{
			"yahoo":    rate.NewLimiter(rate.Limit(4), 1),
			"piquette": rate.NewLimiter(rate.Limit(2), 1),
		},
	}
}

// Set overrides the requests-per-second budget for one source.
// rps <= 0 disables limiting for that source.
func (l *Limiter) Set(name string, rps float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if rps <= 0 {
		l.limiters[name] = rate.NewLimiter(rate.Inf, 1)
		return
	}
	l.limiters[name] = rate.NewLimiter(rate.Limit(rps), 1)
}

// Wait blocks until the source's limiter permits a request, or the
// context is done. Unknown sources pass through unlimited.
func (l *Limiter) Wait(ctx context.Context, name string) error {
	l.mu.RLock()
	limiter, ok := l.limiters[name]
	l.mu.RUnlock()

	if !ok {
		return nil
	}
	return limiter.Wait(ctx)
}

// Allow reports whether a request for the source may happen now.
func (l *Limiter) Allow(name string) bool {
	l.mu.RLock()
	limiter, ok := l.limiters[name]
	l.mu.RUnlock()

	if !ok {
		return true
	}
	return limiter.Allow()
}
