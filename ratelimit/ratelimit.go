// Copyright (c) 2026 kiryuchi10.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter throttles requests per client key with a token bucket per key.
// Idle entries are evicted after the eviction window so the map cannot grow
// unbounded with one-shot clients.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   rate.Limit
	burst   int
	window  time.Duration

	lastSweep time.Time
	now       func() time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// PerWindow builds a limiter allowing maxRequests per window for each key,
// mirroring a fixed-window quota as a token bucket with matching burst.
func PerWindow(maxRequests int, window time.Duration) *Limiter {
	return &Limiter{
		clients: make(map[string]*client),
		limit:   rate.Limit(float64(maxRequests) / window.Seconds()),
		burst:   maxRequests,
		window:  window,
		now:     time.Now,
	}
}

// Allow reports whether the request from key may proceed.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now

	return c.limiter.AllowN(now, 1)
}

// sweep drops entries idle longer than the eviction window. Runs at most
// once per window; callers hold the mutex.
func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	l.lastSweep = now
	for key, c := range l.clients {
		if now.Sub(c.lastSeen) > l.window {
			delete(l.clients, key)
		}
	}
}
