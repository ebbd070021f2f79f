// Package ratelimit implements fixed-window request limiting keyed by an
// arbitrary string (the contact endpoint keys by client IP). Requests are
// counted in non-overlapping buckets: the first request from a key opens a
// window of the configured duration, and the count resets fully once that
// window elapses.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type windowEntry struct {
	count int
	reset time.Time
}

// FixedWindow is an in-process Limiter. State lives in this process only, so
// under a multi-instance deployment it under-counts globally; use
// NewRedis for anything beyond a single instance.
type FixedWindow struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	entries map[string]*windowEntry
	now     func() time.Time
}

// NewFixedWindow returns a limiter allowing max requests per key within each
// window.
func NewFixedWindow(max int, window time.Duration) *FixedWindow {
	return &FixedWindow{
		max:     max,
		window:  window,
		entries: make(map[string]*windowEntry),
		now:     time.Now,
	}
}

// Allow records a request for key and reports whether it is within the
// window ceiling. Expired windows are reset lazily on the next request from
// the same key.
func (l *FixedWindow) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]
	if !ok || now.After(e.reset) {
		l.entries[key] = &windowEntry{count: 1, reset: now.Add(l.window)}
		return true, nil
	}

	if e.count >= l.max {
		return false, nil
	}
	e.count++
	return true, nil
}
