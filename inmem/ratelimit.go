// Package inmem provides process-local implementations of bookshelf services.
package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/blaize/bookshelf"
)

var _ bookshelf.RateLimiter = (*RateLimiter)(nil)

// RateLimiter is a fixed-window admission counter per client key.
//
// State lives only in this process: behind several server instances each one
// counts separately. Entries are never evicted, so memory grows with the
// number of distinct keys seen.
type RateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	entries sync.Map // key -> *counter
}

// counter guards one key's entry. Different keys never share a lock.
type counter struct {
	mu    sync.Mutex
	entry bookshelf.RateLimitEntry
}

// Option configures a RateLimiter.
type Option func(*RateLimiter)

// WithClock replaces time.Now. Useful in tests.
func WithClock(now func() time.Time) Option {
	return func(l *RateLimiter) {
		l.now = now
	}
}

// NewRateLimiter creates a RateLimiter admitting limit requests per window.
// Non-positive values fall back to bookshelf.DefaultRateLimit and
// bookshelf.DefaultRateWindow.
func NewRateLimiter(limit int, window time.Duration, opts ...Option) *RateLimiter {
	if limit <= 0 {
		limit = bookshelf.DefaultRateLimit
	}
	if window <= 0 {
		window = bookshelf.DefaultRateWindow
	}
	l := &RateLimiter{
		limit:  limit,
		window: window,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow records an admission for key or returns ERATELIMIT.
func (l *RateLimiter) Allow(_ context.Context, key string) error {
	v, _ := l.entries.LoadOrStore(key, &counter{})
	w := v.(*counter)

	w.mu.Lock()
	defer w.mu.Unlock()

	now := l.now()
	if w.entry.Count == 0 || !w.entry.WindowReset.After(now) {
		w.entry = bookshelf.RateLimitEntry{Count: 1, WindowReset: now.Add(l.window)}
		return nil
	}
	if w.entry.Count < l.limit {
		w.entry.Count++
		return nil
	}
	return bookshelf.Errorf(bookshelf.ERATELIMIT, "Rate limit exceeded.")
}

// Entry returns the current state for key.
// The bool result is false if the key has never been seen.
func (l *RateLimiter) Entry(key string) (bookshelf.RateLimitEntry, bool) {
	v, ok := l.entries.Load(key)
	if !ok {
		return bookshelf.RateLimitEntry{}, false
	}
	w := v.(*counter)
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.entry, true
}
