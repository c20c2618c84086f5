package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/blaize/bookshelf"
)

// Compile-time interface verification.
var _ bookshelf.RateLimiter = (*RateLimiter)(nil)

// RateLimiter is a fixed-window limiter whose state lives in the
// rate_limits table, so processes sharing a database share limits.
type RateLimiter struct {
	db     *DB
	limit  int
	window time.Duration
	now    func() time.Time
}

// RateLimiterOption configures a RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithClock sets the time source.
func WithClock(now func() time.Time) RateLimiterOption {
	return func(l *RateLimiter) {
		l.now = now
	}
}

// NewRateLimiter creates a RateLimiter. Non-positive limit or window fall
// back to bookshelf.DefaultRateLimit and bookshelf.DefaultRateWindow.
func NewRateLimiter(db *DB, limit int, window time.Duration, opts ...RateLimiterOption) *RateLimiter {
	if limit <= 0 {
		limit = bookshelf.DefaultRateLimit
	}
	if window <= 0 {
		window = bookshelf.DefaultRateWindow
	}
	l := &RateLimiter{db: db, limit: limit, window: window, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow admits or rejects one request in a single statement. A new or
// expired row restarts the window at count 1; a live row under the limit is
// incremented. Otherwise the update is skipped, no row is returned and the
// request is rejected.
func (l *RateLimiter) Allow(ctx context.Context, key string) error {
	now := l.now().UnixMilli()
	reset := now + l.window.Milliseconds()

	var count int
	err := l.db.QueryRowContext(ctx, `
		INSERT INTO rate_limits (client_key, hits, reset_at) VALUES (?1, 1, ?3)
		ON CONFLICT (client_key) DO UPDATE SET
			hits = CASE WHEN reset_at <= ?2 THEN 1 ELSE hits + 1 END,
			reset_at = CASE WHEN reset_at <= ?2 THEN ?3 ELSE reset_at END
		WHERE reset_at <= ?2 OR hits < ?4
		RETURNING hits
	`, key, now, reset, l.limit).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return bookshelf.Errorf(bookshelf.ERATELIMIT, "Rate limit exceeded.")
	}
	return err
}

// Entry returns the stored state for key.
func (l *RateLimiter) Entry(ctx context.Context, key string) (bookshelf.RateLimitEntry, bool, error) {
	var count int
	var resetAt int64
	err := l.db.QueryRowContext(ctx, `
		SELECT hits, reset_at FROM rate_limits WHERE client_key = ?
	`, key).Scan(&count, &resetAt)
	if errors.Is(err, sql.ErrNoRows) {
		return bookshelf.RateLimitEntry{}, false, nil
	} else if err != nil {
		return bookshelf.RateLimitEntry{}, false, err
	}
	return bookshelf.RateLimitEntry{Count: count, WindowReset: unixMilli(resetAt)}, true, nil
}
