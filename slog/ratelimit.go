package slog

import (
	"context"
	"log/slog"

	"github.com/blaize/bookshelf"
)

// Ensure LoggingRateLimiter implements bookshelf.RateLimiter.
var _ bookshelf.RateLimiter = (*LoggingRateLimiter)(nil)

// LoggingRateLimiter wraps a RateLimiter and logs rejections.
type LoggingRateLimiter struct {
	next   bookshelf.RateLimiter
	logger *slog.Logger
}

// NewLoggingRateLimiter creates a new LoggingRateLimiter.
func NewLoggingRateLimiter(next bookshelf.RateLimiter, logger *slog.Logger) *LoggingRateLimiter {
	return &LoggingRateLimiter{next: next, logger: logger}
}

// Allow delegates to the wrapped limiter. Admissions are not logged.
func (l *LoggingRateLimiter) Allow(ctx context.Context, key string) error {
	err := l.next.Allow(ctx, key)
	switch {
	case err == nil:
	case bookshelf.ErrorCode(err) == bookshelf.ERATELIMIT:
		l.logger.Info("rate limited", "key", key)
	default:
		l.logger.Error("rate limiter", "key", key, "err", err)
	}
	return err
}
