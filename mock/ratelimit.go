package mock

import (
	"context"

	"github.com/blaize/bookshelf"
)

var _ bookshelf.RateLimiter = (*RateLimiter)(nil)

// RateLimiter is a mock implementation of bookshelf.RateLimiter.
type RateLimiter struct {
	AllowFn func(ctx context.Context, key string) error
}

func (l *RateLimiter) Allow(ctx context.Context, key string) error {
	return l.AllowFn(ctx, key)
}
