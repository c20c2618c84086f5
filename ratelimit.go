package bookshelf

import (
	"context"
	"time"
)

// Rate limiter defaults.
const (
	DefaultRateLimit  = 20
	DefaultRateWindow = 60 * time.Second
)

// UnknownClientKey is the shared bucket for requests that carry no client
// address.
const UnknownClientKey = "unknown"

// RateLimitEntry is the fixed-window state of one client key.
type RateLimitEntry struct {
	Count       int       `json:"count"`
	WindowReset time.Time `json:"windowReset"`
}

// RateLimiter admits or rejects requests per client key.
//
// Implementations count admissions in fixed windows: the first admission
// opens a window, up to the limit are admitted within it, and the first
// check at or after the window's reset time opens a new one. Bursts around
// a boundary can therefore admit up to twice the limit in a short span.
type RateLimiter interface {
	// Allow records an admission for key.
	// Returns ERATELIMIT if the key's window is exhausted.
	Allow(ctx context.Context, key string) error
}
