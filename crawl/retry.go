package crawl

import (
	"context"
	"time"

	"github.com/blaize/bookshelf"
)

// Ensure RetryContentService implements bookshelf.ContentService.
var _ bookshelf.ContentService = (*RetryContentService)(nil)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// RetryContentService retries calls that fail with EUNAVAILABLE, waiting
// Delays[i] before retry i+1. Other failures are returned at once. After the
// last retry the final error is returned unchanged.
type RetryContentService struct {
	Content bookshelf.ContentService
	Delays  []time.Duration

	// Log is called before each retry. Optional.
	Log LogFunc
}

func (s *RetryContentService) ListDirectory(ctx context.Context, path string) ([]*bookshelf.RemoteEntry, error) {
	return retry(ctx, s, path, func() ([]*bookshelf.RemoteEntry, error) {
		return s.Content.ListDirectory(ctx, path)
	})
}

func (s *RetryContentService) FetchFile(ctx context.Context, path string) (*bookshelf.RemoteFile, error) {
	return retry(ctx, s, path, func() (*bookshelf.RemoteFile, error) {
		return s.Content.FetchFile(ctx, path)
	})
}

func (s *RetryContentService) FetchRawFile(ctx context.Context, path string) (string, error) {
	return retry(ctx, s, path, func() (string, error) {
		return s.Content.FetchRawFile(ctx, path)
	})
}

func retry[T any](ctx context.Context, s *RetryContentService, path string, call func() (T, error)) (T, error) {
	for attempt := 0; ; attempt++ {
		v, err := call()
		if err == nil || attempt >= len(s.Delays) || bookshelf.ErrorCode(err) != bookshelf.EUNAVAILABLE {
			return v, err
		}

		if s.Log != nil {
			s.Log("  retry %s (attempt %d): %s", path, attempt+2, bookshelf.ErrorMessage(err))
		}

		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-time.After(s.Delays[attempt]):
		}
	}
}
