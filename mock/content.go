package mock

import (
	"context"

	"github.com/blaize/bookshelf"
)

var _ bookshelf.ContentService = (*ContentService)(nil)

// ContentService is a mock implementation of bookshelf.ContentService.
type ContentService struct {
	ListDirectoryFn func(ctx context.Context, path string) ([]*bookshelf.RemoteEntry, error)
	FetchFileFn     func(ctx context.Context, path string) (*bookshelf.RemoteFile, error)
	FetchRawFileFn  func(ctx context.Context, path string) (string, error)
}

func (s *ContentService) ListDirectory(ctx context.Context, path string) ([]*bookshelf.RemoteEntry, error) {
	return s.ListDirectoryFn(ctx, path)
}

func (s *ContentService) FetchFile(ctx context.Context, path string) (*bookshelf.RemoteFile, error) {
	return s.FetchFileFn(ctx, path)
}

func (s *ContentService) FetchRawFile(ctx context.Context, path string) (string, error) {
	return s.FetchRawFileFn(ctx, path)
}
