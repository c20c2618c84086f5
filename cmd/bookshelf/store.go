package main

import (
	"context"

	"github.com/blaize/bookshelf"
)

// recordingStore writes the artifact and then records the build in history.
type recordingStore struct {
	artifacts bookshelf.BookshelfStore
	history   bookshelf.BookshelfStore
}

func (s *recordingStore) SaveBookshelf(ctx context.Context, shelf *bookshelf.Bookshelf) error {
	if err := s.artifacts.SaveBookshelf(ctx, shelf); err != nil {
		return err
	}
	if s.history == nil {
		return nil
	}
	return s.history.SaveBookshelf(ctx, shelf)
}

func (s *recordingStore) LoadBookshelf(ctx context.Context) (*bookshelf.Bookshelf, error) {
	return s.artifacts.LoadBookshelf(ctx)
}

// loadBookshelf returns the saved artifact, or nil if none was built yet.
func loadBookshelf(deps *Dependencies) (*bookshelf.Bookshelf, error) {
	shelf, err := deps.Artifacts.LoadBookshelf(deps.Ctx)
	if bookshelf.ErrorCode(err) == bookshelf.ENOTFOUND {
		return nil, nil
	}
	return shelf, err
}
