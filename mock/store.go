package mock

import (
	"context"

	"github.com/blaize/bookshelf"
)

// Compile-time interface verification.
var (
	_ bookshelf.BookshelfStore = (*BookshelfStore)(nil)
	_ bookshelf.BuildHistory   = (*BuildHistory)(nil)
	_ bookshelf.Builder        = (*Builder)(nil)
)

// BookshelfStore is a mock implementation of bookshelf.BookshelfStore.
type BookshelfStore struct {
	SaveBookshelfFn func(ctx context.Context, shelf *bookshelf.Bookshelf) error
	LoadBookshelfFn func(ctx context.Context) (*bookshelf.Bookshelf, error)
}

func (s *BookshelfStore) SaveBookshelf(ctx context.Context, shelf *bookshelf.Bookshelf) error {
	return s.SaveBookshelfFn(ctx, shelf)
}

func (s *BookshelfStore) LoadBookshelf(ctx context.Context) (*bookshelf.Bookshelf, error) {
	return s.LoadBookshelfFn(ctx)
}

// BuildHistory is a mock implementation of bookshelf.BuildHistory.
type BuildHistory struct {
	FindBuildsFn func(ctx context.Context, filter bookshelf.BuildFilter) ([]*bookshelf.BuildSummary, error)
}

func (h *BuildHistory) FindBuilds(ctx context.Context, filter bookshelf.BuildFilter) ([]*bookshelf.BuildSummary, error) {
	return h.FindBuildsFn(ctx, filter)
}

// Builder is a mock implementation of bookshelf.Builder.
type Builder struct {
	BuildFn func(ctx context.Context) (*bookshelf.Bookshelf, error)
}

func (b *Builder) Build(ctx context.Context) (*bookshelf.Bookshelf, error) {
	return b.BuildFn(ctx)
}
