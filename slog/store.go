package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/blaize/bookshelf"
)

// Ensure LoggingBookshelfStore implements bookshelf.BookshelfStore.
var _ bookshelf.BookshelfStore = (*LoggingBookshelfStore)(nil)

// LoggingBookshelfStore wraps a BookshelfStore with logging.
type LoggingBookshelfStore struct {
	next   bookshelf.BookshelfStore
	logger *slog.Logger
}

// NewLoggingBookshelfStore creates a new LoggingBookshelfStore.
func NewLoggingBookshelfStore(next bookshelf.BookshelfStore, logger *slog.Logger) *LoggingBookshelfStore {
	return &LoggingBookshelfStore{next: next, logger: logger}
}

// SaveBookshelf delegates to the wrapped store and logs the operation.
func (s *LoggingBookshelfStore) SaveBookshelf(ctx context.Context, shelf *bookshelf.Bookshelf) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("save bookshelf",
			"id", shelf.ID,
			"books", len(shelf.Books),
			"chapters", shelf.ChapterCount(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SaveBookshelf(ctx, shelf)
}

// LoadBookshelf delegates to the wrapped store and logs the operation.
func (s *LoggingBookshelfStore) LoadBookshelf(ctx context.Context) (shelf *bookshelf.Bookshelf, err error) {
	defer func(begin time.Time) {
		id := ""
		if shelf != nil {
			id = shelf.ID
		}
		s.logger.Debug("load bookshelf",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.LoadBookshelf(ctx)
}
