// Package slog wraps bookshelf services with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/blaize/bookshelf"
)

// Ensure LoggingContentService implements bookshelf.ContentService.
var _ bookshelf.ContentService = (*LoggingContentService)(nil)

// LoggingContentService wraps a ContentService with debug logging.
type LoggingContentService struct {
	next   bookshelf.ContentService
	logger *slog.Logger
}

// NewLoggingContentService creates a new LoggingContentService.
func NewLoggingContentService(next bookshelf.ContentService, logger *slog.Logger) *LoggingContentService {
	return &LoggingContentService{next: next, logger: logger}
}

// ListDirectory delegates to the wrapped service and logs the operation.
func (s *LoggingContentService) ListDirectory(ctx context.Context, path string) (entries []*bookshelf.RemoteEntry, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("list directory",
			"path", path,
			"count", len(entries),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ListDirectory(ctx, path)
}

// FetchFile delegates to the wrapped service and logs the operation.
func (s *LoggingContentService) FetchFile(ctx context.Context, path string) (file *bookshelf.RemoteFile, err error) {
	defer func(begin time.Time) {
		size := 0
		if file != nil {
			size = len(file.Content)
		}
		s.logger.Debug("fetch file",
			"path", path,
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FetchFile(ctx, path)
}

// FetchRawFile delegates to the wrapped service and logs the operation.
func (s *LoggingContentService) FetchRawFile(ctx context.Context, path string) (content string, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("fetch raw file",
			"path", path,
			"bytes", len(content),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FetchRawFile(ctx, path)
}
