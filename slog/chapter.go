package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/blaize/bookshelf"
)

// Ensure LoggingChapterService implements bookshelf.ChapterService.
var _ bookshelf.ChapterService = (*LoggingChapterService)(nil)

// LoggingChapterService wraps a ChapterService with request logging.
// Lookups of unindexed chapters are logged at info level, every other
// failure at error level.
type LoggingChapterService struct {
	next   bookshelf.ChapterService
	logger *slog.Logger
}

// NewLoggingChapterService creates a new LoggingChapterService.
func NewLoggingChapterService(next bookshelf.ChapterService, logger *slog.Logger) *LoggingChapterService {
	return &LoggingChapterService{next: next, logger: logger}
}

// FindChapter delegates to the wrapped service and logs the lookup.
func (s *LoggingChapterService) FindChapter(ctx context.Context, bookID, chapterID string) (chapter *bookshelf.ChapterContent, err error) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		if err != nil && bookshelf.ErrorCode(err) != bookshelf.ENOTFOUND {
			level = slog.LevelError
		}
		attrs := []any{
			"book", bookID,
			"chapter", chapterID,
			"duration", time.Since(begin),
		}
		if chapter != nil {
			attrs = append(attrs, "path", chapter.Path, "bytes", len(chapter.Content))
		}
		if err != nil {
			attrs = append(attrs, "code", bookshelf.ErrorCode(err), "err", err)
		}
		s.logger.Log(ctx, level, "find chapter", attrs...)
	}(time.Now())
	return s.next.FindChapter(ctx, bookID, chapterID)
}
