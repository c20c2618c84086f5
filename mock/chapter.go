package mock

import (
	"context"

	"github.com/blaize/bookshelf"
)

var _ bookshelf.ChapterService = (*ChapterService)(nil)

// ChapterService is a mock implementation of bookshelf.ChapterService.
type ChapterService struct {
	FindChapterFn func(ctx context.Context, bookID, chapterID string) (*bookshelf.ChapterContent, error)
}

func (s *ChapterService) FindChapter(ctx context.Context, bookID, chapterID string) (*bookshelf.ChapterContent, error) {
	return s.FindChapterFn(ctx, bookID, chapterID)
}
