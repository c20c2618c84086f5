// Package resolve serves chapters at request time from a published
// bookshelf and a bookshelf.ContentService.
package resolve

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/blaize/bookshelf"
	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"
)

var (
	_ bookshelf.ChapterService = (*Resolver)(nil)
	_ bookshelf.Catalog        = (*Resolver)(nil)
)

// Resolver looks chapters up in the chapter index of the currently published
// bookshelf and fetches their raw content.
//
// Concurrent requests for the same remote file share one upstream call.
// Nothing is cached between calls.
type Resolver struct {
	Content bookshelf.ContentService

	shelf atomic.Pointer[bookshelf.Bookshelf]
	group singleflight.Group
}

// NewResolver creates a Resolver serving shelf.
func NewResolver(content bookshelf.ContentService, shelf *bookshelf.Bookshelf) *Resolver {
	r := &Resolver{Content: content}
	r.Publish(shelf)
	return r
}

// Publish replaces the bookshelf used for lookups.
func (r *Resolver) Publish(shelf *bookshelf.Bookshelf) {
	r.shelf.Store(shelf)
}

// CurrentBookshelf returns the published bookshelf, or nil.
func (r *Resolver) CurrentBookshelf() *bookshelf.Bookshelf {
	return r.shelf.Load()
}

// FindChapter resolves a chapter and fetches its content.
func (r *Resolver) FindChapter(ctx context.Context, bookID, chapterID string) (*bookshelf.ChapterContent, error) {
	shelf := r.shelf.Load()
	if shelf == nil {
		return nil, bookshelf.Errorf(bookshelf.ENOTFOUND, "Chapter %s for book %s not found", chapterID, bookID)
	}

	entry, ok := shelf.ChapterIndex.Lookup(bookID, chapterID)
	if !ok {
		return nil, bookshelf.Errorf(bookshelf.ENOTFOUND, "Chapter %s for book %s not found", chapterID, bookID)
	}

	remotePath := entry.RemotePath()
	v, err, _ := r.group.Do(remotePath, func() (any, error) {
		return r.Content.FetchRawFile(ctx, remotePath)
	})
	if err != nil {
		return nil, bookshelf.Errorf(bookshelf.EUNAVAILABLE, "fetch %s: %w", remotePath, err)
	}
	content := v.(string)

	return &bookshelf.ChapterContent{
		BookID:    bookID,
		ChapterID: chapterID,
		Title:     entry.Title,
		Path:      remotePath,
		Content:   content,
		Hash:      ComputeHash(content),
		Sections:  bookshelf.ExtractSections(content),
	}, nil
}

// ComputeHash computes a hash of the content using xxhash.
func ComputeHash(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}
