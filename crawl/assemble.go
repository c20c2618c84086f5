package crawl

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/blaize/bookshelf"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ bookshelf.Builder = (*Assembler)(nil)

// Assembler builds the bookshelf artifact from configured collections.
type Assembler struct {
	Crawler     *Crawler
	Collections []*bookshelf.Collection

	// Store receives the finished artifact. Optional.
	Store bookshelf.BookshelfStore

	// Progress receives events when assembling through Build. Optional.
	Progress ProgressFunc

	// Now and NewID default to time.Now and uuid.NewString.
	Now   func() time.Time
	NewID func() string
}

// ProgressEvent reports progress during assembly.
type ProgressEvent struct {
	Type       ProgressType
	Completed  int
	Total      int
	Collection string
	Chapters   int
	Error      error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting assembly progress.
type ProgressFunc func(event ProgressEvent)

// Build assembles the bookshelf, reporting to a.Progress.
func (a *Assembler) Build(ctx context.Context) (*bookshelf.Bookshelf, error) {
	return a.Assemble(ctx, a.Progress)
}

// Assemble crawls every collection in configuration order and persists the
// resulting bookshelf.
//
// A collection that fails to crawl is reported with ProgressFailed and left
// out; the remaining collections are still assembled. Context cancellation
// and store failures abort the whole run and nothing is persisted.
func (a *Assembler) Assemble(ctx context.Context, progress ProgressFunc) (*bookshelf.Bookshelf, error) {
	shelf := &bookshelf.Bookshelf{
		ID:           a.newID(),
		Books:        []*bookshelf.BookNotes{},
		ChapterIndex: bookshelf.ChapterIndex{},
	}

	total := len(a.Collections)
	notify(progress, ProgressEvent{Type: ProgressStarted, Total: total})

	for i, c := range a.Collections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		book, index, err := a.assembleCollection(ctx, c, shelf)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			notify(progress, ProgressEvent{
				Type:       ProgressFailed,
				Completed:  i + 1,
				Total:      total,
				Collection: c.ID,
				Error:      err,
			})
			continue
		}

		shelf.Books = append(shelf.Books, book)
		shelf.ChapterIndex[c.ID] = index

		notify(progress, ProgressEvent{
			Type:       ProgressCompleted,
			Completed:  i + 1,
			Total:      total,
			Collection: c.ID,
			Chapters:   len(index),
		})
	}

	shelf.LastUpdated = a.now().UTC()

	if a.Store != nil {
		if err := a.Store.SaveBookshelf(ctx, shelf); err != nil {
			return nil, fmt.Errorf("save bookshelf: %w", err)
		}
	}

	notify(progress, ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})

	return shelf, nil
}

// assembleCollection crawls one collection's root and flattens it.
func (a *Assembler) assembleCollection(ctx context.Context, c *bookshelf.Collection, shelf *bookshelf.Bookshelf) (*bookshelf.BookNotes, map[string]*bookshelf.ChapterEntry, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}
	if _, ok := shelf.ChapterIndex[c.ID]; ok {
		return nil, nil, bookshelf.Errorf(bookshelf.EINVALID, "duplicate collection id %q", c.ID)
	}

	// Child paths come back cleaned, so the root must match them.
	cleaned := *c
	cleaned.RootPath = c.CleanRootPath()
	c = &cleaned

	root := &bookshelf.NotesFolder{
		Title:      path.Base(c.RootPath),
		RemotePath: c.RootPath,
	}
	if err := a.Crawler.CrawlFolder(ctx, root); err != nil {
		return nil, nil, err
	}

	// The book's own note may be named after the book rather than the folder.
	chapters := make([]*bookshelf.Chapter, 0, len(root.Chapters))
	for _, ch := range root.Chapters {
		if ch.Title == c.Title {
			continue
		}
		chapters = append(chapters, ch)
	}

	book := &bookshelf.BookNotes{
		Collection: *c,
		Chapters:   chapters,
		Subfolders: root.Subfolders,
	}
	if book.Subfolders == nil {
		book.Subfolders = []*bookshelf.NotesFolder{}
	}

	return book, Flatten(c, chapters, root.Subfolders), nil
}

func (a *Assembler) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *Assembler) newID() string {
	if a.NewID != nil {
		return a.NewID()
	}
	return uuid.NewString()
}

func notify(progress ProgressFunc, event ProgressEvent) {
	if progress != nil {
		progress(event)
	}
}
