package bookshelf

import (
	"context"
	"time"
)

// NotesFolder is a folder node built while crawling a collection.
type NotesFolder struct {
	Title      string         `json:"title"`
	RemotePath string         `json:"githubPath"`
	Chapters   []*Chapter     `json:"chapters"`
	Subfolders []*NotesFolder `json:"subfolders"`
}

// IsEmpty reports whether the folder holds no chapters and no subfolders.
// Empty subfolders are never attached, so this also covers folders whose
// descendants are all empty.
func (f *NotesFolder) IsEmpty() bool {
	return len(f.Chapters) == 0 && len(f.Subfolders) == 0
}

// IsFolderNote reports whether fileName is the folder's own note,
// e.g. Concurrency/Concurrency.md.
func (f *NotesFolder) IsFolderNote(fileName string) bool {
	return ChapterTitle(fileName) == f.Title
}

// BookNotes is the browsable structure for one collection.
type BookNotes struct {
	Collection
	Chapters   []*Chapter     `json:"chapters"`
	Subfolders []*NotesFolder `json:"subfolders"`
}

// ChapterIndex maps collection ID to chapter ID to index entry.
type ChapterIndex map[string]map[string]*ChapterEntry

// Lookup returns the entry for a chapter. The bool result is false if either
// the book or the chapter is missing.
func (idx ChapterIndex) Lookup(bookID, chapterID string) (*ChapterEntry, bool) {
	chapters, ok := idx[bookID]
	if !ok {
		return nil, false
	}
	entry, ok := chapters[chapterID]
	return entry, ok
}

// Bookshelf is the persisted build artifact.
type Bookshelf struct {
	ID           string       `json:"id"`
	Books        []*BookNotes `json:"books"`
	ChapterIndex ChapterIndex `json:"chapterIndex"`
	LastUpdated  time.Time    `json:"lastUpdated"`
}

// FindBook returns the book with the given ID, or nil.
func (s *Bookshelf) FindBook(id string) *BookNotes {
	for _, b := range s.Books {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// ChapterCount returns the number of indexed chapters across all books.
func (s *Bookshelf) ChapterCount() int {
	n := 0
	for _, chapters := range s.ChapterIndex {
		n += len(chapters)
	}
	return n
}

// Builder produces a fresh bookshelf.
type Builder interface {
	Build(ctx context.Context) (*Bookshelf, error)
}

// Catalog holds the bookshelf currently being served.
type Catalog interface {
	// CurrentBookshelf returns the published bookshelf, or nil if none.
	CurrentBookshelf() *Bookshelf

	// Publish replaces the served bookshelf.
	Publish(shelf *Bookshelf)
}
