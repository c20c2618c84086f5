package bookshelf

import (
	"context"
	"strings"
)

// Chapter is a single note document. Chapters are always leaves.
type Chapter struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	FileName string `json:"file"`
}

// NewChapter derives a chapter from a document file name.
func NewChapter(fileName string) *Chapter {
	title := ChapterTitle(fileName)
	return &Chapter{
		ID:       Slugify(title),
		Title:    title,
		FileName: fileName,
	}
}

// LocationKind tells how ChapterEntry.File is to be read.
type LocationKind string

// Chapter location kinds.
const (
	// LocationRootFile means File is the document's file name directly
	// under the collection root.
	LocationRootFile LocationKind = "root"

	// LocationFolderPrefix means File is the containing folder's path
	// relative to the collection root, ending in a slash. The file name
	// is the chapter title plus DocumentExt.
	LocationFolderPrefix LocationKind = "folder"
)

// ChapterEntry is the flattened index record for one chapter.
type ChapterEntry struct {
	Title    string       `json:"title"`
	File     string       `json:"file"`
	BookPath string       `json:"bookPath"`
	Kind     LocationKind `json:"kind,omitempty"`
}

// RemotePath reconstructs the repository path of the chapter document.
func (e *ChapterEntry) RemotePath() string {
	if e.location() == LocationRootFile {
		return joinRemotePath(e.BookPath, e.File)
	}
	return joinRemotePath(e.BookPath, e.File+e.Title+DocumentExt)
}

// location returns the tagged kind. Entries persisted before the tag existed
// are classified by the shape of File.
func (e *ChapterEntry) location() LocationKind {
	if e.Kind != "" {
		return e.Kind
	}
	if IsDocument(e.File) && ChapterTitle(e.File) == e.Title {
		return LocationRootFile
	}
	return LocationFolderPrefix
}

func joinRemotePath(base, rel string) string {
	base = strings.TrimSuffix(base, "/")
	rel = strings.TrimPrefix(rel, "/")
	if base == "" {
		return rel
	}
	return base + "/" + rel
}

// ChapterContent is a resolved chapter ready to serve.
type ChapterContent struct {
	BookID    string    `json:"book"`
	ChapterID string    `json:"chapter"`
	Title     string    `json:"title"`
	Path      string    `json:"path"`
	Content   string    `json:"content"`
	Hash      string    `json:"hash"`
	Sections  []Section `json:"sections,omitempty"`
}

// ChapterService resolves chapters at request time.
type ChapterService interface {
	// FindChapter looks up a chapter in the current index and fetches its
	// raw content. Returns ENOTFOUND if the book or chapter is not indexed
	// and EUNAVAILABLE if the content could not be fetched.
	FindChapter(ctx context.Context, bookID, chapterID string) (*ChapterContent, error)
}
