package bookshelf

import "context"

// EntryType is the kind of a repository directory entry.
type EntryType string

// Entry types reported by the contents API.
const (
	EntryFile      EntryType = "file"
	EntryDir       EntryType = "dir"
	EntrySymlink   EntryType = "symlink"
	EntrySubmodule EntryType = "submodule"
)

// RemoteEntry is one item of a directory listing.
type RemoteEntry struct {
	Name string    `json:"name"`
	Path string    `json:"path"`
	Type EntryType `json:"type"`
}

// IsDir reports whether the entry is a directory.
func (e *RemoteEntry) IsDir() bool {
	return e.Type == EntryDir
}

// RemoteFile is the structured representation of a repository file.
type RemoteFile struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	SHA         string `json:"sha"`
	Size        int    `json:"size"`
	Content     string `json:"content"` // decoded
	HTMLURL     string `json:"htmlUrl"`
	DownloadURL string `json:"downloadUrl"`
}

// ContentService reads a remote repository.
// Paths are repository-relative and must pass ConfinePath.
type ContentService interface {
	// ListDirectory returns the entries at path in listing order.
	ListDirectory(ctx context.Context, path string) ([]*RemoteEntry, error)

	// FetchFile returns the structured representation of a file.
	FetchFile(ctx context.Context, path string) (*RemoteFile, error)

	// FetchRawFile returns the raw text of a file.
	FetchRawFile(ctx context.Context, path string) (string, error)
}
