// Package crawl builds the bookshelf artifact. It walks each collection's
// folder tree through a bookshelf.ContentService, flattens the tree into a
// chapter index and hands the result to a bookshelf.BookshelfStore.
//
// Crawls are strictly sequential: every listing is awaited before the next
// one is issued, so chapter ID collisions resolve the same way on every run.
package crawl

import (
	"context"
	"path"

	"github.com/blaize/bookshelf"
)

// Crawler walks remote folder trees.
type Crawler struct {
	Content bookshelf.ContentService
}

// CrawlFolder populates folder in place from the listing at folder.RemotePath.
//
// Document files become chapters, except the folder's own note
// (<Title>.md). Directories are crawled recursively and attached only if
// they turn out non-empty. Other entries are skipped. Listing order is kept.
//
// Any listing error aborts the walk and is returned unchanged.
func (c *Crawler) CrawlFolder(ctx context.Context, folder *bookshelf.NotesFolder) error {
	entries, err := c.Content.ListDirectory(ctx, folder.RemotePath)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		switch {
		case entry.IsDir():
			sub := &bookshelf.NotesFolder{
				Title:      entry.Name,
				RemotePath: path.Join(folder.RemotePath, entry.Name),
			}
			if err := c.CrawlFolder(ctx, sub); err != nil {
				return err
			}
			if !sub.IsEmpty() {
				folder.Subfolders = append(folder.Subfolders, sub)
			}

		case entry.Type == bookshelf.EntryFile && bookshelf.IsDocument(entry.Name):
			if folder.IsFolderNote(entry.Name) {
				continue
			}
			folder.Chapters = append(folder.Chapters, bookshelf.NewChapter(entry.Name))
		}
	}

	return nil
}
