package crawl_test

import (
	"context"
	"path"
	"strings"

	"github.com/blaize/bookshelf"
	"github.com/blaize/bookshelf/mock"
)

// repo is an in-memory repository listing keyed by directory path.
// Names ending in "/" are directories, names starting with "@" are symlinks.
type repo map[string][]string

func (r repo) content() *mock.ContentService {
	return &mock.ContentService{
		ListDirectoryFn: func(_ context.Context, dir string) ([]*bookshelf.RemoteEntry, error) {
			names, ok := r[dir]
			if !ok {
				return nil, bookshelf.Errorf(bookshelf.EUNAVAILABLE, "HTTP 404 for %s", dir)
			}
			entries := make([]*bookshelf.RemoteEntry, 0, len(names))
			for _, name := range names {
				entry := &bookshelf.RemoteEntry{Type: bookshelf.EntryFile, Name: name}
				switch {
				case strings.HasSuffix(name, "/"):
					entry.Type = bookshelf.EntryDir
					entry.Name = strings.TrimSuffix(name, "/")
				case strings.HasPrefix(name, "@"):
					entry.Type = bookshelf.EntrySymlink
					entry.Name = strings.TrimPrefix(name, "@")
				}
				entry.Path = path.Join(dir, entry.Name)
				entries = append(entries, entry)
			}
			return entries, nil
		},
	}
}
