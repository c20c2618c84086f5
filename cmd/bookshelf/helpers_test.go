package main_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/blaize/bookshelf"
	main "github.com/blaize/bookshelf/cmd/bookshelf"
	"github.com/blaize/bookshelf/mock"
)

// notes is the os-notes repository used across command tests.
var notes = map[string][]string{
	"Notes/os-notes":            {"Overview.md", "os-notes.md", "Scheduling/", "Empty/"},
	"Notes/os-notes/Scheduling": {"Scheduling.md", "RoundRobin.md", "image.png"},
	"Notes/os-notes/Empty":      {},
}

// remote serves listings from tree. Every file's content is "# <name>\n".
func remote(tree map[string][]string) *mock.ContentService {
	return &mock.ContentService{
		ListDirectoryFn: func(_ context.Context, dir string) ([]*bookshelf.RemoteEntry, error) {
			names, ok := tree[dir]
			if !ok {
				return nil, bookshelf.Errorf(bookshelf.EUNAVAILABLE, "github API error for %s: 404 Not Found", dir)
			}
			var entries []*bookshelf.RemoteEntry
			for _, name := range names {
				entry := &bookshelf.RemoteEntry{Name: name, Type: bookshelf.EntryFile}
				if strings.HasSuffix(name, "/") {
					entry.Name, entry.Type = strings.TrimSuffix(name, "/"), bookshelf.EntryDir
				}
				entry.Path = path.Join(dir, entry.Name)
				entries = append(entries, entry)
			}
			return entries, nil
		},
		FetchRawFileFn: func(_ context.Context, p string) (string, error) {
			dir, file := path.Split(p)
			for _, name := range tree[strings.TrimSuffix(dir, "/")] {
				if name == file {
					return "# " + bookshelf.ChapterTitle(file) + "\n", nil
				}
			}
			return "", bookshelf.Errorf(bookshelf.EUNAVAILABLE, "github API error for %s: 404 Not Found", p)
		},
	}
}

// newDeps returns dependencies writing to fresh buffers.
func newDeps() (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: stderr,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, stdout, stderr
}

// storeOf returns a store holding shelf. A nil shelf behaves as never built.
func storeOf(shelf *bookshelf.Bookshelf) *mock.BookshelfStore {
	return &mock.BookshelfStore{
		LoadBookshelfFn: func(context.Context) (*bookshelf.Bookshelf, error) {
			if shelf == nil {
				return nil, bookshelf.Errorf(bookshelf.ENOTFOUND, "no bookshelf")
			}
			return shelf, nil
		},
		SaveBookshelfFn: func(_ context.Context, s *bookshelf.Bookshelf) error {
			shelf = s
			return nil
		},
	}
}
