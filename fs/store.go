// Package fs provides file-based storage for the bookshelf artifact.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/blaize/bookshelf"
)

// Ensure BookshelfStore implements bookshelf.BookshelfStore at compile time.
var _ bookshelf.BookshelfStore = (*BookshelfStore)(nil)

// BookshelfStore keeps the artifact as a single JSON file. Saves go to a
// temporary file next to the target and are renamed into place, so readers
// see either the old artifact or the new one.
type BookshelfStore struct {
	path string
}

// NewBookshelfStore creates a store backed by the file at path.
func NewBookshelfStore(path string) *BookshelfStore {
	return &BookshelfStore{path: path}
}

// Path returns the artifact file path.
func (s *BookshelfStore) Path() string {
	return s.path
}

func (s *BookshelfStore) SaveBookshelf(ctx context.Context, shelf *bookshelf.Bookshelf) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(shelf, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.path)
}

func (s *BookshelfStore) LoadBookshelf(ctx context.Context) (*bookshelf.Bookshelf, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, bookshelf.Errorf(bookshelf.ENOTFOUND, "no bookshelf at %s", s.path)
	} else if err != nil {
		return nil, err
	}

	var shelf bookshelf.Bookshelf
	if err := json.Unmarshal(data, &shelf); err != nil {
		return nil, bookshelf.Errorf(bookshelf.EINVALID, "decode %s: %w", s.path, err)
	}
	return &shelf, nil
}
