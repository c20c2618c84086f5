package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/blaize/bookshelf"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var (
	_ bookshelf.BookshelfStore = (*BookshelfStore)(nil)
	_ bookshelf.BuildHistory   = (*BookshelfStore)(nil)
)

// BookshelfStore records every saved bookshelf as a build. The newest build
// is the current artifact.
type BookshelfStore struct {
	db *DB
}

// NewBookshelfStore creates a new BookshelfStore.
func NewBookshelfStore(db *DB) *BookshelfStore {
	return &BookshelfStore{db: db}
}

// SaveBookshelf appends shelf to the build history. A missing ID is assigned.
func (s *BookshelfStore) SaveBookshelf(ctx context.Context, shelf *bookshelf.Bookshelf) error {
	if shelf.ID == "" {
		shelf.ID = uuid.New().String()
	}
	if shelf.LastUpdated.IsZero() {
		shelf.LastUpdated = time.Now().UTC()
	}

	payload, err := json.Marshal(shelf)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO bookshelves (id, generated_at, books, chapters, payload)
		VALUES (?, ?, ?, ?, ?)
	`, shelf.ID, shelf.LastUpdated.UTC().Format(time.RFC3339Nano),
		len(shelf.Books), shelf.ChapterCount(), string(payload))

	return err
}

// LoadBookshelf returns the most recently saved bookshelf.
func (s *BookshelfStore) LoadBookshelf(ctx context.Context) (*bookshelf.Bookshelf, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM bookshelves ORDER BY seq DESC LIMIT 1
	`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, bookshelf.Errorf(bookshelf.ENOTFOUND, "no builds recorded")
	} else if err != nil {
		return nil, err
	}

	var shelf bookshelf.Bookshelf
	if err := json.Unmarshal([]byte(payload), &shelf); err != nil {
		return nil, bookshelf.Errorf(bookshelf.EINVALID, "decode bookshelf: %w", err)
	}
	return &shelf, nil
}

// FindBuilds lists build summaries, newest first.
func (s *BookshelfStore) FindBuilds(ctx context.Context, filter bookshelf.BuildFilter) ([]*bookshelf.BuildSummary, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, generated_at, books, chapters FROM bookshelves ORDER BY seq DESC`)
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	builds := []*bookshelf.BuildSummary{}
	for rows.Next() {
		var b bookshelf.BuildSummary
		var generatedAt string
		if err := rows.Scan(&b.ID, &generatedAt, &b.Books, &b.Chapters); err != nil {
			return nil, err
		}
		if b.GeneratedAt, err = parseRFC3339(generatedAt, "generated_at"); err != nil {
			return nil, err
		}
		builds = append(builds, &b)
	}
	return builds, rows.Err()
}
