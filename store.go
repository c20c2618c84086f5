package bookshelf

import (
	"context"
	"time"
)

// BookshelfStore persists the build artifact.
type BookshelfStore interface {
	// SaveBookshelf replaces the stored artifact.
	SaveBookshelf(ctx context.Context, shelf *Bookshelf) error

	// LoadBookshelf returns the most recently saved artifact.
	// Returns ENOTFOUND if nothing has been saved.
	LoadBookshelf(ctx context.Context) (*Bookshelf, error)
}

// BuildSummary describes one recorded build.
type BuildSummary struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generatedAt"`
	Books       int       `json:"books"`
	Chapters    int       `json:"chapters"`
}

// BuildFilter represents a filter for FindBuilds.
type BuildFilter struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// BuildHistory lists recorded builds, newest first.
type BuildHistory interface {
	FindBuilds(ctx context.Context, filter BuildFilter) ([]*BuildSummary, error)
}
