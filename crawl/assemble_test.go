package crawl_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/blaize/bookshelf"
	"github.com/blaize/bookshelf/crawl"
	"github.com/blaize/bookshelf/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var buildTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newAssembler(r repo, collections ...*bookshelf.Collection) *crawl.Assembler {
	return &crawl.Assembler{
		Crawler:     &crawl.Crawler{Content: r.content()},
		Collections: collections,
		Now:         func() time.Time { return buildTime },
		NewID:       func() string { return "build-1" },
	}
}

func TestAssembler_Assemble(t *testing.T) {
	t.Parallel()

	t.Run("indexes root chapters and pruned subfolders", func(t *testing.T) {
		t.Parallel()

		r := repo{
			"Notes/os-notes":            {"Overview.md", "Scheduling/"},
			"Notes/os-notes/Scheduling": {"Scheduling.md", "RoundRobin.md"},
		}
		osNotes := &bookshelf.Collection{ID: "os-notes", Title: "Operating Systems", RootPath: "Notes/os-notes"}

		shelf, err := newAssembler(r, osNotes).Assemble(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, "build-1", shelf.ID)
		assert.Equal(t, buildTime, shelf.LastUpdated)
		assert.Equal(t, map[string]*bookshelf.ChapterEntry{
			"overview":   {Title: "Overview", File: "Overview.md", BookPath: "Notes/os-notes", Kind: bookshelf.LocationRootFile},
			"roundrobin": {Title: "RoundRobin", File: "Scheduling/", BookPath: "Notes/os-notes", Kind: bookshelf.LocationFolderPrefix},
		}, shelf.ChapterIndex["os-notes"])

		entry, ok := shelf.ChapterIndex.Lookup("os-notes", "roundrobin")
		require.True(t, ok)
		assert.Equal(t, "Notes/os-notes/Scheduling/RoundRobin.md", entry.RemotePath())

		require.Len(t, shelf.Books, 1)
		book := shelf.Books[0]
		assert.Equal(t, *osNotes, book.Collection)
		assert.Equal(t, []string{"overview"}, chapterIDs(book.Chapters))
		require.Len(t, book.Subfolders, 1)
		assert.Equal(t, []string{"roundrobin"}, chapterIDs(book.Subfolders[0].Chapters))
	})

	t.Run("prunes root notes named after the folder or the book", func(t *testing.T) {
		t.Parallel()

		r := repo{"Notes/OSTEP": {"OSTEP.md", "Operating Systems.md", "Intro.md", "Empty/"}, "Notes/OSTEP/Empty": {}}
		c := &bookshelf.Collection{ID: "ostep", Title: "Operating Systems", RootPath: "Notes/OSTEP"}

		shelf, err := newAssembler(r, c).Assemble(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"intro"}, chapterIDs(shelf.Books[0].Chapters))
		assert.NotNil(t, shelf.Books[0].Subfolders)
		assert.Empty(t, shelf.Books[0].Subfolders)
		assert.Len(t, shelf.ChapterIndex["ostep"], 1)
	})

	t.Run("cleans an untidy root path before indexing", func(t *testing.T) {
		t.Parallel()

		r := repo{
			"Notes/os-notes":            {"Overview.md", "Scheduling/"},
			"Notes/os-notes/Scheduling": {"RoundRobin.md"},
		}
		c := &bookshelf.Collection{ID: "os-notes", Title: "Operating Systems", RootPath: "./Notes//os-notes/"}

		shelf, err := newAssembler(r, c).Assemble(context.Background(), nil)

		require.NoError(t, err)
		entry, ok := shelf.ChapterIndex.Lookup("os-notes", "roundrobin")
		require.True(t, ok)
		assert.Equal(t, "Scheduling/", entry.File)
		assert.Equal(t, "Notes/os-notes", entry.BookPath)
		assert.Equal(t, "Notes/os-notes/Scheduling/RoundRobin.md", entry.RemotePath())
		assert.Equal(t, "Notes/os-notes", shelf.Books[0].RootPath)
	})

	t.Run("skips a failing collection and keeps the rest", func(t *testing.T) {
		t.Parallel()

		r := repo{
			"Notes/A": {"One.md", "Broken/"},
			"Notes/C": {"Three.md"},
		}
		a := &bookshelf.Collection{ID: "a", Title: "A", RootPath: "Notes/A"}
		b := &bookshelf.Collection{ID: "b", Title: "B", RootPath: "Notes/B"}
		c := &bookshelf.Collection{ID: "c", Title: "C", RootPath: "Notes/C"}

		var events []crawl.ProgressEvent
		shelf, err := newAssembler(r, a, b, c).Assemble(context.Background(), func(e crawl.ProgressEvent) {
			events = append(events, e)
		})

		require.NoError(t, err)
		require.Len(t, shelf.Books, 1)
		assert.Equal(t, "c", shelf.Books[0].ID)
		assert.NotContains(t, shelf.ChapterIndex, "a")
		assert.NotContains(t, shelf.ChapterIndex, "b")
		assert.Contains(t, shelf.ChapterIndex, "c")

		require.Len(t, events, 5)
		assert.Equal(t, crawl.ProgressStarted, events[0].Type)
		assert.Equal(t, 3, events[0].Total)
		assert.Equal(t, crawl.ProgressFailed, events[1].Type)
		assert.Equal(t, "a", events[1].Collection)
		assert.Equal(t, bookshelf.EUNAVAILABLE, bookshelf.ErrorCode(events[1].Error))
		assert.Equal(t, crawl.ProgressFailed, events[2].Type)
		assert.Equal(t, "b", events[2].Collection)
		assert.Equal(t, crawl.ProgressCompleted, events[3].Type)
		assert.Equal(t, "c", events[3].Collection)
		assert.Equal(t, 1, events[3].Chapters)
		assert.Equal(t, crawl.ProgressFinished, events[4].Type)
	})

	t.Run("keeps configuration order", func(t *testing.T) {
		t.Parallel()

		r := repo{"Z": {"z.md"}, "A": {"a.md"}, "M": {"m.md"}}
		shelf, err := newAssembler(r,
			&bookshelf.Collection{ID: "z", Title: "Z", RootPath: "Z"},
			&bookshelf.Collection{ID: "a", Title: "A", RootPath: "A"},
			&bookshelf.Collection{ID: "m", Title: "M", RootPath: "M"},
		).Assemble(context.Background(), nil)

		require.NoError(t, err)
		require.Len(t, shelf.Books, 3)
		assert.Equal(t, "z", shelf.Books[0].ID)
		assert.Equal(t, "a", shelf.Books[1].ID)
		assert.Equal(t, "m", shelf.Books[2].ID)
	})

	t.Run("reports invalid and duplicate collections as failures", func(t *testing.T) {
		t.Parallel()

		r := repo{"A": {"a.md"}}
		var failed []error
		shelf, err := newAssembler(r,
			&bookshelf.Collection{ID: "a", Title: "A", RootPath: "A"},
			&bookshelf.Collection{ID: "a", Title: "Again", RootPath: "A"},
			&bookshelf.Collection{ID: "Bad ID", Title: "Bad", RootPath: "A"},
		).Assemble(context.Background(), func(e crawl.ProgressEvent) {
			if e.Type == crawl.ProgressFailed {
				failed = append(failed, e.Error)
			}
		})

		require.NoError(t, err)
		assert.Len(t, shelf.Books, 1)
		require.Len(t, failed, 2)
		assert.Equal(t, bookshelf.EINVALID, bookshelf.ErrorCode(failed[0]))
		assert.Equal(t, bookshelf.EINVALID, bookshelf.ErrorCode(failed[1]))
	})

	t.Run("returns an empty shelf when every collection fails", func(t *testing.T) {
		t.Parallel()

		shelf, err := newAssembler(repo{}, &bookshelf.Collection{ID: "a", Title: "A", RootPath: "A"}).Assemble(context.Background(), nil)

		require.NoError(t, err)
		assert.NotNil(t, shelf.Books)
		assert.Empty(t, shelf.Books)
		assert.Empty(t, shelf.ChapterIndex)
	})

	t.Run("persists the shelf to the store", func(t *testing.T) {
		t.Parallel()

		var saved *bookshelf.Bookshelf
		a := newAssembler(repo{"A": {"a.md"}}, &bookshelf.Collection{ID: "a", Title: "A", RootPath: "A"})
		a.Store = &mock.BookshelfStore{
			SaveBookshelfFn: func(_ context.Context, shelf *bookshelf.Bookshelf) error {
				saved = shelf
				return nil
			},
		}

		shelf, err := a.Assemble(context.Background(), nil)

		require.NoError(t, err)
		assert.Same(t, shelf, saved)
	})

	t.Run("returns store errors", func(t *testing.T) {
		t.Parallel()

		storeErr := errors.New("disk full")
		a := newAssembler(repo{"A": {"a.md"}}, &bookshelf.Collection{ID: "a", Title: "A", RootPath: "A"})
		a.Store = &mock.BookshelfStore{
			SaveBookshelfFn: func(context.Context, *bookshelf.Bookshelf) error { return storeErr },
		}

		shelf, err := a.Assemble(context.Background(), nil)

		require.ErrorIs(t, err, storeErr)
		assert.Nil(t, shelf)
	})

	t.Run("aborts without saving when the context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		content := &mock.ContentService{
			ListDirectoryFn: func(ctx context.Context, _ string) ([]*bookshelf.RemoteEntry, error) {
				cancel()
				return nil, ctx.Err()
			},
		}
		a := &crawl.Assembler{
			Crawler: &crawl.Crawler{Content: content},
			Collections: []*bookshelf.Collection{
				{ID: "a", Title: "A", RootPath: "A"},
				{ID: "b", Title: "B", RootPath: "B"},
			},
			Store: &mock.BookshelfStore{
				SaveBookshelfFn: func(context.Context, *bookshelf.Bookshelf) error {
					t.Fatal("store must not be called")
					return nil
				},
			},
		}

		shelf, err := a.Assemble(ctx, nil)

		require.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, shelf)
	})
}

func TestAssembler_Build(t *testing.T) {
	t.Parallel()

	var finished bool
	a := newAssembler(repo{"A": {"a.md"}}, &bookshelf.Collection{ID: "a", Title: "A", RootPath: "A"})
	a.Progress = func(e crawl.ProgressEvent) {
		if e.Type == crawl.ProgressFinished {
			finished = true
		}
	}

	var _ bookshelf.Builder = a
	shelf, err := a.Build(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, shelf.ChapterCount())
	assert.True(t, finished)
}

func TestAssembler_GeneratesIDAndTimestamp(t *testing.T) {
	t.Parallel()

	a := &crawl.Assembler{Crawler: &crawl.Crawler{Content: repo{}.content()}}

	before := time.Now().UTC()
	shelf, err := a.Assemble(context.Background(), nil)

	require.NoError(t, err)
	assert.Len(t, shelf.ID, 36)
	assert.False(t, shelf.LastUpdated.Before(before.Add(-time.Second)))
	assert.Equal(t, time.UTC, shelf.LastUpdated.Location())
}
