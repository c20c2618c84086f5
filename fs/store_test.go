package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blaize/bookshelf"
	"github.com/blaize/bookshelf/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleShelf(id string) *bookshelf.Bookshelf {
	return &bookshelf.Bookshelf{
		ID: id,
		Books: []*bookshelf.BookNotes{{
			Collection: bookshelf.Collection{ID: "os-notes", Title: "Operating Systems", RootPath: "Notes/os-notes"},
			Chapters:   []*bookshelf.Chapter{bookshelf.NewChapter("Overview.md")},
			Subfolders: []*bookshelf.NotesFolder{{
				Title:      "Scheduling",
				RemotePath: "Notes/os-notes/Scheduling",
				Chapters:   []*bookshelf.Chapter{bookshelf.NewChapter("RoundRobin.md")},
			}},
		}},
		ChapterIndex: bookshelf.ChapterIndex{
			"os-notes": {
				"overview":   {Title: "Overview", File: "Overview.md", BookPath: "Notes/os-notes", Kind: bookshelf.LocationRootFile},
				"roundrobin": {Title: "RoundRobin", File: "Scheduling/", BookPath: "Notes/os-notes", Kind: bookshelf.LocationFolderPrefix},
			},
		},
		LastUpdated: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestBookshelfStore_SaveThenLoad(t *testing.T) {
	t.Parallel()

	// Given a store in a directory that does not exist yet
	path := filepath.Join(t.TempDir(), "data", "bookshelf.json")
	store := fs.NewBookshelfStore(path)

	// When I save and load a bookshelf
	require.NoError(t, store.SaveBookshelf(context.Background(), sampleShelf("b1")))
	got, err := store.LoadBookshelf(context.Background())

	// Then the loaded artifact matches
	require.NoError(t, err)
	assert.Equal(t, sampleShelf("b1"), got)
}

func TestBookshelfStore_SaveReplacesPrevious(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := fs.NewBookshelfStore(filepath.Join(dir, "bookshelf.json"))

	require.NoError(t, store.SaveBookshelf(context.Background(), sampleShelf("b1")))
	require.NoError(t, store.SaveBookshelf(context.Background(), sampleShelf("b2")))

	got, err := store.LoadBookshelf(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "b2", got.ID)

	// And no temporary files are left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "bookshelf.json", entries[0].Name())
}

func TestBookshelfStore_WritesDocumentedShape(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bookshelf.json")
	store := fs.NewBookshelfStore(path)
	require.NoError(t, store.SaveBookshelf(context.Background(), sampleShelf("b1")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"chapterIndex"`)
	assert.Contains(t, string(data), `"lastUpdated": "2024-03-01T12:00:00Z"`)
	assert.Contains(t, string(data), `"githubPath": "Notes/os-notes"`)
	assert.Contains(t, string(data), `"bookPath": "Notes/os-notes"`)
}

func TestBookshelfStore_LoadMissing(t *testing.T) {
	t.Parallel()

	store := fs.NewBookshelfStore(filepath.Join(t.TempDir(), "missing.json"))

	_, err := store.LoadBookshelf(context.Background())

	assert.Equal(t, bookshelf.ENOTFOUND, bookshelf.ErrorCode(err))
}

func TestBookshelfStore_LoadCorrupt(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bookshelf.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := fs.NewBookshelfStore(path).LoadBookshelf(context.Background())

	assert.Equal(t, bookshelf.EINVALID, bookshelf.ErrorCode(err))
}

func TestBookshelfStore_LoadLegacyEntries(t *testing.T) {
	t.Parallel()

	// Artifacts written before entries carried a kind tag still resolve.
	path := filepath.Join(t.TempDir(), "bookshelf.json")
	legacy := `{
  "id": "",
  "books": [],
  "chapterIndex": {
    "os-notes": {
      "overview": {"title": "Overview", "file": "Overview.md", "bookPath": "Notes/os-notes"},
      "roundrobin": {"title": "RoundRobin", "file": "Scheduling/", "bookPath": "Notes/os-notes"}
    }
  },
  "lastUpdated": "2024-03-01T12:00:00Z"
}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0644))

	got, err := fs.NewBookshelfStore(path).LoadBookshelf(context.Background())
	require.NoError(t, err)

	overview, ok := got.ChapterIndex.Lookup("os-notes", "overview")
	require.True(t, ok)
	assert.Equal(t, "Notes/os-notes/Overview.md", overview.RemotePath())

	rr, ok := got.ChapterIndex.Lookup("os-notes", "roundrobin")
	require.True(t, ok)
	assert.Equal(t, "Notes/os-notes/Scheduling/RoundRobin.md", rr.RemotePath())
}
