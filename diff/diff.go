// Package diff compares chapter indexes of two bookshelf builds using
// github.com/pmezard/go-difflib/difflib.
package diff

import (
	"fmt"
	"slices"

	"github.com/blaize/bookshelf"
	difflib "github.com/pmezard/go-difflib/difflib"
)

// Context is the number of unchanged lines shown around each change.
const Context = 2

// Stats counts chapter-level changes between two builds.
type Stats struct {
	Added   int
	Removed int
	Moved   int
}

// Changed reports whether any chapter differs.
func (s Stats) Changed() bool {
	return s.Added+s.Removed+s.Moved > 0
}

// IndexLines renders a chapter index as sorted "book/chapter path" lines,
// one per chapter, each ending in a newline.
func IndexLines(shelf *bookshelf.Bookshelf) []string {
	if shelf == nil {
		return nil
	}
	var lines []string
	for bookID, chapters := range shelf.ChapterIndex {
		for chapterID, entry := range chapters {
			lines = append(lines, fmt.Sprintf("%s/%s %s\n", bookID, chapterID, entry.RemotePath()))
		}
	}
	slices.Sort(lines)
	return lines
}

// Unified produces a unified patch of the chapter indexes of old and new.
// A nil old bookshelf diffs against an empty index. Returns "" when the
// indexes are identical.
func Unified(old, new *bookshelf.Bookshelf) (string, error) {
	u := difflib.UnifiedDiff{
		A:        IndexLines(old),
		B:        IndexLines(new),
		FromFile: label("a", old),
		ToFile:   label("b", new),
		Context:  Context,
	}
	return difflib.GetUnifiedDiffString(u)
}

// Compare counts added, removed and moved chapters between old and new.
// A chapter is moved when its ID survives but its remote path changed.
func Compare(old, new *bookshelf.Bookshelf) Stats {
	before := paths(old)
	after := paths(new)

	var s Stats
	for key, p := range after {
		prev, ok := before[key]
		switch {
		case !ok:
			s.Added++
		case prev != p:
			s.Moved++
		}
	}
	for key := range before {
		if _, ok := after[key]; !ok {
			s.Removed++
		}
	}
	return s
}

func paths(shelf *bookshelf.Bookshelf) map[string]string {
	m := map[string]string{}
	if shelf == nil {
		return m
	}
	for bookID, chapters := range shelf.ChapterIndex {
		for chapterID, entry := range chapters {
			m[bookID+"/"+chapterID] = entry.RemotePath()
		}
	}
	return m
}

func label(prefix string, shelf *bookshelf.Bookshelf) string {
	if shelf == nil || shelf.ID == "" {
		return "/dev/null"
	}
	return prefix + "/" + shelf.ID
}
