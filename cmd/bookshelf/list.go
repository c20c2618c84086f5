package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/blaize/bookshelf"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	shelf, err := loadBookshelf(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", bookshelf.ErrorMessage(err))
		return err
	}

	if shelf == nil || len(shelf.Books) == 0 {
		fmt.Fprintln(deps.Stdout, "No books found. Use 'bookshelf build' to create the bookshelf.")
		return nil
	}

	if c.Book == "" {
		for _, b := range shelf.Books {
			fmt.Fprintf(deps.Stdout, "%s  %s  (%d chapters)\n", b.ID, b.Title, len(shelf.ChapterIndex[b.ID]))
		}
		return nil
	}

	book := shelf.FindBook(c.Book)
	if book == nil {
		err := bookshelf.Errorf(bookshelf.ENOTFOUND, "book %q not found", c.Book)
		fmt.Fprintf(deps.Stderr, "error: %s\n", bookshelf.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s (%s)\n", book.Title, book.RootPath)
	printChapters(deps.Stdout, book.Chapters, 1)
	for _, f := range book.Subfolders {
		printFolder(deps.Stdout, f, 1)
	}
	return nil
}

func printFolder(w io.Writer, f *bookshelf.NotesFolder, depth int) {
	fmt.Fprintf(w, "%s%s/\n", strings.Repeat("  ", depth), f.Title)
	printChapters(w, f.Chapters, depth+1)
	for _, sub := range f.Subfolders {
		printFolder(w, sub, depth+1)
	}
}

func printChapters(w io.Writer, chapters []*bookshelf.Chapter, depth int) {
	for _, ch := range chapters {
		fmt.Fprintf(w, "%s%s  %s\n", strings.Repeat("  ", depth), ch.ID, ch.Title)
	}
}
