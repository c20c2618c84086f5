package main

import (
	"fmt"
	"strings"

	"github.com/blaize/bookshelf"
	"github.com/blaize/bookshelf/resolve"
)

// Run executes the get command.
func (c *GetCmd) Run(deps *Dependencies) error {
	shelf, err := loadBookshelf(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", bookshelf.ErrorMessage(err))
		return err
	}

	chapter, err := resolve.NewResolver(deps.Content, shelf).FindChapter(deps.Ctx, c.Book, c.Chapter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", bookshelf.ErrorMessage(err))
		return err
	}

	if c.Sections {
		for _, s := range chapter.Sections {
			fmt.Fprintf(deps.Stdout, "%s%s  #%s\n", strings.Repeat("  ", s.Level-1), s.Title, s.Anchor)
		}
		return nil
	}

	fmt.Fprint(deps.Stdout, chapter.Content)
	if !strings.HasSuffix(chapter.Content, "\n") {
		fmt.Fprintln(deps.Stdout)
	}
	return nil
}
