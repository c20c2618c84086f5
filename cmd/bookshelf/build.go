package main

import (
	"fmt"

	"github.com/blaize/bookshelf"
	"github.com/blaize/bookshelf/crawl"
	"github.com/blaize/bookshelf/diff"
)

// Run executes the build command.
func (c *BuildCmd) Run(deps *Dependencies) error {
	previous, err := loadBookshelf(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", bookshelf.ErrorMessage(err))
		return err
	}

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Crawling %d collections\n", event.Total)
		case crawl.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] %s: %d chapters\n", event.Completed, event.Total, event.Collection, event.Chapters)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", event.Collection, bookshelf.ErrorMessage(event.Error))
		case crawl.ProgressFinished:
			// Summary printed after the artifact is saved
		}
	}

	shelf, err := deps.Assembler.Assemble(deps.Ctx, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error building bookshelf: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Built %s: %d books, %d chapters\n", shelf.ID, len(shelf.Books), shelf.ChapterCount())

	if !c.Diff {
		return nil
	}

	stats := diff.Compare(previous, shelf)
	if !stats.Changed() {
		fmt.Fprintln(deps.Stdout, "No chapter changes.")
		return nil
	}
	fmt.Fprintf(deps.Stdout, "%d added, %d removed, %d moved\n", stats.Added, stats.Removed, stats.Moved)

	patch, err := diff.Unified(previous, shelf)
	if err != nil {
		return err
	}
	fmt.Fprint(deps.Stdout, patch)
	return nil
}
