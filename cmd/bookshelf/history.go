package main

import (
	"fmt"
	"time"

	"github.com/blaize/bookshelf"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	builds, err := deps.History.FindBuilds(deps.Ctx, bookshelf.BuildFilter{Limit: c.Limit})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", bookshelf.ErrorMessage(err))
		return err
	}

	if len(builds) == 0 {
		fmt.Fprintln(deps.Stdout, "No builds recorded. Use 'bookshelf build' to create one.")
		return nil
	}

	for _, b := range builds {
		fmt.Fprintf(deps.Stdout, "%s  %s  %d books  %d chapters\n",
			b.ID, b.GeneratedAt.UTC().Format(time.RFC3339), b.Books, b.Chapters)
	}
	return nil
}
