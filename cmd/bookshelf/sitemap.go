package main

import (
	"fmt"

	"github.com/blaize/bookshelf"
	bshttp "github.com/blaize/bookshelf/http"
)

// Run executes the sitemap command.
func (c *SitemapCmd) Run(deps *Dependencies) error {
	shelf, err := loadBookshelf(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", bookshelf.ErrorMessage(err))
		return err
	}
	return bshttp.WriteSitemap(deps.Stdout, c.SiteURL, shelf)
}
