package main

import (
	"fmt"

	"github.com/blaize/bookshelf"
	bshttp "github.com/blaize/bookshelf/http"
	"github.com/blaize/bookshelf/resolve"
	bsslog "github.com/blaize/bookshelf/slog"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	shelf, err := loadBookshelf(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", bookshelf.ErrorMessage(err))
		return err
	}
	if shelf == nil {
		fmt.Fprintln(deps.Stderr, "No bookshelf built yet. Chapters return 404 until 'bookshelf build' or a rebuild runs.")
	}

	resolver := resolve.NewResolver(deps.Content, shelf)

	s := bshttp.NewServer()
	s.Addr = c.Addr
	s.Chapters = bsslog.NewLoggingChapterService(resolver, deps.Logger)
	s.Catalog = resolver
	s.Limiter = deps.Limiter
	if deps.Assembler != nil {
		s.Builder = deps.Assembler
	}
	s.CronSecret = c.CronSecret
	s.SiteURL = c.SiteURL
	s.Logger = deps.Logger

	if err := s.Open(); err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Listening on %s\n", s.Listener().Addr())

	return s.Serve(deps.Ctx)
}
