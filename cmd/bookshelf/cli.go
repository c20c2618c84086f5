package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/blaize/bookshelf"
	"github.com/blaize/bookshelf/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Content   bookshelf.ContentService
	Artifacts bookshelf.BookshelfStore
	History   bookshelf.BuildHistory
	Assembler *crawl.Assembler
	Limiter   bookshelf.RateLimiter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Token        string  `env:"GH_TOKEN" help:"GitHub token"`
	Owner        string  `env:"GH_OWNER" help:"Owner of the notes repository"`
	Repo         string  `env:"GH_REPO" help:"Name of the notes repository"`
	ContentRoot  string  `env:"GH_CONTENT_ROOT" help:"Repository directory all reads are confined to (default: common root of the collections)"`
	GitHubURL    string  `name:"github-url" env:"GH_API_URL" help:"GitHub API base URL"`
	RequestRate  float64 `default:"10" help:"GitHub requests per second"`
	RequestBurst int     `default:"10" help:"GitHub request burst"`
	Retries      int     `default:"0" help:"Retries for unavailable GitHub responses while crawling (0 skips the collection on first failure)"`
	Collections  string  `env:"BOOKSHELF_COLLECTIONS" default:"collections.yaml" help:"Collections file (YAML or JSON)"`
	Artifact     string  `env:"BOOKSHELF_ARTIFACT" default:"bookshelf.json" help:"Bookshelf artifact path"`
	DB           string  `name:"db" env:"BOOKSHELF_DB" default:"bookshelf.db" help:"SQLite database path"`
	Verbose      bool    `short:"v" help:"Log every GitHub request"`

	Build   BuildCmd   `cmd:"" help:"Crawl all collections and write the bookshelf artifact"`
	Serve   ServeCmd   `cmd:"" help:"Serve chapters over HTTP"`
	Get     GetCmd     `cmd:"" help:"Print a chapter"`
	List    ListCmd    `cmd:"" help:"List books, or the chapters of one book"`
	History HistoryCmd `cmd:"" help:"List recorded builds"`
	Sitemap SitemapCmd `cmd:"" help:"Print the sitemap"`
}

// BuildCmd is the "build" subcommand.
type BuildCmd struct {
	Diff bool `short:"d" help:"Print changes to the chapter index"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr          string        `default:":8080" env:"ADDR" help:"Listen address"`
	Limit         int           `default:"20" help:"Chapter requests per client per window"`
	Window        time.Duration `default:"60s" help:"Rate limit window"`
	SharedLimiter bool          `help:"Keep rate limits in the SQLite database"`
	CronSecret    string        `env:"CRON_SECRET" help:"Secret required by the rebuild endpoint"`
	SiteURL       string        `env:"SITE_URL" default:"https://blaize.me" help:"Public site URL"`
}

// GetCmd is the "get" subcommand.
type GetCmd struct {
	Book     string `arg:"" help:"Book ID"`
	Chapter  string `arg:"" help:"Chapter ID"`
	Sections bool   `short:"s" help:"Print the heading outline instead of the content"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Book string `arg:"" optional:"" help:"Book ID"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Limit int `short:"n" default:"10" help:"Number of builds to show"`
}

// SitemapCmd is the "sitemap" subcommand.
type SitemapCmd struct {
	SiteURL string `env:"SITE_URL" default:"https://blaize.me" help:"Public site URL"`
}
