package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/blaize/bookshelf"
	"github.com/blaize/bookshelf/crawl"
	"github.com/blaize/bookshelf/fs"
	"github.com/blaize/bookshelf/github"
	"github.com/blaize/bookshelf/inmem"
	bsslog "github.com/blaize/bookshelf/slog"
	"github.com/blaize/bookshelf/sqlite"
	"github.com/blaize/bookshelf/yaml"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database holding build history and shared rate limits.
	DB *sqlite.DB

	// Content replaces the GitHub client when set. Used by end-to-end tests.
	Content bookshelf.ContentService
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("bookshelf"),
		kong.Description("Build and serve a bookshelf of notes kept in a GitHub repository."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'bookshelf --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger
	deps.Artifacts = bsslog.NewLoggingBookshelfStore(fs.NewBookshelfStore(cli.Artifact), logger)

	// Build history lives in SQLite next to the shared limiter table.
	var history bookshelf.BookshelfStore
	if cmd == "build" || cmd == "serve" || cmd == "history" {
		m.DB = sqlite.NewDB(cli.DB)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set BOOKSHELF_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
		}
		defer m.Close()

		builds := sqlite.NewBookshelfStore(m.DB)
		history = builds
		deps.History = builds
	}

	var collections []*bookshelf.Collection
	if cmd == "build" || cmd == "serve" {
		if collections, err = yaml.LoadCollectionsFile(cli.Collections); err != nil {
			fmt.Fprintf(stderr, "Hint: Set BOOKSHELF_COLLECTIONS to the collections file\n")
			return err
		}
	}

	if cmd == "build" || cmd == "serve" || cmd == "get" {
		root := cli.ContentRoot
		if root == "" {
			root = bookshelf.CommonRoot(collectionRoots(ctx, collections, deps.Artifacts)...)
		}
		content, err := m.contentService(cli, root)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Set GH_TOKEN, GH_OWNER and GH_REPO")
			return err
		}
		deps.Content = bsslog.NewLoggingContentService(content, logger)
	}

	if cmd == "build" || cmd == "serve" {

		// A failed call is terminal for its collection unless retries are
		// asked for.
		crawlContent := deps.Content
		if cli.Retries > 0 {
			crawlContent = &crawl.RetryContentService{
				Content: deps.Content,
				Delays:  retryDelays(cli.Retries),
				Log: func(format string, args ...any) {
					fmt.Fprintf(stderr, format+"\n", args...)
				},
			}
		}
		deps.Assembler = &crawl.Assembler{
			Crawler:     &crawl.Crawler{Content: crawlContent},
			Collections: collections,
			Store:       &recordingStore{artifacts: deps.Artifacts, history: history},
		}
	}

	if cmd == "serve" {
		var limiter bookshelf.RateLimiter
		if cli.Serve.SharedLimiter {
			limiter = sqlite.NewRateLimiter(m.DB, cli.Serve.Limit, cli.Serve.Window)
		} else {
			limiter = inmem.NewRateLimiter(cli.Serve.Limit, cli.Serve.Window)
		}
		deps.Limiter = bsslog.NewLoggingRateLimiter(limiter, logger)
	}

	return kongCtx.Run(deps)
}

// retryDelays doubles from one second for n retries.
func retryDelays(n int) []time.Duration {
	delays := make([]time.Duration, 0, max(n, 0))
	for i := range n {
		delays = append(delays, time.Second<<i)
	}
	return delays
}

// contentService returns the configured remote tree reader, confined to root.
func (m *Main) contentService(cli *CLI, root string) (bookshelf.ContentService, error) {
	if m.Content != nil {
		return m.Content, nil
	}

	opts := []github.Option{
		github.WithContentRoot(root),
		github.WithRateLimit(cli.RequestRate, cli.RequestBurst),
	}
	if cli.GitHubURL != "" {
		opts = append(opts, github.WithBaseURL(cli.GitHubURL))
	}
	return github.NewClient(github.Config{
		Token: cli.Token,
		Owner: cli.Owner,
		Repo:  cli.Repo,
	}, opts...)
}

// collectionRoots returns the root paths of the configured collections, or
// of the books in the saved artifact when no collections were loaded.
func collectionRoots(ctx context.Context, collections []*bookshelf.Collection, artifacts bookshelf.BookshelfStore) []string {
	var roots []string
	for _, c := range collections {
		roots = append(roots, c.CleanRootPath())
	}
	if len(collections) > 0 {
		return roots
	}

	shelf, err := artifacts.LoadBookshelf(ctx)
	if err != nil {
		return nil
	}
	for _, book := range shelf.Books {
		roots = append(roots, book.CleanRootPath())
	}
	return roots
}
