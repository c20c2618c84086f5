// Package github implements bookshelf.ContentService on top of the GitHub
// REST repository contents API.
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/blaize/bookshelf"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public GitHub API endpoint.
const DefaultBaseURL = "https://api.github.com"

// DefaultTimeout is the default timeout for API requests.
const DefaultTimeout = 10 * time.Second

const (
	apiVersion   = "2022-11-28"
	acceptJSON   = "application/vnd.github+json"
	acceptRaw    = "application/vnd.github.raw+json"
	encodingNone = "none"
)

// Ensure Client implements bookshelf.ContentService at compile time.
var _ bookshelf.ContentService = (*Client)(nil)

// Config identifies the repository and carries its credentials.
type Config struct {
	Token string
	Owner string
	Repo  string
}

// Validate returns EMISCONFIGURED if any field is missing.
func (c Config) Validate() error {
	if c.Token == "" {
		return bookshelf.Errorf(bookshelf.EMISCONFIGURED, "github token not provided")
	}
	if c.Owner == "" || c.Repo == "" {
		return bookshelf.Errorf(bookshelf.EMISCONFIGURED, "github repository owner or name not provided")
	}
	return nil
}

// Client reads repository contents through the GitHub API.
type Client struct {
	client  *http.Client
	config  Config
	baseURL string
	root    string
	timeout time.Duration
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the timeout for API requests.
// Defaults to DefaultTimeout (10s) if not specified.
// Ignored when WithHTTPClient is used.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithBaseURL points the client at a different API endpoint,
// e.g. GitHub Enterprise or a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

// WithContentRoot confines every request to paths under root.
func WithContentRoot(root string) Option {
	return func(c *Client) {
		c.root = root
	}
}

// WithRateLimit throttles outgoing requests to rps requests per second
// with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// NewClient creates a new Client.
// Returns EMISCONFIGURED if the configuration is incomplete.
func NewClient(config Config, opts ...Option) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		config:  config,
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		c.client = &http.Client{
			Timeout: c.timeout,
		}
	}

	return c, nil
}

// contentsItem is the API's representation of a file or directory entry.
type contentsItem struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Path        string `json:"path"`
	SHA         string `json:"sha"`
	Size        int    `json:"size"`
	Encoding    string `json:"encoding"`
	Content     string `json:"content"`
	HTMLURL     string `json:"html_url"`
	DownloadURL string `json:"download_url"`
}

// ListDirectory returns the entries of the directory at path.
func (c *Client) ListDirectory(ctx context.Context, path string) ([]*bookshelf.RemoteEntry, error) {
	body, clean, err := c.get(ctx, path, acceptJSON)
	if err != nil {
		return nil, err
	}

	// The API answers with an object instead of an array for files.
	if !bytes.HasPrefix(bytes.TrimSpace(body), []byte("[")) {
		return nil, bookshelf.Errorf(bookshelf.EUNAVAILABLE, "github path %s is not a directory", clean)
	}

	var items []contentsItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, bookshelf.Errorf(bookshelf.EUNAVAILABLE, "decode listing for %s: %w", clean, err)
	}

	entries := make([]*bookshelf.RemoteEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, &bookshelf.RemoteEntry{
			Name: item.Name,
			Path: item.Path,
			Type: bookshelf.EntryType(item.Type),
		})
	}
	return entries, nil
}

// FetchFile returns the file at path with its content decoded.
// Files too large for inline content are fetched raw.
func (c *Client) FetchFile(ctx context.Context, path string) (*bookshelf.RemoteFile, error) {
	body, clean, err := c.get(ctx, path, acceptJSON)
	if err != nil {
		return nil, err
	}

	var item contentsItem
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, bookshelf.Errorf(bookshelf.EUNAVAILABLE, "github path %s is not a file", clean)
	}
	if item.Type != string(bookshelf.EntryFile) {
		return nil, bookshelf.Errorf(bookshelf.EUNAVAILABLE, "github path %s is not a file", clean)
	}

	file := &bookshelf.RemoteFile{
		Name:        item.Name,
		Path:        item.Path,
		SHA:         item.SHA,
		Size:        item.Size,
		HTMLURL:     item.HTMLURL,
		DownloadURL: item.DownloadURL,
	}

	switch item.Encoding {
	case "base64":
		decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(item.Content, "\n", ""))
		if err != nil {
			return nil, bookshelf.Errorf(bookshelf.EUNAVAILABLE, "decode content of %s: %w", clean, err)
		}
		file.Content = string(decoded)
	case encodingNone, "":
		raw, err := c.FetchRawFile(ctx, clean)
		if err != nil {
			return nil, err
		}
		file.Content = raw
	default:
		file.Content = item.Content
	}

	return file, nil
}

// FetchRawFile returns the raw text of the file at path.
func (c *Client) FetchRawFile(ctx context.Context, path string) (string, error) {
	body, _, err := c.get(ctx, path, acceptRaw)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// get performs a contents request after confining path.
// It returns the response body and the cleaned path.
func (c *Client) get(ctx context.Context, path, accept string) ([]byte, string, error) {
	clean, err := bookshelf.ConfinePath(c.root, path)
	if err != nil {
		return nil, "", err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, clean, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.contentsURL(clean), nil)
	if err != nil {
		return nil, clean, err
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, clean, bookshelf.Errorf(bookshelf.EUNAVAILABLE, "github API request for %s: %w", clean, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, clean, bookshelf.Errorf(bookshelf.EUNAUTHORIZED, "github API rejected credentials for %s", clean)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, clean, bookshelf.Errorf(bookshelf.EUNAVAILABLE, "github API error for %s: %s", clean, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, clean, bookshelf.Errorf(bookshelf.EUNAVAILABLE, "read github response for %s: %w", clean, err)
	}
	return body, clean, nil
}

func (c *Client) contentsURL(clean string) string {
	segments := strings.Split(clean, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return c.baseURL + "/repos/" + url.PathEscape(c.config.Owner) + "/" + url.PathEscape(c.config.Repo) +
		"/contents/" + strings.Join(segments, "/")
}
