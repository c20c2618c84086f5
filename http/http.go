// Package http serves the bookshelf over HTTP: chapter content, the
// structural bookshelf view, a secret-protected rebuild trigger and a
// generated sitemap.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/blaize/bookshelf"
)

// Response headers for chapter content: edge caches keep a chapter for a
// day and may serve it stale for a week while revalidating.
const (
	ChapterCacheControl = "public, s-maxage=86400, stale-while-revalidate=604800"
	SitemapCacheControl = "max-age=0, s-maxage=3600"
	ShelfCacheControl   = "public, s-maxage=3600"
)

// ClientKey identifies the caller for rate limiting: the first address in
// X-Forwarded-For, then X-Real-IP, else bookshelf.UnknownClientKey.
func ClientKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return bookshelf.UnknownClientKey
}

// errorResponse is the JSON body of failed requests.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Debug("write response", "err", err)
	}
}
