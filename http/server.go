package http

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/blaize/bookshelf"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultShutdownTimeout bounds graceful shutdown.
const DefaultShutdownTimeout = 10 * time.Second

// Server serves the bookshelf API.
type Server struct {
	ln     net.Listener
	server *http.Server
	mux    *http.ServeMux

	// Addr is the bind address, e.g. ":8080".
	Addr string

	// Chapters resolves chapter content.
	Chapters bookshelf.ChapterService

	// Catalog holds the served bookshelf. Rebuilds publish into it.
	Catalog bookshelf.Catalog

	// Limiter guards chapter requests. Optional.
	Limiter bookshelf.RateLimiter

	// Builder produces a fresh bookshelf on rebuild. Optional.
	Builder bookshelf.Builder

	// CronSecret authorizes rebuild requests. Rebuilds fail while unset.
	CronSecret string

	// SiteURL is the public site used in the sitemap.
	SiteURL string

	Logger *slog.Logger

	rebuilds singleflight.Group
}

// NewServer returns a Server with its routes registered.
func NewServer() *Server {
	s := &Server{
		mux:     http.NewServeMux(),
		SiteURL: DefaultSiteURL,
		Logger:  slog.Default(),
	}
	s.server = &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mux.HandleFunc("GET /api/books/{book}/{chapter}", s.handleChapter)
	s.mux.HandleFunc("GET /api/bookshelf", s.handleBookshelf)
	s.mux.HandleFunc("GET /api/cron/rebuild", s.handleRebuild)
	s.mux.HandleFunc("GET /sitemap.xml", s.handleSitemap)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Open binds the listener. Use Listener to discover the bound address.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	return nil
}

// Listener returns the bound listener, or nil before Open.
func (s *Server) Listener() net.Listener {
	return s.ln
}

// Serve serves requests on the opened listener until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	if s.ln == nil {
		if err := s.Open(); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.server.Serve(s.ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultShutdownTimeout)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// chapterResponse is the body of a resolved chapter.
type chapterResponse struct {
	Content  string              `json:"content"`
	Metadata chapterMetadata     `json:"metadata"`
	Sections []bookshelf.Section `json:"sections,omitempty"`
}

type chapterMetadata struct {
	Book    string `json:"book"`
	Chapter string `json:"chapter"`
	Title   string `json:"title"`
}

func (s *Server) handleChapter(w http.ResponseWriter, r *http.Request) {
	bookID, chapterID := r.PathValue("book"), r.PathValue("chapter")

	if s.Limiter != nil {
		if err := s.Limiter.Allow(r.Context(), ClientKey(r)); err != nil {
			if bookshelf.ErrorCode(err) == bookshelf.ERATELIMIT {
				writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: bookshelf.ErrorMessage(err)})
				return
			}
			// Serve the chapter when the limiter itself fails.
			s.Logger.Error("rate limiter unavailable", "err", err)
		}
	}

	chapter, err := s.Chapters.FindChapter(r.Context(), bookID, chapterID)
	if err != nil {
		if bookshelf.ErrorCode(err) == bookshelf.ENOTFOUND {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: bookshelf.ErrorMessage(err)})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "Error fetching from GH",
			Message: bookshelf.ErrorMessage(err),
		})
		return
	}

	etag := `"` + chapter.Hash + `"`
	w.Header().Set("Cache-Control", ChapterCacheControl)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("ETag", etag)

	if matchesETag(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	writeJSON(w, http.StatusOK, chapterResponse{
		Content: chapter.Content,
		Metadata: chapterMetadata{
			Book:    chapter.BookID,
			Chapter: chapter.ChapterID,
			Title:   chapter.Title,
		},
		Sections: chapter.Sections,
	})
}

// matchesETag reports whether an If-None-Match header lists etag.
func matchesETag(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}

// shelfResponse is the structural bookshelf view.
type shelfResponse struct {
	Books       []*bookshelf.BookNotes `json:"books"`
	LastUpdated time.Time              `json:"lastUpdated"`
}

func (s *Server) handleBookshelf(w http.ResponseWriter, r *http.Request) {
	shelf := s.Catalog.CurrentBookshelf()
	if shelf == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Bookshelf not built"})
		return
	}

	w.Header().Set("Cache-Control", ShelfCacheControl)
	writeJSON(w, http.StatusOK, shelfResponse{Books: shelf.Books, LastUpdated: shelf.LastUpdated})
}

// rebuildResponse summarizes a finished rebuild.
type rebuildResponse struct {
	ID          string    `json:"id"`
	Books       int       `json:"books"`
	Chapters    int       `json:"chapters"`
	LastUpdated time.Time `json:"lastUpdated"`
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	if s.CronSecret == "" {
		http.Error(w, "CRON_SECRET not set", http.StatusInternalServerError)
		return
	}

	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.CronSecret)) != 1 {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if s.Builder == nil {
		http.Error(w, "Rebuild not configured", http.StatusServiceUnavailable)
		return
	}

	// Concurrent triggers share one crawl. The crawl outlives a caller
	// that disconnects.
	ctx := context.WithoutCancel(r.Context())
	v, err, shared := s.rebuilds.Do("rebuild", func() (any, error) {
		shelf, err := s.Builder.Build(ctx)
		if err != nil {
			return nil, err
		}
		s.Catalog.Publish(shelf)
		return shelf, nil
	})
	if err != nil {
		s.Logger.Error("rebuild failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Rebuild failed", Message: bookshelf.ErrorMessage(err)})
		return
	}

	shelf := v.(*bookshelf.Bookshelf)
	s.Logger.Info("rebuild finished",
		"id", shelf.ID,
		"books", len(shelf.Books),
		"chapters", shelf.ChapterCount(),
		"shared", shared,
	)
	writeJSON(w, http.StatusOK, rebuildResponse{
		ID:          shelf.ID,
		Books:       len(shelf.Books),
		Chapters:    shelf.ChapterCount(),
		LastUpdated: shelf.LastUpdated,
	})
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", SitemapCacheControl)
	w.Header().Set("Content-Type", "application/xml")
	if err := WriteSitemap(w, s.SiteURL, s.Catalog.CurrentBookshelf()); err != nil {
		s.Logger.Debug("write sitemap", "err", err)
	}
}
