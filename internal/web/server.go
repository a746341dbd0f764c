// Package web serves the transcript search HTTP API.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/transcripter/transcripter/internal/search"
	"github.com/transcripter/transcripter/internal/store"
)

// minQueryRunes is the shortest query the API will run. Shorter queries
// answer with an empty array instead of an error so clients can issue
// keystroke-driven requests without special-casing.
const minQueryRunes = 3

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8080"

// SearchService answers free-text transcript queries. Backend failures
// degrade to an empty result set at the store layer.
type SearchService interface {
	Search(ctx context.Context, query string) []search.Result
}

// DocumentLister exposes the stored key space for inspection.
type DocumentLister interface {
	AllDocuments(ctx context.Context) (store.Summary, error)
}

// Config holds the HTTP server settings.
type Config struct {
	Addr      string
	CacheSize int
}

// Server is the transcript search HTTP server.
type Server struct {
	addr   string
	svc    SearchService
	docs   DocumentLister
	cache  *queryCache
	router *gin.Engine
}

// New builds a Server with its routes registered.
func New(cfg Config, svc SearchService, docs DocumentLister) (*Server, error) {
	cache, err := newQueryCache(cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	addr := cfg.Addr
	if addr == "" {
		addr = DefaultAddr
	}

	s := &Server{addr: addr, svc: svc, docs: docs, cache: cache}

	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/search", s.handleSearch)
	router.GET("/indexed_documents", s.handleIndexedDocuments)
	router.GET("/healthz", s.handleHealth)
	s.router = router

	return s, nil
}

// Handler returns the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", slog.String("addr", s.addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("http server stopped")
	return nil
}

func (s *Server) handleSearch(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if utf8.RuneCountInString(query) < minQueryRunes {
		c.JSON(http.StatusOK, []search.Result{})
		return
	}

	if results, ok := s.cache.get(query); ok {
		c.JSON(http.StatusOK, results)
		return
	}

	results := s.svc.Search(c.Request.Context(), query)
	if results == nil {
		results = []search.Result{}
	}

	s.cache.put(query, results)
	c.JSON(http.StatusOK, results)
}

func (s *Server) handleIndexedDocuments(c *gin.Context) {
	summary, err := s.docs.AllDocuments(c.Request.Context())
	if err != nil {
		slog.Error("listing documents failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing documents failed"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
