// Package server exposes the local catalog over HTTP in the same shape as
// the Google Books volumes endpoint, so a shelf instance can search another
// machine's catalog with the regular remote client.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"shelf/internal/catalog"
	"shelf/internal/domain"
)

const (
	defaultMaxResults = 10
	maxMaxResults     = 40
)

// Catalog is what the server needs from the book store
type Catalog interface {
	Search(ctx context.Context, query string, limit int) ([]domain.Book, error)
	Get(ctx context.Context, id string) (domain.Book, error)
}

// Server serves catalog searches over HTTP
type Server struct {
	catalog Catalog
}

// New creates a server for c
func New(c Catalog) *Server {
	return &Server{catalog: c}
}

type volumeInfo struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors,omitempty"`
	PublishedDate string   `json:"publishedDate,omitempty"`
}

type volume struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumesResponse struct {
	Kind       string   `json:"kind"`
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

func toVolume(b domain.Book) volume {
	return volume{
		ID: b.ID,
		VolumeInfo: volumeInfo{
			Title:         b.Title,
			Authors:       b.Authors,
			PublishedDate: b.PublishedDate,
		},
	}
}

// Routes builds the gin handler
func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.HEAD("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	v1 := r.Group("/books/v1")
	v1.GET("/volumes", s.SearchHandler)
	v1.GET("/volumes/:id", s.VolumeHandler)

	return r
}

// SearchHandler answers GET /books/v1/volumes?q=&maxResults=
func (s *Server) SearchHandler(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	limit := defaultMaxResults
	if raw := c.Query("maxResults"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxMaxResults {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("maxResults must be between 1 and %d", maxMaxResults)})
			return
		}
		limit = n
	}

	books, err := s.catalog.Search(c.Request.Context(), query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := volumesResponse{
		Kind:       "books#volumes",
		TotalItems: len(books),
		Items:      make([]volume, 0, len(books)),
	}
	for _, b := range books {
		resp.Items = append(resp.Items, toVolume(b))
	}
	c.JSON(http.StatusOK, resp)
}

// VolumeHandler answers GET /books/v1/volumes/:id
func (s *Server) VolumeHandler(c *gin.Context) {
	book, err := s.catalog.Get(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("volume %q not found", c.Param("id"))})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, toVolume(book))
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("server: %s %s -> %d (%s)", c.Request.Method, c.Request.URL.RequestURI(), c.Writer.Status(), time.Since(start).Round(time.Microsecond))
	}
}

// Serve listens on ln until ctx is cancelled, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("server: listening on %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		log.Printf("server: stopped")
		return nil
	}
}

// ListenAndServe is Serve on a fresh TCP listener for addr
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}
