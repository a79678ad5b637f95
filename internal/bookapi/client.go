// Package bookapi is a small client for the Google Books volumes search
// endpoint (and anything serving the same shape, such as `shelf serve`).
package bookapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/singleflight"

	"shelf/internal/domain"
)

// MaxResults is the largest page the volumes endpoint hands out
const MaxResults = 40

// ErrRateLimited is returned when the service answers 429
var ErrRateLimited = errors.New("book search rate limited")

// ErrMalformedResponse is returned when the body is not the expected JSON
var ErrMalformedResponse = errors.New("malformed search response")

// StatusError is a non-2xx answer from the service
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("book search: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("book search: %d %s", e.StatusCode, e.Message)
}

// Unwrap lets errors.Is(err, ErrRateLimited) match 429 answers
func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	return nil
}

// Client searches the volumes endpoint. Identical concurrent searches share
// one request.
type Client struct {
	endpoint *url.URL
	http     *http.Client
	apiKey   string
	group    singleflight.Group
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithAPIKey sends key with every request
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// NewClient creates a client for endpoint
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid endpoint %q: scheme must be http or https", endpoint)
	}

	c := &Client{
		endpoint: u,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Search returns up to limit volumes matching query
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.Book, error) {
	limit = max(1, min(limit, MaxResults))
	key := strconv.Itoa(limit) + "\x00" + query

	// the shared request must outlive any single caller giving up, but
	// still honours the first caller's deadline
	shared := context.WithoutCancel(ctx)
	deadline, hasDeadline := ctx.Deadline()
	ch := c.group.DoChan(key, func() (interface{}, error) {
		reqCtx := shared
		if hasDeadline {
			var cancel context.CancelFunc
			reqCtx, cancel = context.WithDeadline(shared, deadline)
			defer cancel()
		}
		return c.search(reqCtx, query, limit)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			log.Printf("bookapi: shared in-flight search for %q", query)
		}
		return res.Val.([]domain.Book), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Client) search(ctx context.Context, query string, limit int) ([]domain.Book, error) {
	u := *c.endpoint
	q := u.Query()
	q.Set("q", query)
	q.Set("maxResults", strconv.Itoa(limit))
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("book search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}
	log.Printf("bookapi: %q -> %d (%d bytes, %s)", query, resp.StatusCode, len(body), time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, body)
	}
	return ParseVolumes(body)
}

func statusError(code int, body []byte) error {
	msg := ""
	if gjson.ValidBytes(body) {
		msg = gjson.GetBytes(body, "error.message").String()
		if msg == "" {
			msg = gjson.GetBytes(body, "error").String()
		}
	}
	return &StatusError{StatusCode: code, Message: msg}
}

// ParseVolumes extracts books from a volumes response. Items without an id
// are skipped; missing titles, authors and dates are left empty.
func ParseVolumes(body []byte) ([]domain.Book, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformedResponse
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, ErrMalformedResponse
	}

	items := root.Get("items")
	books := make([]domain.Book, 0, len(items.Array()))
	items.ForEach(func(_, item gjson.Result) bool {
		id := item.Get("id").String()
		if id == "" {
			return true
		}
		info := item.Get("volumeInfo")
		book := domain.Book{
			ID:            id,
			Title:         info.Get("title").String(),
			PublishedDate: info.Get("publishedDate").String(),
		}
		for _, author := range info.Get("authors").Array() {
			if name := author.String(); name != "" {
				book.Authors = append(book.Authors, name)
			}
		}
		books = append(books, book)
		return true
	})
	return books, nil
}
