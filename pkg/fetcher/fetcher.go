// Package fetcher retrieves HTML over HTTP so that remote pages can be fed to
// the cleaner the same way as local files.
package fetcher

import (
	"context"
	"errors"
	"time"
)

// Fetcher abstracts page fetching strategies.
type Fetcher interface {
	// Fetch retrieves page content from a URL.
	Fetch(ctx context.Context, url string, opts Options) (Content, error)

	// Close releases any resources held by the fetcher.
	Close() error

	// Type returns a string identifying the fetcher type.
	Type() string
}

// Options controls fetching behavior. Zero values fall back to the
// fetcher's configuration.
type Options struct {
	UserAgent   string
	Timeout     time.Duration
	Headers     map[string]string
	MaxBodySize int // bytes; 0 keeps the fetcher default
}

// Content represents fetched page data.
type Content struct {
	URL         string
	HTML        string
	Title       string
	StatusCode  int
	ContentType string
	FetchedAt   time.Time
}

// ErrHTTPStatus is wrapped by errors for responses outside the 2xx range.
// Check with errors.Is(err, fetcher.ErrHTTPStatus).
var ErrHTTPStatus = errors.New("unexpected http status")
