package fetcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/jmylchreest/htmlscrub/internal/logger"
)

// StaticConfig holds configuration for the static fetcher.
type StaticConfig struct {
	UserAgent   string
	Timeout     time.Duration
	MaxBodySize int
}

// DefaultStaticConfig returns sensible defaults.
func DefaultStaticConfig() StaticConfig {
	return StaticConfig{
		UserAgent:   defaultUserAgent,
		Timeout:     30 * time.Second,
		MaxBodySize: 10 * 1024 * 1024,
	}
}

const defaultUserAgent = "htmlscrub (+https://github.com/jmylchreest/htmlscrub)"

// StaticFetcher uses Colly for static HTML fetching.
// It implements the Fetcher interface.
type StaticFetcher struct {
	config StaticConfig
}

// NewStatic creates a new static fetcher.
func NewStatic(cfg StaticConfig) *StaticFetcher {
	def := DefaultStaticConfig()
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxBodySize == 0 {
		cfg.MaxBodySize = def.MaxBodySize
	}
	return &StaticFetcher{config: cfg}
}

// Fetch retrieves page content using Colly. The request is bound to ctx.
func (f *StaticFetcher) Fetch(ctx context.Context, targetURL string, opts Options) (Content, error) {
	logger.Debug("static fetch starting", "url", targetURL)

	result := Content{
		URL:       targetURL,
		FetchedAt: time.Now(),
	}

	// A new collector per request keeps the visited-URL set empty.
	userAgent := coalesce(opts.UserAgent, f.config.UserAgent)
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.StdlibContext(ctx),
		colly.AllowURLRevisit(),
	)

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = f.config.Timeout
	}
	c.SetRequestTimeout(timeout)

	c.MaxBodySize = f.config.MaxBodySize
	if opts.MaxBodySize > 0 {
		c.MaxBodySize = opts.MaxBodySize
	}
	logger.Debug("static fetch configured",
		"user_agent", userAgent,
		"timeout", timeout,
		"max_body_size", c.MaxBodySize)

	if len(opts.Headers) > 0 {
		c.OnRequest(func(r *colly.Request) {
			for k, v := range opts.Headers {
				r.Headers.Set(k, v)
			}
		})
	}

	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		result.StatusCode = r.StatusCode
		result.ContentType = r.Headers.Get("Content-Type")
		result.HTML = string(r.Body)
		logger.Debug("static fetch response received",
			"status", r.StatusCode,
			"content_type", result.ContentType,
			"body_size", len(r.Body))
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			result.StatusCode = r.StatusCode
			fetchErr = fmt.Errorf("%w: %d %s", ErrHTTPStatus, r.StatusCode, err)
		} else {
			fetchErr = fmt.Errorf("fetch error: %w", err)
		}
		logger.Debug("static fetch error", "status", result.StatusCode, "error", err)
	})

	visitErr := c.Visit(targetURL)
	if fetchErr != nil {
		return result, fetchErr
	}
	if visitErr != nil {
		return result, fmt.Errorf("failed to visit URL: %w", visitErr)
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	if result.HTML != "" {
		result.Title = extractTitle(result.HTML)
	}

	logger.Debug("static fetch complete", "url", targetURL, "title", result.Title)
	return result, nil
}

// extractTitle returns the document title, or "" for fragments.
func extractTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
}

// Close releases resources.
func (f *StaticFetcher) Close() error {
	return nil
}

// Type returns the fetcher type.
func (f *StaticFetcher) Type() string {
	return "static"
}

// IsURL reports whether s looks like an http(s) URL rather than a path.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// coalesce returns the first non-empty string.
func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
