package cleaner

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// MarkdownCleaner converts HTML to Markdown using html-to-markdown.
// It is the last stage of the pipeline for --format markdown.
type MarkdownCleaner struct {
	config markdownConfig
}

// MarkdownOption configures the markdown cleaner.
type MarkdownOption func(*markdownConfig)

type markdownConfig struct {
	// StripLinks removes link URLs, keeping only the link text
	StripLinks bool
	// StripImages removes images entirely
	StripImages bool
}

// WithStripLinks configures the cleaner to remove link URLs.
func WithStripLinks(strip bool) MarkdownOption {
	return func(c *markdownConfig) {
		c.StripLinks = strip
	}
}

// WithStripImages configures the cleaner to remove images.
func WithStripImages(strip bool) MarkdownOption {
	return func(c *markdownConfig) {
		c.StripImages = strip
	}
}

// NewMarkdown creates a new Markdown cleaner.
func NewMarkdown(opts ...MarkdownOption) *MarkdownCleaner {
	c := &MarkdownCleaner{}
	for _, opt := range opts {
		opt(&c.config)
	}
	return c
}

// Clean converts HTML to Markdown.
func (c *MarkdownCleaner) Clean(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}

	if c.config.StripLinks || c.config.StripImages {
		var err error
		html, err = c.prepare(html)
		if err != nil {
			return "", err
		}
	}

	markdown, err := md.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}

	return cleanWhitespace(markdown), nil
}

// prepare drops images and unwraps links before conversion.
func (c *MarkdownCleaner) prepare(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	if c.config.StripImages {
		doc.Find("img, picture").Remove()
	}
	if c.config.StripLinks {
		doc.Find("a").Each(func(_ int, s *goquery.Selection) {
			s.ReplaceWithSelection(s.Contents())
		})
	}
	return doc.Find("body").Html()
}

// Name returns the cleaner type.
func (c *MarkdownCleaner) Name() string {
	return "markdown"
}

// cleanWhitespace allows at most one blank line in a row and trims the ends.
func cleanWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	var result []string
	blankCount := 0

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			blankCount++
			if blankCount <= 1 {
				result = append(result, "")
			}
		} else {
			blankCount = 0
			result = append(result, strings.TrimRight(line, " \t"))
		}
	}

	return strings.TrimSpace(strings.Join(result, "\n"))
}
