package scrub

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	// ErrBlankInput is returned for empty or whitespace-only input. Callers
	// treat it as a no-op rather than a failure.
	ErrBlankInput = errors.New("blank input")
	// ErrParse wraps failures reported by the HTML parser.
	ErrParse = errors.New("parse html")
)

// documentRegex matches input that starts like a complete HTML document.
var documentRegex = regexp.MustCompile(`(?i)^<(!doctype|html)[\s>]`)

// Document is a parsed, mutable HTML tree. It belongs to one clean operation.
type Document struct {
	doc      *goquery.Document
	fragment bool
}

// Parse parses raw HTML leniently. Input that starts with a doctype or an
// <html> tag is parsed as a complete document; anything else is parsed as a
// body fragment so that no html/head/body wrappers are added on output.
func Parse(raw string) (*Document, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, ErrBlankInput
	}

	if documentRegex.MatchString(trimmed) {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(trimmed))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		return &Document{doc: doc}, nil
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(trimmed), body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return &Document{doc: goquery.NewDocumentFromNode(root), fragment: true}, nil
}

// IsFragment reports whether the input was parsed as a body fragment.
func (d *Document) IsFragment() bool {
	return d.fragment
}

// Selection returns the root selection of the tree.
func (d *Document) Selection() *goquery.Selection {
	return d.doc.Selection
}

// Root returns the synthetic document node.
func (d *Document) Root() *html.Node {
	return d.doc.Get(0)
}

// HTML renders the tree compactly, without added line breaks.
func (d *Document) HTML() (string, error) {
	markup, err := d.doc.Html()
	if err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return markup, nil
}

// Text returns the concatenated text content in document order.
func (d *Document) Text() string {
	return d.doc.Text()
}

// Elements returns the number of element nodes in the tree.
func (d *Document) Elements() int {
	return d.doc.Find("*").Length()
}

// walk calls fn for every descendant of n in document order.
func walk(n *html.Node, fn func(*html.Node)) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		fn(c)
		walk(c, fn)
	}
}
