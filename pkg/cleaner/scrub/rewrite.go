package scrub

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/jmylchreest/htmlscrub/internal/logger"
)

// Rewrite parses raw and applies the structural edits enabled in cfg:
// attribute stripping, then tag unwrapping, then comment removal.
// Blank input returns ErrBlankInput. A nil cfg selects DefaultConfig.
func Rewrite(raw string, cfg *Config) (*Document, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrBlankInput
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	doc, err := Parse(raw)
	if err != nil {
		return nil, err
	}

	rewrite(doc, cfg, NewStats())
	return doc, nil
}

// rewrite applies the edit passes in a fixed order. Each pass sees the tree
// the previous one left behind.
func rewrite(doc *Document, cfg *Config, stats *Stats) {
	phase := stats.AddPhase("attributes", cfg.StripAttributes)
	if cfg.StripAttributes {
		start := time.Now()
		elements, attrs := stripAttributes(doc)
		phase.ElementsAffected = elements
		phase.Details["attributes"] = attrs
		phase.Duration = time.Since(start)
		stats.AttributesRemoved += attrs
		logger.Debug("stripped attributes", "elements", elements, "attributes", attrs)
	}

	set := cfg.unwrapSet()
	phase = stats.AddPhase("unwrap", len(set) > 0)
	if len(set) > 0 {
		start := time.Now()
		for tag, count := range unwrapElements(doc, set) {
			phase.ElementsAffected += count
			phase.Details[tag] += count
			stats.RecordUnwrap(tag, count)
		}
		phase.Duration = time.Since(start)
		logger.Debug("unwrapped elements", "count", phase.ElementsAffected)
	}

	phase = stats.AddPhase("comments", cfg.RemoveComments)
	if cfg.RemoveComments {
		start := time.Now()
		removed := removeComments(doc)
		phase.ElementsAffected = removed
		phase.Duration = time.Since(start)
		stats.CommentsRemoved += removed
		logger.Debug("removed comments", "count", removed)
	}

	stats.ElementsKept = doc.Elements()
}

// stripAttributes empties the attribute list of every element.
func stripAttributes(doc *Document) (elements, attrs int) {
	doc.doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		if len(n.Attr) == 0 {
			return
		}
		elements++
		attrs += len(n.Attr)
		n.Attr = nil
	})
	return elements, attrs
}

// unwrapElements unwraps every element whose tag is in set and returns the
// per-tag counts.
func unwrapElements(doc *Document, set map[string]bool) map[string]int {
	counts := make(map[string]int)
	matches := doc.doc.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return set[strings.ToLower(goquery.NodeName(s))]
	})
	for _, n := range matches.Nodes {
		if unwrapNode(n) {
			counts[strings.ToLower(n.Data)]++
		}
	}
	return counts
}

// unwrapNode moves the children of n into its parent at n's position, in
// order, then detaches n. Nodes without a parent are left alone.
func unwrapNode(n *html.Node) bool {
	parent := n.Parent
	if parent == nil {
		return false
	}
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
	}
	parent.RemoveChild(n)
	return true
}

// removeComments detaches every comment node and returns how many it found.
func removeComments(doc *Document) int {
	var comments []*html.Node
	walk(doc.Root(), func(n *html.Node) {
		if n.Type == html.CommentNode {
			comments = append(comments, n)
		}
	})
	for _, n := range comments {
		n.Parent.RemoveChild(n)
	}
	return len(comments)
}
