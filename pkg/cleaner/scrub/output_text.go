package scrub

import (
	"regexp"
	"strings"
)

// whitespaceRegex matches runs of whitespace.
var whitespaceRegex = regexp.MustCompile(`\s+`)

// textOutput extracts the text content of the rewritten tree.
func (c *Cleaner) textOutput(doc *Document) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(doc.Text(), " "))
}
