package scrub

import (
	"regexp"
	"strings"

	"github.com/yosssi/gohtml"
)

// inlineLeafRegex matches an attribute-less element whose only content is a
// single line of text. RE2 has no backreferences, so the closing tag is
// captured separately and compared in collapseInline.
var inlineLeafRegex = regexp.MustCompile(`<(\w+)>\s*([^<\n]+?)\s*</(\w+)>`)

// Format serializes doc. Without PrettyFormat the output is the compact
// rendering of the tree. With it, every tag sits on its own line, indented
// with tabs, and CollapseInline folds text-only elements back onto one line.
func Format(doc *Document, cfg *Config) (string, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out, _, err := format(doc, cfg)
	return out, err
}

func format(doc *Document, cfg *Config) (string, int, error) {
	markup, err := doc.HTML()
	if err != nil {
		return "", 0, err
	}
	if !cfg.PrettyFormat {
		return markup, 0, nil
	}

	pretty := TabIndent(gohtml.Format(markup))
	if !cfg.CollapseInline {
		return pretty, 0, nil
	}
	out, collapsed := collapseInline(pretty)
	return out, collapsed, nil
}

// TabIndent rewrites the leading whitespace of every line as tabs. Existing
// tabs are kept and each pair of spaces becomes one tab; a leftover single
// space rounds up. Lines holding only whitespace become empty.
func TabIndent(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		rest := strings.TrimLeft(line, " \t")
		lead := line[:len(line)-len(rest)]
		if lead == "" {
			continue
		}
		if rest == "" {
			lines[i] = ""
			continue
		}
		tabs := strings.Count(lead, "\t")
		spaces := len(lead) - tabs
		tabs += (spaces + 1) / 2
		lines[i] = strings.Repeat("\t", tabs) + rest
	}
	return strings.Join(lines, "\n")
}

// CollapseInlineLeaves rewrites
//
//	<b>
//		hello
//	</b>
//
// as <b>hello</b>. It only fires when the opening and closing tag tokens are
// identical, the opening tag has no attributes, and the content is one line
// of text without markup. Tag tokens are compared literally, so <B> ... </b>
// is left alone.
func CollapseInlineLeaves(s string) string {
	out, _ := collapseInline(s)
	return out
}

func collapseInline(s string) (string, int) {
	matches := inlineLeafRegex.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s, 0
	}

	var sb strings.Builder
	sb.Grow(len(s))
	last, collapsed := 0, 0
	for _, m := range matches {
		open, text, closing := s[m[2]:m[3]], s[m[4]:m[5]], s[m[6]:m[7]]
		if open != closing {
			continue
		}
		sb.WriteString(s[last:m[0]])
		sb.WriteString("<" + open + ">" + strings.TrimSpace(text) + "</" + open + ">")
		last = m[1]
		collapsed++
	}
	sb.WriteString(s[last:])
	return sb.String(), collapsed
}
