package scrub

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

// compact is the config used to inspect the rewritten tree without the
// pretty printer getting in the way.
func compact(cfg Config) *Config {
	cfg.PrettyFormat = false
	cfg.CollapseInline = false
	return &cfg
}

func rewriteHTML(t *testing.T, raw string, cfg *Config) string {
	t.Helper()
	doc, err := Rewrite(raw, cfg)
	if err != nil {
		t.Fatalf("Rewrite() error = %v", err)
	}
	out, err := doc.HTML()
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	return out
}

func TestRewrite(t *testing.T) {
	tests := []struct {
		name   string
		html   string
		config *Config
		want   string
	}{
		{
			name:   "strips attributes",
			html:   `<p class="a" id="b" style="color:red">Hi</p>`,
			config: compact(Config{StripAttributes: true}),
			want:   `<p>Hi</p>`,
		},
		{
			name:   "keeps attributes when not stripping",
			html:   `<p class="a">Hi</p>`,
			config: compact(Config{}),
			want:   `<p class="a">Hi</p>`,
		},
		{
			name:   "unwraps matching tags",
			html:   `<div><p>a<span>b</span>c</p></div>`,
			config: compact(Config{UnwrapTags: []string{"div", "span"}}),
			want:   `<p>abc</p>`,
		},
		{
			name:   "unwraps nested matches",
			html:   `<div><div><div>x</div></div></div>`,
			config: compact(Config{UnwrapTags: []string{"div"}}),
			want:   `x`,
		},
		{
			name:   "empty unwrapped element disappears",
			html:   `<p>a<span></span>b</p>`,
			config: compact(Config{UnwrapTags: []string{"span"}}),
			want:   `<p>ab</p>`,
		},
		{
			name:   "unwrap keeps attributes of other elements",
			html:   `<div id="outer"><p class="c">t</p></div>`,
			config: compact(Config{UnwrapTags: []string{"div"}}),
			want:   `<p class="c">t</p>`,
		},
		{
			name:   "unwrap matches uppercase input",
			html:   `<DIV CLASS="X">y</DIV>`,
			config: compact(Config{UnwrapTags: []string{"div"}}),
			want:   `y`,
		},
		{
			name:   "unwrap preserves sibling positions",
			html:   `<p>1</p><section><p>2</p><p>3</p></section><p>4</p>`,
			config: compact(Config{UnwrapTags: []string{"section"}}),
			want:   `<p>1</p><p>2</p><p>3</p><p>4</p>`,
		},
		{
			name:   "removes comments at any depth",
			html:   `<div><!-- a --><p><!-- b -->x</p></div><!-- c -->`,
			config: compact(Config{RemoveComments: true}),
			want:   `<div><p>x</p></div>`,
		},
		{
			name:   "keeps comments when not removing",
			html:   `<p>x</p><!-- keep -->`,
			config: compact(Config{}),
			want:   `<p>x</p><!-- keep -->`,
		},
		{
			name:   "recovers unclosed tags",
			html:   `<p>unclosed <b>bold`,
			config: compact(Config{}),
			want:   `<p>unclosed <b>bold</b></p>`,
		},
		{
			name:   "all passes together",
			html:   `<div class="x"><span>Hi <b>there</b></span><!-- note --></div>`,
			config: compact(*DefaultConfig()),
			want:   `Hi <b>there</b>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rewriteHTML(t, tt.html, tt.config)
			if got != tt.want {
				t.Errorf("Rewrite() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRewrite_BlankInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t  \n"} {
		_, err := Rewrite(input, DefaultConfig())
		if !errors.Is(err, ErrBlankInput) {
			t.Errorf("Rewrite(%q) error = %v, want ErrBlankInput", input, err)
		}
	}
}

func TestRewrite_InvalidConfig(t *testing.T) {
	_, err := Rewrite("<p>x</p>", &Config{Output: "pdf"})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestRewrite_UnknownTagNamesMatchNothing(t *testing.T) {
	doc, err := Rewrite("<p>x</p>", &Config{UnwrapTags: []string{"not a tag", "<p>", ""}})
	if err != nil {
		t.Fatalf("Rewrite() error = %v", err)
	}
	got, _ := doc.HTML()
	if got != "<p>x</p>" {
		t.Errorf("HTML() = %q, want untouched markup", got)
	}
}

func TestRewrite_NonASCIITagName(t *testing.T) {
	doc, err := Rewrite("<café>x</café><p>y</p>", &Config{UnwrapTags: []string{"café"}})
	if err != nil {
		t.Fatalf("Rewrite() error = %v", err)
	}
	got, _ := doc.HTML()
	if got != "x<p>y</p>" {
		t.Errorf("HTML() = %q, want %q", got, "x<p>y</p>")
	}
}

func TestRewrite_BlankInputBeforeConfig(t *testing.T) {
	_, err := Rewrite("  \n", &Config{Output: "pdf"})
	if !errors.Is(err, ErrBlankInput) {
		t.Errorf("expected ErrBlankInput, got %v", err)
	}
}

func TestRewrite_StripAttributesIdempotent(t *testing.T) {
	cfg := compact(Config{StripAttributes: true})
	input := `<a href="/x" title="t"><img src="a.png" alt="a"><em data-id="1">x</em></a>`

	once := rewriteHTML(t, input, cfg)
	twice := rewriteHTML(t, once, cfg)

	if once != twice {
		t.Errorf("second strip changed output:\nonce:  %q\ntwice: %q", once, twice)
	}
	if strings.Contains(once, "=") {
		t.Errorf("expected no attributes left, got %q", once)
	}
}

func TestRewrite_StripAttributesKeepsStructure(t *testing.T) {
	input := `<ul class="l"><li id="1">a</li><li id="2">b <i lang="x">c</i></li></ul>`
	stripped := rewriteHTML(t, input, compact(Config{StripAttributes: true}))
	want := `<ul><li>a</li><li>b <i>c</i></li></ul>`
	if stripped != want {
		t.Errorf("got %q, want %q", stripped, want)
	}
}

func TestRewrite_UnwrapPreservesText(t *testing.T) {
	inputs := []string{
		`<div><p>a<span>b</span>c</p><span></span>d</div>`,
		`<span><span>nested</span> text</span> tail`,
		`<table><tr><td><span>cell</span></td></tr></table>`,
	}

	for _, input := range inputs {
		before, err := Parse(input)
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		after, err := Rewrite(input, compact(Config{UnwrapTags: []string{"span", "div"}}))
		if err != nil {
			t.Fatalf("Rewrite() error = %v", err)
		}

		if before.Text() != after.Text() {
			t.Errorf("text changed for %q: %q -> %q", input, before.Text(), after.Text())
		}

		for _, tag := range []string{"span", "div"} {
			if after.Selection().Find(tag).Length() != 0 {
				t.Errorf("expected no <%s> left in %q", tag, input)
			}
		}
	}
}

func TestRewrite_UnwrapKeepsOrderOfOtherNodes(t *testing.T) {
	input := `<div><h1>A</h1><span><p>B</p><em>C</em></span><p>D</p></div>`
	doc, err := Rewrite(input, compact(Config{UnwrapTags: []string{"span"}}))
	if err != nil {
		t.Fatalf("Rewrite() error = %v", err)
	}

	var order []string
	walk(doc.Root(), func(n *html.Node) {
		if n.Type == html.ElementNode {
			order = append(order, n.Data)
		}
	})

	want := []string{"div", "h1", "p", "em", "p"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("element order = %v, want %v", order, want)
	}
}

func TestRewrite_RemoveCommentsComplete(t *testing.T) {
	input := `<!-- top --><ul><li><!-- deep --><b><!-- deeper -->x</b></li></ul><p>y<!-- tail --></p>`
	doc, err := Rewrite(input, compact(Config{RemoveComments: true}))
	if err != nil {
		t.Fatalf("Rewrite() error = %v", err)
	}

	walk(doc.Root(), func(n *html.Node) {
		if n.Type == html.CommentNode {
			t.Errorf("comment %q survived", n.Data)
		}
	})
}

func TestParse_FullDocument(t *testing.T) {
	input := `<!DOCTYPE html><html><head><title>T</title></head><body><div class="a">x</div></body></html>`
	doc, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if doc.IsFragment() {
		t.Error("expected a full document")
	}

	out := rewriteHTML(t, input, compact(Config{StripAttributes: true, UnwrapTags: []string{"div"}}))
	for _, s := range []string{"<!DOCTYPE html>", "<title>T</title>", "<body>x</body>"} {
		if !strings.Contains(out, s) {
			t.Errorf("expected output to contain %q, got: %s", s, out)
		}
	}
}

func TestParse_FragmentHasNoWrappers(t *testing.T) {
	doc, err := Parse(`<p>x</p>`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !doc.IsFragment() {
		t.Error("expected a fragment")
	}
	out, err := doc.HTML()
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	for _, s := range []string{"<html>", "<head>", "<body>"} {
		if strings.Contains(out, s) {
			t.Errorf("expected no %s wrapper, got %q", s, out)
		}
	}
}
