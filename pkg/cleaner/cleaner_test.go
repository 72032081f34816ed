package cleaner

import (
	"errors"
	"strings"
	"testing"

	"github.com/jmylchreest/htmlscrub/pkg/cleaner/scrub"
)

// --- NoopCleaner Tests ---

func TestNoopCleaner_Clean(t *testing.T) {
	c := NewNoop()

	tests := []struct {
		name  string
		input string
	}{
		{"empty_string", ""},
		{"plain_text", "Hello, World!"},
		{"html_content", "<p><b>Title</b></p>"},
		{"whitespace", "  \n\t  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Clean(tt.input)
			if err != nil {
				t.Errorf("Clean() error = %v, want nil", err)
			}
			if got != tt.input {
				t.Errorf("Clean() = %q, want %q", got, tt.input)
			}
		})
	}
}

func TestNoopCleaner_Name(t *testing.T) {
	if got := NewNoop().Name(); got != "noop" {
		t.Errorf("Name() = %q, want %q", got, "noop")
	}
}

// --- ChainCleaner Tests ---

func TestChainCleaner_Empty(t *testing.T) {
	input := "unchanged content"
	got, err := NewChain().Clean(input)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if got != input {
		t.Errorf("Clean() = %q, want %q", got, input)
	}
}

func TestChainCleaner_ScrubThenMarkdown(t *testing.T) {
	c := NewChain(scrub.New(scrub.DefaultConfig()), NewMarkdown())

	html := `<div class="post"><h1 id="t">Title</h1><span><p>Some <b>bold</b> text</p></span><!-- x --></div>`
	got, err := c.Clean(html)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	for _, want := range []string{"# Title", "**bold**", "text"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output, got %q", want, got)
		}
	}
	if strings.Contains(got, "<") {
		t.Errorf("expected no markup left, got %q", got)
	}
}

func TestChainCleaner_ScrubThenNoop(t *testing.T) {
	cfg := scrub.DefaultConfig()
	cfg.PrettyFormat = false

	got, err := NewChain(scrub.New(cfg), NewNoop()).Clean(`<div><p class="a">x</p></div>`)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if got != "<p>x</p>" {
		t.Errorf("Clean() = %q, want %q", got, "<p>x</p>")
	}
}

// errorCleaner is a test cleaner that always returns an error
type errorCleaner struct{}

func (c *errorCleaner) Clean(html string) (string, error) {
	return "", errors.New("test error")
}

func (c *errorCleaner) Name() string {
	return "error"
}

func TestChainCleaner_ErrorPropagation(t *testing.T) {
	c := NewChain(NewNoop(), &errorCleaner{}, NewMarkdown())

	_, err := c.Clean("test")
	if err == nil {
		t.Fatal("expected error to propagate")
	}
	if !strings.Contains(err.Error(), "error: test error") {
		t.Errorf("expected error prefixed with cleaner name, got %v", err)
	}
}

func TestChainCleaner_ScrubErrorIsWrapped(t *testing.T) {
	c := NewChain(scrub.New(&scrub.Config{Output: "pdf"}), NewNoop())

	_, err := c.Clean("<p>x</p>")
	if !errors.Is(err, scrub.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig through the chain, got %v", err)
	}
}

func TestChainCleaner_Name(t *testing.T) {
	tests := []struct {
		name     string
		cleaners []Cleaner
		want     string
	}{
		{"empty", []Cleaner{}, "chain()"},
		{"single", []Cleaner{NewNoop()}, "chain(noop)"},
		{"pipeline", []Cleaner{scrub.New(nil), NewMarkdown()}, "chain(scrub->markdown)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChain(tt.cleaners...)
			if got := c.Name(); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
		})
	}
}

// --- Option Tests ---

func TestMarkdownOptions(t *testing.T) {
	c := NewMarkdown(WithStripLinks(true), WithStripImages(true))
	if !c.config.StripLinks || !c.config.StripImages {
		t.Errorf("options not applied: %+v", c.config)
	}

	WithStripLinks(false)(&c.config)
	if c.config.StripLinks {
		t.Error("WithStripLinks(false) did not unset StripLinks")
	}
}
