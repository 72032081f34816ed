package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/htmlscrub/internal/clipboard"
	"github.com/jmylchreest/htmlscrub/internal/logger"
	"github.com/jmylchreest/htmlscrub/pkg/cleaner"
	"github.com/jmylchreest/htmlscrub/pkg/cleaner/scrub"
	"github.com/jmylchreest/htmlscrub/pkg/fetcher"
)

var (
	errInputTooLarge  = errors.New("input exceeds --max-input-size")
	errUnknownFormat  = errors.New("unknown output format")
	errOutputIsSource = errors.New("output file is the watched file")
	errNotAFile       = errors.New("watch needs a local file")
)

// Output formats accepted by --format.
const (
	formatHTML     = "html"
	formatText     = "text"
	formatMarkdown = "markdown"
)

// optionFlags maps viper keys to the option flags shared by clean, watch and
// config. Bound per command in PreRunE so the running command's flags win.
var optionFlags = map[string]string{
	"preset":           "preset",
	"strip_attributes": "strip-attributes",
	"unwrap":           "unwrap",
	"remove_comments":  "remove-comments",
	"pretty":           "pretty",
	"collapse_inline":  "collapse-inline",
	"format":           "format",
	"max_input_size":   "max-input-size",

	"markdown_strip_links":  "markdown-strip-links",
	"markdown_strip_images": "markdown-strip-images",
}

// newClipboard is replaced in tests.
var newClipboard = func() clipboard.Sink { return clipboard.NewSystem() }

func addOptionFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.String("preset", "default", "base configuration: "+strings.Join(scrub.PresetNames(), ", "))
	flags.Bool("strip-attributes", true, "remove every attribute from every element")
	flags.String("unwrap", "div,span", "comma separated tags to replace by their children")
	flags.Bool("remove-comments", true, "remove HTML comments")
	flags.Bool("pretty", true, "one tag per line, indented with tabs")
	flags.Bool("collapse-inline", true, "keep text-only elements on one line (with --pretty)")
	flags.String("format", formatHTML, "output format: html, text, markdown")
	flags.String("max-input-size", "10MB", "max input size (e.g., 512KB, 10MB, 0=unlimited)")
	flags.Bool("markdown-strip-links", false, "keep only link text (with --format markdown)")
	flags.Bool("markdown-strip-images", false, "drop images (with --format markdown)")
}

func bindOptionFlags(v *viper.Viper, cmd *cobra.Command) error {
	for key, name := range optionFlags {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind --%s: %w", name, err)
			}
		}
	}
	return nil
}

// buildConfig starts from the selected preset and applies every option that
// was set explicitly by flag, environment or config file.
func buildConfig(v *viper.Viper) (*scrub.Config, string, error) {
	cfg, err := scrub.Preset(v.GetString("preset"))
	if err != nil {
		return nil, "", err
	}

	if v.IsSet("strip_attributes") {
		cfg.StripAttributes = v.GetBool("strip_attributes")
	}
	if v.IsSet("unwrap") {
		cfg.UnwrapTags = tagList(v.Get("unwrap"))
	}
	if v.IsSet("remove_comments") {
		cfg.RemoveComments = v.GetBool("remove_comments")
	}
	if v.IsSet("pretty") {
		cfg.PrettyFormat = v.GetBool("pretty")
	}
	if v.IsSet("collapse_inline") {
		cfg.CollapseInline = v.GetBool("collapse_inline")
	}

	format := strings.ToLower(strings.TrimSpace(v.GetString("format")))
	switch format {
	case "", formatHTML, formatMarkdown:
		if format == "" {
			format = formatHTML
		}
		cfg.Output = scrub.OutputHTML
	case formatText:
		cfg.Output = scrub.OutputText
	default:
		return nil, "", fmt.Errorf("%w: %q", errUnknownFormat, format)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, format, nil
}

// tagList accepts "div,span" from flags and env as well as YAML lists.
func tagList(value any) []string {
	switch v := value.(type) {
	case string:
		return scrub.ParseTagList(v)
	case []string:
		return scrub.ParseTagList(strings.Join(v, ","))
	case []any:
		parts := make([]string, 0, len(v))
		for _, p := range v {
			parts = append(parts, fmt.Sprint(p))
		}
		return scrub.ParseTagList(strings.Join(parts, ","))
	default:
		return nil
	}
}

// parseMaxSize parses a humanized size. Empty or "0" means unlimited.
func parseMaxSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid max-input-size %q: %w", s, err)
	}
	return int64(n), nil
}

// pipeline is the scrub cleaner followed by the output converter.
type pipeline struct {
	scrubber *scrub.Cleaner
	chain    *cleaner.ChainCleaner
}

// markdownOptions reads the markdown stage options from v.
func markdownOptions(v *viper.Viper) []cleaner.MarkdownOption {
	return []cleaner.MarkdownOption{
		cleaner.WithStripLinks(v.GetBool("markdown_strip_links")),
		cleaner.WithStripImages(v.GetBool("markdown_strip_images")),
	}
}

func newPipeline(cfg *scrub.Config, format string, mdOpts ...cleaner.MarkdownOption) *pipeline {
	scrubber := scrub.New(cfg)
	var tail cleaner.Cleaner = cleaner.NewNoop()
	if format == formatMarkdown {
		tail = cleaner.NewMarkdown(mdOpts...)
	}
	return &pipeline{
		scrubber: scrubber,
		chain:    cleaner.NewChain(scrubber, tail),
	}
}

// run cleans content. Blank input reports noop and produces nothing.
func (p *pipeline) run(content string) (out string, stats *scrub.Stats, noop bool, err error) {
	if strings.TrimSpace(content) == "" {
		return "", nil, true, nil
	}
	out, err = p.chain.Clean(content)
	if err != nil {
		return "", p.scrubber.Stats(), false, err
	}
	return out, p.scrubber.Stats(), false, nil
}

// Name returns the pipeline description used in reports.
func (p *pipeline) Name() string {
	return p.chain.Name()
}

type inputOptions struct {
	maxSize int64
	timeout time.Duration
}

// readInput loads HTML from stdin ("" or "-"), an http(s) URL or a file.
func readInput(ctx context.Context, stdin io.Reader, arg string, opts inputOptions) (string, string, error) {
	switch {
	case arg == "" || arg == "-":
		logger.Debug("reading stdin")
		data, err := readLimited(stdin, opts.maxSize)
		if err != nil {
			return "", "stdin", err
		}
		return string(data), "stdin", nil

	case fetcher.IsURL(arg):
		f := fetcher.NewStatic(fetcher.StaticConfig{Timeout: opts.timeout})
		defer f.Close()
		fopts := fetcher.Options{}
		if opts.maxSize > 0 {
			fopts.MaxBodySize = int(opts.maxSize) + 1
		}
		content, err := f.Fetch(ctx, arg, fopts)
		if err != nil {
			return "", arg, err
		}
		if opts.maxSize > 0 && int64(len(content.HTML)) > opts.maxSize {
			return "", arg, fmt.Errorf("%w: %s", errInputTooLarge, humanize.Bytes(uint64(opts.maxSize)))
		}
		return content.HTML, arg, nil

	default:
		fh, err := os.Open(arg)
		if err != nil {
			return "", arg, err
		}
		defer fh.Close()
		data, err := readLimited(fh, opts.maxSize)
		if err != nil {
			return "", arg, fmt.Errorf("%s: %w", arg, err)
		}
		return string(data), arg, nil
	}
}

func readLimited(r io.Reader, maxSize int64) ([]byte, error) {
	if maxSize <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("%w: %s", errInputTooLarge, humanize.Bytes(uint64(maxSize)))
	}
	return data, nil
}

// writeOutput writes content to path, or to w when path is empty.
func writeOutput(w io.Writer, path, content string) error {
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if path == "" {
		_, err := io.WriteString(w, content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// copyOutput replaces the clipboard content with the cleaned output.
func copyOutput(sink clipboard.Sink, content string) error {
	if sys, ok := sink.(*clipboard.System); ok {
		logger.Debug("system clipboard", "available", sys.Available())
	}
	if err := sink.Write(content); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	logger.Debug("copied to clipboard", "bytes", len(content))
	return nil
}

// cleanReport is the --stats payload.
type cleanReport struct {
	Source   string       `json:"source" yaml:"source"`
	Pipeline string       `json:"pipeline" yaml:"pipeline"`
	Stats    *scrub.Stats `json:"stats" yaml:"stats"`
}

func (r cleanReport) String() string {
	return fmt.Sprintf("Source: %s\nPipeline: %s\n%s", r.Source, r.Pipeline, r.Stats)
}
