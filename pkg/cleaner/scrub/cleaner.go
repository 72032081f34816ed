package scrub

import (
	"errors"
	"strings"
	"time"

	"github.com/jmylchreest/htmlscrub/internal/logger"
)

// Cleaner runs the full scrub pipeline: parse, rewrite, format.
// It implements the cleaner.Cleaner interface.
type Cleaner struct {
	config *Config
	stats  *Stats
}

// New creates a new Cleaner with the given configuration.
// If config is nil, DefaultConfig() is used.
func New(config *Config) *Cleaner {
	if config == nil {
		config = DefaultConfig()
	}
	return &Cleaner{
		config: config,
	}
}

// Name returns the cleaner name for logging.
func (c *Cleaner) Name() string {
	return "scrub"
}

// Config returns the configuration the cleaner runs with.
func (c *Cleaner) Config() *Config {
	return c.config
}

// Clean transforms HTML content according to the configuration.
// Blank input is returned unchanged. On failure the error is returned
// together with the original input.
func (c *Cleaner) Clean(html string) (string, error) {
	result := c.CleanWithStats(html)
	return result.Content, result.Error
}

// CleanWithStats performs cleaning and returns detailed stats.
func (c *Cleaner) CleanWithStats(html string) *Result {
	startTime := time.Now()
	result := &Result{
		Stats: NewStats(),
	}
	result.Stats.InputBytes = len(html)
	defer func() {
		result.Stats.TotalDuration = time.Since(startTime)
		c.stats = result.Stats
	}()

	// Blank input is a no-op whatever the configuration says.
	if strings.TrimSpace(html) == "" {
		logger.Debug("blank input, nothing to clean")
		result.Content = html
		result.NoOp = true
		result.Stats.OutputBytes = len(html)
		return result
	}

	if err := c.config.Validate(); err != nil {
		return c.fail(result, html, "config", "invalid configuration", err)
	}

	// Parse HTML
	parseStart := time.Now()
	doc, err := Parse(html)
	result.Stats.ParseDuration = time.Since(parseStart)
	if err != nil {
		if errors.Is(err, ErrBlankInput) {
			result.Content = html
			result.NoOp = true
			result.Stats.OutputBytes = len(html)
			return result
		}
		return c.fail(result, html, "parse", "HTML parse failed, returning original", err)
	}

	// Rewrite
	rewriteStart := time.Now()
	rewrite(doc, c.config, result.Stats)
	result.Stats.RewriteDuration = time.Since(rewriteStart)

	// Generate output
	formatStart := time.Now()
	output, err := c.generateOutput(doc, result)
	result.Stats.FormatDuration = time.Since(formatStart)
	if err != nil {
		return c.fail(result, html, "format", "output generation failed, returning original", err)
	}

	result.Content = output
	result.Stats.OutputBytes = len(output)

	logger.Debug("clean complete",
		"input_bytes", result.Stats.InputBytes,
		"output_bytes", result.Stats.OutputBytes,
		"unwrapped", result.Stats.TotalUnwrapped(),
		"comments_removed", result.Stats.CommentsRemoved)

	return result
}

// Stats returns the stats from the last Clean operation.
func (c *Cleaner) Stats() *Stats {
	return c.stats
}

// fail records err on result and falls back to the original content.
func (c *Cleaner) fail(result *Result, original, phase, message string, err error) *Result {
	logger.Debug("clean failed", "phase", phase, "error", err)
	result.Content = original
	result.Error = err
	result.AddWarning(phase, message, err.Error())
	result.Stats.OutputBytes = len(original)
	return result
}

// generateOutput produces the final output in the configured format.
func (c *Cleaner) generateOutput(doc *Document, result *Result) (string, error) {
	if c.config.Output == OutputText {
		return c.textOutput(doc), nil
	}

	phase := result.Stats.AddPhase("collapse", c.config.PrettyFormat && c.config.CollapseInline)
	output, collapsed, err := format(doc, c.config)
	if err != nil {
		return "", err
	}
	phase.ElementsAffected = collapsed
	result.Stats.InlineCollapses = collapsed
	return output, nil
}
