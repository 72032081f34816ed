// Package scrub normalizes HTML fragments: it strips attributes, unwraps
// wrapper tags and drops comments on a parsed tree, then re-serializes the
// result either compactly or as tab-indented markup with text-only elements
// kept on one line.
package scrub

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// OutputFormat specifies the output format of the cleaner.
type OutputFormat string

const (
	OutputHTML OutputFormat = "html"
	OutputText OutputFormat = "text"
)

var (
	// ErrUnknownPreset is returned by Preset for names it does not know.
	ErrUnknownPreset = errors.New("unknown preset")
	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("invalid config")
)

// Config controls a single clean operation. It is read-only once handed to
// New, Rewrite or Format.
type Config struct {
	// StripAttributes removes every attribute from every element.
	StripAttributes bool `json:"strip_attributes" yaml:"strip_attributes"`

	// UnwrapTags lists lowercase tag names whose elements are replaced by
	// their children. Duplicates are ignored and names that match no
	// element do nothing.
	UnwrapTags []string `json:"unwrap_tags" yaml:"unwrap_tags"`

	// RemoveComments deletes HTML comments at any depth.
	RemoveComments bool `json:"remove_comments" yaml:"remove_comments"`

	// PrettyFormat emits one tag per line, indented with tabs.
	PrettyFormat bool `json:"pretty_format" yaml:"pretty_format"`

	// CollapseInline puts attribute-less, text-only elements back on one
	// line. Only used when PrettyFormat is set.
	CollapseInline bool `json:"collapse_inline" yaml:"collapse_inline"`

	// Output selects html or plain text output.
	Output OutputFormat `json:"output" yaml:"output" validate:"omitempty,oneof=html text"`
}

// DefaultConfig returns the configuration the CLI starts from.
func DefaultConfig() *Config {
	return &Config{
		StripAttributes: true,
		UnwrapTags:      []string{"div", "span"},
		RemoveComments:  true,
		PrettyFormat:    true,
		CollapseInline:  true,
		Output:          OutputHTML,
	}
}

// PresetMinimal only drops comments and keeps the compact serialization.
// Use it when the markup should survive almost untouched.
func PresetMinimal() *Config {
	return &Config{
		RemoveComments: true,
		Output:         OutputHTML,
	}
}

// PresetAggressive extends the defaults with the layout and presentational
// wrappers commonly pasted in from CMS editors and word processors.
func PresetAggressive() *Config {
	cfg := DefaultConfig()
	cfg.UnwrapTags = append(cfg.UnwrapTags,
		"font",
		"center",
		"section",
		"article",
		"header",
		"footer",
		"main",
		"small",
		"big",
		"u",
	)
	return cfg
}

// PresetNames lists the names accepted by Preset.
func PresetNames() []string {
	return []string{"default", "minimal", "aggressive"}
}

// Preset returns a fresh copy of the named preset. An empty name selects the
// default preset.
func Preset(name string) (*Config, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return DefaultConfig(), nil
	case "minimal":
		return PresetMinimal(), nil
	case "aggressive":
		return PresetAggressive(), nil
	default:
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownPreset, name, strings.Join(PresetNames(), ", "))
	}
}

// ParseTagList turns a comma separated list such as " DIV, span,," into
// normalized tag names. Entries are trimmed and lowercased, empty entries are
// dropped and the first occurrence of a name wins.
func ParseTagList(s string) []string {
	var tags []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	if c.UnwrapTags != nil {
		clone.UnwrapTags = append([]string(nil), c.UnwrapTags...)
	}
	return &clone
}

// configValidator is safe for concurrent use and caches struct metadata.
var configValidator = validator.New()

// Validate reports configuration values the pipeline cannot honour. Unwrap
// tag names are not checked: a name the parser never produces matches no
// element.
func (c *Config) Validate() error {
	err := configValidator.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	e := fieldErrs[0]
	return fmt.Errorf("%w: %s %q %s", ErrInvalidConfig, e.Field(), fmt.Sprint(e.Value()), describeFieldError(e))
}

// describeFieldError creates a human-readable message for a failed rule.
func describeFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(e.Param(), " ", ", ")
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}

// unwrapSet returns the normalized unwrap tag names as a set.
func (c *Config) unwrapSet() map[string]bool {
	set := make(map[string]bool, len(c.UnwrapTags))
	for _, tag := range c.UnwrapTags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			set[tag] = true
		}
	}
	return set
}
