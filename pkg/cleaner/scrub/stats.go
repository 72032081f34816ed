package scrub

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// PhaseStats records what a single rewrite or format pass did.
type PhaseStats struct {
	Name             string         `json:"name" yaml:"name"`
	Enabled          bool           `json:"enabled" yaml:"enabled"`
	ElementsAffected int            `json:"elements_affected" yaml:"elements_affected"`
	Details          map[string]int `json:"details,omitempty" yaml:"details,omitempty"`
	Duration         time.Duration  `json:"duration_ns" yaml:"duration_ns"`
}

// Stats captures metrics about what the cleaner did.
type Stats struct {
	// Size metrics
	InputBytes  int `json:"input_bytes" yaml:"input_bytes"`
	OutputBytes int `json:"output_bytes" yaml:"output_bytes"`

	// Tree edits
	ElementsKept      int            `json:"elements_kept" yaml:"elements_kept"`
	AttributesRemoved int            `json:"attributes_removed" yaml:"attributes_removed"`
	ElementsUnwrapped map[string]int `json:"elements_unwrapped" yaml:"elements_unwrapped"` // tag -> count
	CommentsRemoved   int            `json:"comments_removed" yaml:"comments_removed"`

	// Formatting
	InlineCollapses int `json:"inline_collapses" yaml:"inline_collapses"`

	Phases []*PhaseStats `json:"phases" yaml:"phases"`

	// Timing
	ParseDuration   time.Duration `json:"parse_duration_ns" yaml:"parse_duration_ns"`
	RewriteDuration time.Duration `json:"rewrite_duration_ns" yaml:"rewrite_duration_ns"`
	FormatDuration  time.Duration `json:"format_duration_ns" yaml:"format_duration_ns"`
	TotalDuration   time.Duration `json:"total_duration_ns" yaml:"total_duration_ns"`
}

// NewStats creates a new Stats instance with initialized collections.
func NewStats() *Stats {
	return &Stats{
		ElementsUnwrapped: make(map[string]int),
		Phases:            make([]*PhaseStats, 0, 4),
	}
}

// AddPhase appends a phase record and returns it for the caller to fill in.
func (s *Stats) AddPhase(name string, enabled bool) *PhaseStats {
	phase := &PhaseStats{
		Name:    name,
		Enabled: enabled,
		Details: make(map[string]int),
	}
	s.Phases = append(s.Phases, phase)
	return phase
}

// GetPhase returns the named phase, or nil.
func (s *Stats) GetPhase(name string) *PhaseStats {
	for _, p := range s.Phases {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// ReductionPercent returns the percentage reduction in size.
func (s *Stats) ReductionPercent() float64 {
	if s.InputBytes == 0 {
		return 0
	}
	return float64(s.InputBytes-s.OutputBytes) / float64(s.InputBytes) * 100
}

// TotalUnwrapped returns the number of unwrapped elements across all tags.
func (s *Stats) TotalUnwrapped() int {
	total := 0
	for _, count := range s.ElementsUnwrapped {
		total += count
	}
	return total
}

// RecordUnwrap records count unwrapped elements of tag.
func (s *Stats) RecordUnwrap(tag string, count int) {
	s.ElementsUnwrapped[strings.ToLower(tag)] += count
}

// String returns a human-readable summary of the stats.
func (s *Stats) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Size: %s -> %s (%.1f%% reduction)\n",
		humanize.Bytes(uint64(s.InputBytes)), humanize.Bytes(uint64(s.OutputBytes)), s.ReductionPercent()))

	sb.WriteString(fmt.Sprintf("Elements: %d unwrapped, %d kept\n", s.TotalUnwrapped(), s.ElementsKept))

	if len(s.ElementsUnwrapped) > 0 {
		tags := make([]string, 0, len(s.ElementsUnwrapped))
		for tag := range s.ElementsUnwrapped {
			tags = append(tags, tag)
		}
		sort.Strings(tags)

		parts := make([]string, 0, len(tags))
		for _, tag := range tags {
			parts = append(parts, fmt.Sprintf("%s=%d", tag, s.ElementsUnwrapped[tag]))
		}
		sb.WriteString("Unwrapped by tag: ")
		sb.WriteString(strings.Join(parts, ", "))
		sb.WriteString("\n")
	}

	if s.AttributesRemoved > 0 {
		sb.WriteString(fmt.Sprintf("Attributes removed: %d\n", s.AttributesRemoved))
	}
	if s.CommentsRemoved > 0 {
		sb.WriteString(fmt.Sprintf("Comments removed: %d\n", s.CommentsRemoved))
	}
	if s.InlineCollapses > 0 {
		sb.WriteString(fmt.Sprintf("Inline collapses: %d\n", s.InlineCollapses))
	}

	sb.WriteString(fmt.Sprintf("Timing: parse=%v, rewrite=%v, format=%v, total=%v\n",
		s.ParseDuration.Round(time.Microsecond),
		s.RewriteDuration.Round(time.Microsecond),
		s.FormatDuration.Round(time.Microsecond),
		s.TotalDuration.Round(time.Microsecond)))

	return sb.String()
}

// Warning represents a non-fatal issue encountered during cleaning.
type Warning struct {
	Phase   string `json:"phase" yaml:"phase"`     // "parse", "rewrite", "format"
	Message string `json:"message" yaml:"message"` // Human-readable description
	Context string `json:"context" yaml:"context"` // Underlying error or element
}

// String returns a formatted warning message.
func (w Warning) String() string {
	if w.Context != "" {
		return fmt.Sprintf("[%s] %s (context: %s)", w.Phase, w.Message, w.Context)
	}
	return fmt.Sprintf("[%s] %s", w.Phase, w.Message)
}

// Result contains the output of a cleaning operation.
type Result struct {
	// Content is the cleaned output. On no-op or failure it holds the input.
	Content string `json:"content" yaml:"content"`

	// NoOp is set when the input was blank and nothing was done.
	NoOp bool `json:"no_op" yaml:"no_op"`

	// Stats contains metrics about what was done.
	Stats *Stats `json:"stats" yaml:"stats"`

	// Warnings contains non-fatal issues encountered.
	Warnings []Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Error is set when the input could not be cleaned.
	Error error `json:"-" yaml:"-"`
}

// AddWarning adds a warning to the result.
func (r *Result) AddWarning(phase, message, context string) {
	r.Warnings = append(r.Warnings, Warning{
		Phase:   phase,
		Message: message,
		Context: context,
	})
}

// HasWarnings returns true if any warnings were recorded.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}
