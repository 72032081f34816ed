package scrub

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.StripAttributes || !cfg.RemoveComments || !cfg.PrettyFormat || !cfg.CollapseInline {
		t.Errorf("expected all passes enabled, got %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.UnwrapTags, []string{"div", "span"}) {
		t.Errorf("UnwrapTags = %v", cfg.UnwrapTags)
	}
	if cfg.Output != OutputHTML {
		t.Errorf("Output = %q, want html", cfg.Output)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestPreset(t *testing.T) {
	tests := []struct {
		name       string
		wantUnwrap []string
		wantPretty bool
	}{
		{"", []string{"div", "span"}, true},
		{"default", []string{"div", "span"}, true},
		{"Minimal", nil, false},
		{" aggressive ", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Preset(tt.name)
			if err != nil {
				t.Fatalf("Preset(%q) error = %v", tt.name, err)
			}
			if cfg.PrettyFormat != tt.wantPretty {
				t.Errorf("PrettyFormat = %v, want %v", cfg.PrettyFormat, tt.wantPretty)
			}
			if tt.wantUnwrap != nil && !reflect.DeepEqual(cfg.UnwrapTags, tt.wantUnwrap) {
				t.Errorf("UnwrapTags = %v, want %v", cfg.UnwrapTags, tt.wantUnwrap)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("preset should validate: %v", err)
			}
		})
	}
}

func TestPreset_Unknown(t *testing.T) {
	_, err := Preset("nuclear")
	if !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestPresetAggressive_ExtendsDefault(t *testing.T) {
	cfg := PresetAggressive()
	set := cfg.unwrapSet()
	for _, tag := range []string{"div", "span", "font", "center", "section"} {
		if !set[tag] {
			t.Errorf("expected %q in aggressive unwrap set", tag)
		}
	}

	// Building the aggressive preset must not leak into the default one.
	if len(DefaultConfig().UnwrapTags) != 2 {
		t.Errorf("DefaultConfig() modified: %v", DefaultConfig().UnwrapTags)
	}
}

func TestParseTagList(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"div,span", []string{"div", "span"}},
		{" DIV, span,, div ,", []string{"div", "span"}},
		{"font", []string{"font"}},
		{"", nil},
		{" , ,", nil},
	}

	for _, tt := range tests {
		got := ParseTagList(tt.input)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseTagList(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestConfig_Clone(t *testing.T) {
	orig := DefaultConfig()
	clone := orig.Clone()

	clone.UnwrapTags[0] = "p"
	clone.PrettyFormat = false

	if orig.UnwrapTags[0] != "div" {
		t.Error("Clone() shares the UnwrapTags slice")
	}
	if !orig.PrettyFormat {
		t.Error("Clone() shares scalar fields")
	}

	var nilCfg *Config
	if nilCfg.Clone() != nil {
		t.Error("Clone() of nil should be nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"empty", Config{}, false},
		{"text output", Config{Output: OutputText}, false},
		{"custom element", Config{UnwrapTags: []string{"my-widget", "o:p"}}, false},
		{"uppercase tag", Config{UnwrapTags: []string{"DIV"}}, false},
		{"unknown output", Config{Output: "pdf"}, true},
		{"non-ascii tag", Config{UnwrapTags: []string{"café"}}, false},
		{"tag with space", Config{UnwrapTags: []string{"di v"}}, false},
		{"empty tag", Config{UnwrapTags: []string{""}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestConfig_ValidateMessage(t *testing.T) {
	err := (&Config{Output: "pdf"}).Validate()
	if err == nil {
		t.Fatal("expected an error")
	}
	if got := err.Error(); !strings.Contains(got, `Output "pdf"`) || !strings.Contains(got, "html, text") {
		t.Errorf("Validate() error = %q", got)
	}
}
