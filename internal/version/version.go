// Package version provides build-time version information for htmlscrub.
//
// Variables in this package are set at build time using ldflags:
//
//	go build -ldflags "-X github.com/jmylchreest/htmlscrub/internal/version.Version=1.0.0 ..."
//
// For library consumers, the module version is determined by the go.mod
// and git tags (e.g., v1.0.0). This package exposes CLI build metadata.
package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/jmylchreest/htmlscrub/pkg/cleaner/scrub"
)

// Build-time variables set via ldflags
var (
	// Version is the semantic version (e.g., "1.0.0" or "1.0.0-dev.5+abc123")
	Version = "dev"

	// Commit is the git commit SHA
	Commit = "unknown"

	// Dirty indicates if the working tree had uncommitted changes
	Dirty = "false"

	// BuildDate is the UTC build timestamp in RFC3339 format
	BuildDate = "unknown"
)

// Info describes the binary and the cleaning defaults compiled into it.
type Info struct {
	Version   string   `json:"version" yaml:"version"`
	Commit    string   `json:"commit" yaml:"commit"`
	Dirty     bool     `json:"dirty" yaml:"dirty"`
	BuildDate string   `json:"build_date" yaml:"build_date"`
	GoVersion string   `json:"go_version" yaml:"go_version"`
	Platform  string   `json:"platform" yaml:"platform"`
	Defaults  Defaults `json:"defaults" yaml:"defaults"`
}

// Defaults are the scrub settings a bare "htmlscrub clean" runs with.
type Defaults struct {
	Presets        []string `json:"presets" yaml:"presets"`
	UnwrapTags     []string `json:"unwrap_tags" yaml:"unwrap_tags"`
	PrettyFormat   bool     `json:"pretty_format" yaml:"pretty_format"`
	CollapseInline bool     `json:"collapse_inline" yaml:"collapse_inline"`
}

// Get returns the current version information
func Get() Info {
	cfg := scrub.DefaultConfig()
	return Info{
		Version:   Version,
		Commit:    Commit,
		Dirty:     Dirty == "true",
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Defaults: Defaults{
			Presets:        scrub.PresetNames(),
			UnwrapTags:     cfg.UnwrapTags,
			PrettyFormat:   cfg.PrettyFormat,
			CollapseInline: cfg.CollapseInline,
		},
	}
}

// String returns a single-line version string
func String() string {
	if Dirty == "true" {
		return Version + "-dirty"
	}
	return Version
}

// Full returns a multi-line report of Get.
func Full() string {
	info := Get()
	rows := [][2]string{
		{"Commit", info.Commit},
		{"Built", info.BuildDate},
		{"Go version", info.GoVersion},
		{"OS/Arch", info.Platform},
		{"Presets", strings.Join(info.Defaults.Presets, ", ")},
		{"Unwraps", strings.Join(info.Defaults.UnwrapTags, ", ")},
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "htmlscrub %s", String())
	for _, row := range rows {
		fmt.Fprintf(&sb, "\n  %-11s %s", row[0]+":", row[1])
	}
	return sb.String()
}
