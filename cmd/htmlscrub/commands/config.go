package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/htmlscrub/internal/output"
	"github.com/jmylchreest/htmlscrub/pkg/cleaner/scrub"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration clean would run with, after applying the
preset, config file, HTMLSCRUB_* environment variables and flags.

Example ~/.htmlscrub.yaml:

  preset: default
  unwrap: [div, span, font]
  pretty: true
  max_input_size: 5MB`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindOptionFlags(viper.GetViper(), cmd)
	},
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)

	addOptionFlags(configCmd)
	configCmd.Flags().StringP("output-format", "f", "yaml", "output format: yaml, json, jsonl, text")
}

// effectiveConfig is what config prints.
type effectiveConfig struct {
	ConfigFile   string        `json:"config_file,omitempty" yaml:"config_file,omitempty"`
	Preset       string        `json:"preset" yaml:"preset"`
	Format       string        `json:"format" yaml:"format"`
	MaxInputSize string        `json:"max_input_size" yaml:"max_input_size"`
	Scrub        *scrub.Config `json:"scrub" yaml:"scrub"`
}

func (c effectiveConfig) String() string {
	var sb strings.Builder
	if c.ConfigFile != "" {
		fmt.Fprintf(&sb, "Config file:      %s\n", c.ConfigFile)
	}
	fmt.Fprintf(&sb, "Preset:           %s\n", c.Preset)
	fmt.Fprintf(&sb, "Format:           %s\n", c.Format)
	fmt.Fprintf(&sb, "Max input size:   %s\n", c.MaxInputSize)
	fmt.Fprintf(&sb, "Strip attributes: %t\n", c.Scrub.StripAttributes)
	fmt.Fprintf(&sb, "Unwrap:           %s\n", strings.Join(c.Scrub.UnwrapTags, ", "))
	fmt.Fprintf(&sb, "Remove comments:  %t\n", c.Scrub.RemoveComments)
	fmt.Fprintf(&sb, "Pretty:           %t\n", c.Scrub.PrettyFormat)
	fmt.Fprintf(&sb, "Collapse inline:  %t", c.Scrub.CollapseInline)
	return sb.String()
}

func runConfig(cmd *cobra.Command, args []string) error {
	initLogger()

	cfg, format, err := buildConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if _, err := parseMaxSize(viper.GetString("max_input_size")); err != nil {
		return err
	}

	f, _ := cmd.Flags().GetString("output-format")
	outFormat, err := output.ParseFormat(f)
	if err != nil {
		return err
	}

	w, err := output.NewWriter(cmd.OutOrStdout(), outFormat)
	if err != nil {
		return err
	}
	if err := w.Write(effectiveConfig{
		ConfigFile:   viper.ConfigFileUsed(),
		Preset:       viper.GetString("preset"),
		Format:       format,
		MaxInputSize: viper.GetString("max_input_size"),
		Scrub:        cfg,
	}); err != nil {
		return err
	}
	return w.Close()
}
