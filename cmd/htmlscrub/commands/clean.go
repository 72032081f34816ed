package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/htmlscrub/internal/logger"
	"github.com/jmylchreest/htmlscrub/internal/output"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [file|url|-]",
	Short: "Clean HTML from a file, URL or stdin",
	Long: `Clean HTML and write the result to stdout or a file.

Input is read from the given file, fetched from an http(s) URL, or read
from stdin when no argument (or "-") is given. Blank input is a no-op:
nothing is written and nothing is copied.

Options start from --preset and are overridden by the config file,
HTMLSCRUB_* environment variables and explicit flags, in that order.

Examples:
  htmlscrub clean page.html
  htmlscrub clean --preset aggressive -o clean.html page.html
  htmlscrub clean --pretty=false --stats --stats-format json page.html
  xclip -o | htmlscrub clean --copy`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := bindOptionFlags(viper.GetViper(), cmd); err != nil {
			return err
		}
		return viper.BindPFlag("copy", cmd.Flags().Lookup("copy"))
	},
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	addOptionFlags(cleanCmd)

	flags := cleanCmd.Flags()
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.Bool("copy", false, "copy the result to the system clipboard")
	flags.Bool("stats", false, "print cleaning stats to stderr")
	flags.String("stats-format", "text", "stats format: text, json, jsonl, yaml")
	flags.Bool("stats-compact", false, "print JSON stats on a single line")
	flags.Duration("timeout", 30*time.Second, "fetch timeout for URL input")
}

func runClean(cmd *cobra.Command, args []string) error {
	initLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, format, err := buildConfig(viper.GetViper())
	if err != nil {
		return err
	}
	logger.Debug("effective config",
		"preset", viper.GetString("preset"),
		"strip_attributes", cfg.StripAttributes,
		"unwrap", cfg.UnwrapTags,
		"remove_comments", cfg.RemoveComments,
		"pretty", cfg.PrettyFormat,
		"collapse_inline", cfg.CollapseInline,
		"format", format)

	maxSize, err := parseMaxSize(viper.GetString("max_input_size"))
	if err != nil {
		return err
	}

	statsFormat := output.FormatText
	showStats, _ := cmd.Flags().GetBool("stats")
	if showStats {
		s, _ := cmd.Flags().GetString("stats-format")
		if statsFormat, err = output.ParseFormat(s); err != nil {
			return err
		}
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	content, source, err := readInput(ctx, cmd.InOrStdin(), arg, inputOptions{
		maxSize: maxSize,
		timeout: timeout,
	})
	if err != nil {
		return err
	}

	p := newPipeline(cfg, format, markdownOptions(viper.GetViper())...)
	out, stats, noop, err := p.run(content)
	if err != nil {
		return err
	}
	if noop {
		logger.Info("blank input, nothing to do", "source", source)
		return nil
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if err := writeOutput(cmd.OutOrStdout(), outputPath, out); err != nil {
		return err
	}
	if outputPath != "" {
		logInfo("Wrote %s", outputPath)
	}

	if viper.GetBool("copy") {
		if err := copyOutput(newClipboard(), out); err != nil {
			return err
		}
		logInfo("Copied to clipboard")
	}

	if showStats {
		compact, _ := cmd.Flags().GetBool("stats-compact")
		w, err := output.NewWriter(cmd.ErrOrStderr(), statsFormat, output.WithPretty(!compact))
		if err != nil {
			return err
		}
		if err := w.Write(cleanReport{Source: source, Pipeline: p.Name(), Stats: stats}); err != nil {
			return err
		}
		return w.Close()
	}
	return nil
}
