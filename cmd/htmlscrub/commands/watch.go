package commands

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/htmlscrub/internal/clipboard"
	"github.com/jmylchreest/htmlscrub/internal/logger"
	"github.com/jmylchreest/htmlscrub/internal/output"
	"github.com/jmylchreest/htmlscrub/internal/watch"
	"github.com/jmylchreest/htmlscrub/pkg/cleaner/scrub"
	"github.com/jmylchreest/htmlscrub/pkg/fetcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-clean a file every time it is saved",
	Long: `Watch a file and clean it again whenever it changes.

The result goes to stdout, to --output, and to the clipboard with --copy.
Saves that arrive in quick succession are merged by --debounce. With
--stats, one JSON line per run is written to stderr.

Examples:
  htmlscrub watch draft.html -o draft.clean.html
  htmlscrub watch --copy --pretty=false snippet.html`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := bindOptionFlags(viper.GetViper(), cmd); err != nil {
			return err
		}
		return viper.BindPFlag("copy", cmd.Flags().Lookup("copy"))
	},
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	addOptionFlags(watchCmd)

	flags := watchCmd.Flags()
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.Bool("copy", false, "copy each result to the system clipboard")
	flags.Bool("stats", false, "write one JSON stats line per run to stderr")
	flags.Duration("debounce", 200*time.Millisecond, "quiet period before re-cleaning")
}

// watchRun is one re-clean, reported as a JSON line with --stats.
type watchRun struct {
	Time   time.Time    `json:"time"`
	Source string       `json:"source"`
	NoOp   bool         `json:"no_op"`
	Error  string       `json:"error,omitempty"`
	Stats  *scrub.Stats `json:"stats,omitempty"`
}

func runWatch(cmd *cobra.Command, args []string) error {
	initLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, format, err := buildConfig(viper.GetViper())
	if err != nil {
		return err
	}
	maxSize, err := parseMaxSize(viper.GetString("max_input_size"))
	if err != nil {
		return err
	}

	source := args[0]
	if source == "-" || fetcher.IsURL(source) {
		return fmt.Errorf("%w: %s", errNotAFile, source)
	}
	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath != "" && samePath(source, outputPath) {
		return fmt.Errorf("%w: %s", errOutputIsSource, outputPath)
	}

	debounce, _ := cmd.Flags().GetDuration("debounce")
	w, err := watch.New(source, watch.Options{Debounce: debounce, Logger: logger.With("source", source)})
	if err != nil {
		return err
	}

	var sink clipboard.Sink
	if viper.GetBool("copy") {
		sink = newClipboard()
	}

	var stats output.Writer
	if showStats, _ := cmd.Flags().GetBool("stats"); showStats {
		stats = output.NewJSONLWriter(cmd.ErrOrStderr())
		defer stats.Close()
	}

	p := newPipeline(cfg, format, markdownOptions(viper.GetViper())...)
	action := func() error {
		report := watchRun{Time: time.Now(), Source: source}
		err := recleanOnce(ctx, cmd, p, outputPath, maxSize, sink, &report)
		if err != nil {
			report.Error = err.Error()
		}
		if stats != nil {
			if werr := stats.Write(report); werr != nil {
				logger.Warn("write stats", "error", werr)
			}
		}
		return err
	}

	logInfo("Watching %s (Ctrl+C to stop)", w.Path())
	if err := w.Run(ctx, action); err != nil {
		return err
	}

	s := w.Stats()
	logger.Info("watch finished", "runs", s.Runs, "events", s.Events, "errors", s.Errors, "avg_run_time", s.AvgRunTime)
	return nil
}

// recleanOnce reads, cleans and delivers source once.
func recleanOnce(ctx context.Context, cmd *cobra.Command, p *pipeline, outputPath string, maxSize int64, sink clipboard.Sink, result *watchRun) error {
	source := result.Source
	content, _, err := readInput(ctx, nil, source, inputOptions{maxSize: maxSize})
	if err != nil {
		return err
	}

	out, stats, noop, err := p.run(content)
	result.Stats = stats
	if err != nil {
		return err
	}
	if noop {
		result.NoOp = true
		logger.Debug("blank input, skipped", "source", source)
		return nil
	}

	if err := writeOutput(cmd.OutOrStdout(), outputPath, out); err != nil {
		return err
	}
	if sink != nil {
		if err := copyOutput(sink, out); err != nil {
			return err
		}
	}
	logger.Info("cleaned", "source", source, "bytes", len(out))
	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}
