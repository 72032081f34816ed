package commands

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/htmlscrub/pkg/cleaner"
	"github.com/jmylchreest/htmlscrub/pkg/cleaner/scrub"
)

var compareCmd = &cobra.Command{
	Use:   "compare [file|url|-]",
	Short: "Compare the presets on the same input",
	Long: `Run every preset, and each preset followed by markdown conversion,
over the same input and print output size, reduction and timing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().String("max-input-size", "10MB", "max input size (e.g., 512KB, 10MB, 0=unlimited)")
	compareCmd.Flags().Duration("timeout", 30*time.Second, "fetch timeout for URL input")
}

type comparison struct {
	name    string
	cleaner cleaner.Cleaner
}

func comparisons() []comparison {
	var list []comparison
	for _, name := range scrub.PresetNames() {
		cfg, _ := scrub.Preset(name)
		list = append(list, comparison{name, scrub.New(cfg)})
	}
	for _, name := range scrub.PresetNames() {
		cfg, _ := scrub.Preset(name)
		list = append(list, comparison{name + " -> markdown", cleaner.NewChain(scrub.New(cfg), cleaner.NewMarkdown())})
	}
	return list
}

func runCompare(cmd *cobra.Command, args []string) error {
	initLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sizeFlag, _ := cmd.Flags().GetString("max-input-size")
	maxSize, err := parseMaxSize(sizeFlag)
	if err != nil {
		return err
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")

	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	html, _, err := readInput(ctx, cmd.InOrStdin(), arg, inputOptions{maxSize: maxSize, timeout: timeout})
	if err != nil {
		return err
	}

	return writeComparison(cmd.OutOrStdout(), html, comparisons())
}

// writeComparison prints one row per cleaner. A failing cleaner gets an
// ERROR row; the remaining rows are still printed.
func writeComparison(w io.Writer, html string, list []comparison) error {
	if _, err := fmt.Fprintf(w, "Input: %s\n\n", humanize.Bytes(uint64(len(html)))); err != nil {
		return err
	}
	fmt.Fprintf(w, "%-25s %10s %8s %10s\n", "Cleaner", "Output", "Reduce%", "Time")
	fmt.Fprintf(w, "%-25s %10s %8s %10s\n", "-------", "------", "-------", "----")

	for _, c := range list {
		start := time.Now()
		out, err := c.cleaner.Clean(html)
		duration := time.Since(start)

		if err != nil {
			fmt.Fprintf(w, "%-25s %10s %8s %10v (error: %v)\n",
				c.name, "ERROR", "-", duration.Round(time.Microsecond), err)
			continue
		}

		reduction := 0.0
		if len(html) > 0 {
			reduction = float64(len(html)-len(out)) / float64(len(html)) * 100
		}
		fmt.Fprintf(w, "%-25s %10s %7.1f%% %10v\n",
			c.name, humanize.Bytes(uint64(len(out))), reduction, duration.Round(time.Microsecond))
	}
	return nil
}
