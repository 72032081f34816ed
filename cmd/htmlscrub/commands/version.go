package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/htmlscrub/internal/output"
	"github.com/jmylchreest/htmlscrub/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		if !asJSON {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Full())
			return err
		}
		w := output.NewJSONWriter(cmd.OutOrStdout(), true, "  ")
		if err := w.Write(version.Get()); err != nil {
			return err
		}
		return w.Close()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("json", false, "print as JSON")
	rootCmd.Version = version.String()
}
