// Package commands implements the CLI commands for htmlscrub.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/htmlscrub/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "htmlscrub",
	Short: "Normalize pasted HTML into clean, readable markup",
	Long: `htmlscrub strips attributes, unwraps layout wrappers such as div and
span, removes comments and re-indents the result with tabs, keeping
text-only elements on one line.

Examples:
  # Clean a file and print the result
  htmlscrub clean page.html

  # Clean from stdin and copy the result to the clipboard
  pbpaste | htmlscrub clean --copy

  # Keep attributes, only unwrap font tags
  htmlscrub clean --strip-attributes=false --unwrap font page.html

  # Convert a remote page to markdown
  htmlscrub clean --format markdown https://example.com/post

  # Re-clean on every save
  htmlscrub watch draft.html -o draft.clean.html`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.htmlscrub.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only log errors")
	rootCmd.PersistentFlags().Bool("log-json", false, "log as JSON")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("log_json", rootCmd.PersistentFlags().Lookup("log-json"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".htmlscrub")
		viper.SetConfigType("yaml")
	}

	// HTMLSCRUB_STRIP_ATTRIBUTES=false etc.
	viper.SetEnvPrefix("HTMLSCRUB")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// initLogger configures the process logger from the global flags.
func initLogger() {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
		JSON:  viper.GetBool("log_json"),
	})
	if f := viper.ConfigFileUsed(); f != "" {
		logger.Debug("using config file", "path", f)
	}
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		logError("%v", err)
	}
	return err
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// logInfo prints an info message to stderr (unless quiet mode).
func logInfo(format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
