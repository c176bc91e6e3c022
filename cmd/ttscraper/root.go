package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"ttscraper/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	quiet      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ttscraper",
	Short: "Fetch TikTok posts for hashtags via the Apify platform",
	Long: `ttscraper collects TikTok posts tagged with given hashtags by running a
hosted scraping actor on the Apify platform and saving the results as JSON.

Features:
  - Secure API token storage using the system keychain
  - Hashtag normalization and deduplication
  - Atomic result files that are never left half-written
  - Offline report generation with HTML charts
  - Optional Prometheus metrics during a run

An Apify API token is required. Store one with 'ttscraper auth login' or
set the APIFY_API_TOKEN environment variable.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet || logLevel == "error" {
			ui.SetQuietMode(true)
		}

		// Don't show the banner for certain commands
		if cmd.Name() != "version" && cmd.Name() != "help" && cmd.Name() != "completion" {
			ui.PrintBanner()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.ttscraper.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors and the result line")

	// Version template
	rootCmd.SetVersionTemplate(`ttscraper {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
