package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"ttscraper/pkg/auth"
	"ttscraper/pkg/config"
	"ttscraper/pkg/logger"
	"ttscraper/pkg/scrape"
	"ttscraper/pkg/ui"
)

var (
	// Scrape command flags
	hashtags       []string
	resultsPerPage int
	outputFile     string
	outputDir      string
	tokenFlag      string
	sinceDate      string
	pollInterval   time.Duration
	maxWait        time.Duration
	actorID        string
	accountLabel   string
	metricsAddr    string
	pretty         bool
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape [hashtags...]",
	Short: "Fetch TikTok posts for the given hashtags",
	Long: `Fetch TikTok posts tagged with the given hashtags and write them to a
JSON file.

Hashtags can be passed as positional arguments, repeated -t flags, or one
comma-separated -t value; leading '#' characters and case differences are
normalized away and duplicates are dropped.

This command requires an Apify API token, resolved in order from:
  - The --token flag
  - The APIFY_API_TOKEN environment variable (a .env file is auto-loaded)
  - The local token store (use 'ttscraper auth login' to fill it)

The actor run is submitted once and polled until it reaches a terminal
state; no step is retried. Zero matching posts is a valid result and
produces an empty JSON array.`,
	Example: `  # Scrape three hashtags with default settings
  ttscraper scrape funny cats dogs

  # Comma-separated flag form with more results per page
  ttscraper scrape -t funny,cats -n 25

  # Write to a specific file without pretty-printing
  ttscraper scrape funny --output funny.json --pretty=false

  # Only posts published on or after a date
  ttscraper scrape funny --since 2025-01-01

  # Use a specific stored token and expose metrics during the run
  ttscraper scrape funny --account work --metrics-addr :9120`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runScrape(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	// Local flags for scrape command
	scrapeCmd.Flags().StringSliceVarP(&hashtags, "hashtags", "t", nil, "hashtags to scrape (repeatable or comma-separated)")
	scrapeCmd.Flags().IntVarP(&resultsPerPage, "results-per-page", "n", 10, "results per hashtag page (1-50)")
	scrapeCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file path (default: timestamped name in the output directory)")
	scrapeCmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for result files (default: current directory)")
	scrapeCmd.Flags().StringVar(&tokenFlag, "token", "", "Apify API token (overrides environment and stored tokens)")
	scrapeCmd.Flags().StringVar(&sinceDate, "since", "", "only include posts on or after this date (YYYY-MM-DD)")
	scrapeCmd.Flags().DurationVar(&pollInterval, "poll-interval", 3*time.Second, "how often to poll the actor run")
	scrapeCmd.Flags().DurationVar(&maxWait, "max-wait", 5*time.Minute, "how long to wait for the actor run before giving up")
	scrapeCmd.Flags().StringVar(&actorID, "actor", "", "override the scraper actor ID")
	scrapeCmd.Flags().StringVarP(&accountLabel, "account", "a", "", "use a specific stored token")
	scrapeCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address during the run")
	scrapeCmd.Flags().BoolVar(&pretty, "pretty", true, "indent the result file")

	// Also add these flags to root command so bare invocations work
	rootCmd.Flags().StringSliceVarP(&hashtags, "hashtags", "t", nil, "hashtags to scrape (repeatable or comma-separated)")
	rootCmd.Flags().IntVarP(&resultsPerPage, "results-per-page", "n", 10, "results per hashtag page (1-50)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file path (default: timestamped name in the output directory)")
	rootCmd.Flags().StringVar(&tokenFlag, "token", "", "Apify API token (overrides environment and stored tokens)")
	rootCmd.Flags().StringVar(&sinceDate, "since", "", "only include posts on or after this date (YYYY-MM-DD)")
	rootCmd.Flags().StringVarP(&accountLabel, "account", "a", "", "use a specific stored token")
}

func runScrape(cmd *cobra.Command, args []string) {
	// Flag values first, positional arguments after, normalization later
	rawTags := append(append([]string{}, hashtags...), args...)
	if len(rawTags) == 0 {
		ui.PrintError("No hashtags provided", "pass them as arguments or with --hashtags")
		os.Exit(1)
	}

	ui.PrintInfo("Target hashtags", strings.Join(rawTags, ", "))

	// Build flags map from command line
	flags := make(map[string]interface{})
	if tokenFlag != "" {
		flags["token"] = tokenFlag
	}
	if actorID != "" {
		flags["actor"] = actorID
	}
	if resultsPerPage != 10 {
		flags["results-per-page"] = resultsPerPage
	}
	if sinceDate != "" {
		flags["since"] = sinceDate
	}
	if pollInterval != 3*time.Second {
		flags["poll-interval"] = pollInterval
	}
	if maxWait != 5*time.Minute {
		flags["max-wait"] = maxWait
	}
	if outputFile != "" {
		flags["output"] = outputFile
	}
	if outputDir != "" {
		flags["output-dir"] = outputDir
	}
	if !pretty {
		flags["pretty"] = false
	}
	if metricsAddr != "" {
		flags["metrics-addr"] = metricsAddr
	}
	// Pass log level to config
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	// Load configuration
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logging", err.Error())
		os.Exit(1)
	}
	logger.WithField("version", version).Info("ttscraper starting")

	// Resolve the token from the local store when the flag and environment
	// left it empty, or when a specific stored token was requested
	if accountLabel != "" {
		mgr, err := auth.NewManager()
		if err != nil {
			ui.PrintError("Failed to open token store", err.Error())
			os.Exit(1)
		}
		cred, err := mgr.Retrieve(accountLabel)
		if err != nil {
			ui.PrintError("Stored token not found", accountLabel)
			ui.PrintInfo("Stored tokens", "Use 'ttscraper auth list' to see what is available")
			os.Exit(1)
		}
		cfg.Apify.Token = cred.Token
		logger.WithField("label", cred.Label).Info("Using stored token")
		ui.PrintInfo("Using stored token", cred.Label)
	} else if cfg.Apify.Token == "" {
		if mgr, err := auth.NewManager(); err == nil {
			if cred, err := mgr.RetrieveDefault(); err == nil {
				cfg.Apify.Token = cred.Token
				logger.WithField("label", cred.Label).Info("Using stored token")
			}
		}
	}

	s, err := scrape.New(cfg)
	if err != nil {
		ui.PrintError("Failed to initialize scraper", err.Error())
		os.Exit(1)
	}

	if cfg.Metrics.Addr != "" {
		stop := serveMetrics(cfg.Metrics.Addr, s.Metrics.Registry)
		defer stop()
	}

	result, err := s.Run(context.Background(), rawTags)
	if err != nil {
		ui.PrintError("Scrape failed", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Scrape completed")
	ui.PrintResult("Saved %d records to %s in %s", result.Count, result.Path, result.Elapsed.Round(time.Millisecond))
}

// serveMetrics exposes the scrape metrics registry for the duration of the
// run and returns a function that shuts the listener down.
func serveMetrics(addr string, reg *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("Metrics listener stopped")
		}
	}()

	return func() { _ = srv.Close() }
}

// Make scrape the default command when no subcommand is specified
func init() {
	origRunE := rootCmd.RunE
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if origRunE != nil {
			return origRunE(cmd, args)
		}
		if len(args) > 0 && !isKnownCommand(args[0]) {
			// Treat bare arguments as hashtags
			// No need to transfer flags since we're using the same variables
			return scrapeCmd.RunE(scrapeCmd, args)
		}
		// Otherwise show help
		return cmd.Help()
	}

	// Set Args to allow arbitrary arguments
	rootCmd.Args = cobra.ArbitraryArgs
}

func isKnownCommand(arg string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == arg || cmd.HasAlias(arg) {
			return true
		}
	}
	return false
}
