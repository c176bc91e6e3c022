package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"ttscraper/pkg/auth"
	"ttscraper/pkg/config"
	"ttscraper/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage ttscraper configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (APIFY_API_TOKEN, TTSCRAPER_*)
  - A .env file in the working directory
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as 'ttscraper.yaml'
unless a different path is specified with the --config flag. The API token
never belongs in this file; keep it in the token store or the environment.`,
	Run: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the current configuration including values from all sources:
  - Command line flags
  - Environment variables
  - Configuration file
  - Default values

The API token is masked for security.`,
	Run: runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a configuration file for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Value types and ranges
  - Path accessibility`,
	Run: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	// Determine config file path
	configPath := configFile
	if configPath == "" {
		configPath = "ttscraper.yaml"
	}

	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	// Create example configuration
	exampleConfig := `# ttscraper configuration file
#
# Every value here can also be set with an environment variable prefixed
# with TTSCRAPER_, for example TTSCRAPER_OUTPUT_DIR or TTSCRAPER_MAX_WAIT.
# The API token is the exception: it comes from APIFY_API_TOKEN (or a .env
# file, or the token store via 'ttscraper auth login') and never belongs
# in this file.

# Provider settings
apify:
  # Actor that performs the TikTok hashtag scrape
  actor_id: "GdWCkxBtKWOsKjdch"

  # Apify API base URL
  base_url: "https://api.apify.com"

  # Proxy country for the actor; "None" means no preference
  proxy_country: "None"

  # HTTP timeout for individual API requests (Go duration syntax)
  request_timeout: "30s"

  # Client-side request rate
  requests_per_minute: 60

# Scrape run settings
scrape:
  # Posts requested per hashtag page
  # Range: 1-50
  results_per_page: 10

  # Only include posts on or after this date (YYYY-MM-DD)
  # Leave empty for no date window
  oldest_post_date: ""

  # How often to poll the actor run for completion
  poll_interval: "3s"

  # How long to wait for the run before giving up
  max_wait: "5m"

# Output settings
output:
  # Directory for result files
  directory: "."

  # Exact output file path (optional)
  # Leave empty for a timestamped name inside the directory
  file: ""

  # Indent the result file
  pretty: true

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: "info"

  # Log file path (optional)
  # Leave empty to log to the console only
  file: ""

# Metrics exposure
metrics:
  # Address for the Prometheus /metrics listener during a run (optional)
  # Example: ":9120"
  addr: ""
`

	// Write configuration file
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Store your Apify API token with 'ttscraper auth login'")
	fmt.Println("2. Run 'ttscraper config validate' to check the configuration")
	fmt.Println("3. Start scraping with 'ttscraper scrape <hashtags...>'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	// Load configuration
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// The token field is excluded from serialization, so the YAML dump can
	// never leak it; it is shown separately, masked
	data, err := yaml.Marshal(cfg)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		os.Exit(1)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	tokenDisplay := "(not set)"
	if cfg.Apify.Token != "" {
		tokenDisplay = auth.MaskToken(cfg.Apify.Token)
	}
	fmt.Printf("\nAPI token: %s\n", tokenDisplay)

	// Show configuration sources
	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (APIFY_API_TOKEN, TTSCRAPER_*)")
	fmt.Println("3. .env file in the working directory")
	if configFile != "" {
		fmt.Printf("4. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("4. Configuration file: (not specified)")
	}
	fmt.Println("5. Default values")
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	// Check if config file is specified
	if configFile == "" {
		// Try to find config file in common locations
		possiblePaths := []string{
			"ttscraper.yaml",
			"ttscraper.yml",
			".ttscraper.yaml",
			".ttscraper.yml",
			filepath.Join(os.Getenv("HOME"), ".ttscraper.yaml"),
			filepath.Join(os.Getenv("HOME"), ".config", "ttscraper", "config.yaml"),
		}

		for _, path := range possiblePaths {
			if _, err := os.Stat(path); err == nil {
				configFile = path
				break
			}
		}

		if configFile == "" {
			ui.PrintError("No configuration file found", "Specify a file with --config flag")
			os.Exit(1)
		}
	}

	ui.PrintInfo("Validating configuration", configFile)

	// Try to load and validate configuration
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		os.Exit(1)
	}

	// Perform additional validation checks
	warnings := []string{}
	errors := []string{}

	// Check credential
	if cfg.Apify.Token == "" {
		warnings = append(warnings, "API token not configured (set APIFY_API_TOKEN or run 'ttscraper auth login')")
	}

	// Check paths
	if cfg.Output.Directory != "" {
		if err := os.MkdirAll(cfg.Output.Directory, 0755); err != nil {
			errors = append(errors, fmt.Sprintf("Cannot create output directory: %v", err))
		}
	}

	// Check logging file path
	if cfg.Logging.File != "" {
		dir := filepath.Dir(cfg.Logging.File)
		if err := os.MkdirAll(dir, 0755); err != nil {
			errors = append(errors, fmt.Sprintf("Cannot create log directory: %v", err))
		}
	}

	// Check value ranges the run would reject
	if cfg.Scrape.ResultsPerPage < 1 || cfg.Scrape.ResultsPerPage > 50 {
		errors = append(errors, "results_per_page must be between 1 and 50")
	}

	// Display results
	if len(errors) > 0 {
		ui.PrintError("Configuration has errors:", "")
		for _, err := range errors {
			fmt.Printf("  - %s\n", err)
		}
		os.Exit(1)
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:", "")
		for _, warn := range warnings {
			fmt.Printf("  - %s\n", warn)
		}
		fmt.Println()
	}

	ui.PrintSuccess("Configuration is valid")

	// Show summary
	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Actor ID: %s\n", cfg.Apify.ActorID)
	fmt.Printf("  Output directory: %s\n", cfg.Output.Directory)
	fmt.Printf("  Results per page: %d\n", cfg.Scrape.ResultsPerPage)
	fmt.Printf("  Poll interval: %s\n", cfg.Scrape.PollInterval)
	fmt.Printf("  Max wait: %s\n", cfg.Scrape.MaxWait)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
}
