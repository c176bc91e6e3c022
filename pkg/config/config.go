package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// defaultActorID identifies the hosted TikTok hashtag scraper actor used
// when no override is configured.
const defaultActorID = "GdWCkxBtKWOsKjdch"

// Config holds all configuration options for the scrape tool
type Config struct {
	// Provider connection and credential
	Apify ApifyConfig `yaml:"apify" json:"apify"`

	// Scrape run settings
	Scrape ScrapeConfig `yaml:"scrape" json:"scrape"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Metrics exposure
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
}

// ApifyConfig holds provider-specific configuration. Token is the API
// credential and must never be written to logs or config files by the tool.
type ApifyConfig struct {
	Token             string        `yaml:"-" json:"-"`
	ActorID           string        `yaml:"actor_id" json:"actor_id"`
	BaseURL           string        `yaml:"base_url" json:"base_url"`
	ProxyCountry      string        `yaml:"proxy_country" json:"proxy_country"`
	RequestTimeout    time.Duration `yaml:"request_timeout" json:"request_timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// UnmarshalYAML accepts Go duration strings (for example "30s") for the
// request_timeout field. Keys absent from the file keep their current values.
func (a *ApifyConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		ActorID           string `yaml:"actor_id"`
		BaseURL           string `yaml:"base_url"`
		ProxyCountry      string `yaml:"proxy_country"`
		RequestTimeout    string `yaml:"request_timeout"`
		RequestsPerMinute int    `yaml:"requests_per_minute"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.ActorID != "" {
		a.ActorID = raw.ActorID
	}
	if raw.BaseURL != "" {
		a.BaseURL = raw.BaseURL
	}
	if raw.ProxyCountry != "" {
		a.ProxyCountry = raw.ProxyCountry
	}
	if raw.RequestTimeout != "" {
		d, err := time.ParseDuration(raw.RequestTimeout)
		if err != nil {
			return fmt.Errorf("invalid request_timeout: %w", err)
		}
		a.RequestTimeout = d
	}
	if raw.RequestsPerMinute != 0 {
		a.RequestsPerMinute = raw.RequestsPerMinute
	}

	return nil
}

// MarshalYAML renders the timeout as a duration string so saved files stay
// readable and round-trip through UnmarshalYAML. The token is never written.
func (a ApifyConfig) MarshalYAML() (interface{}, error) {
	return struct {
		ActorID           string `yaml:"actor_id"`
		BaseURL           string `yaml:"base_url"`
		ProxyCountry      string `yaml:"proxy_country"`
		RequestTimeout    string `yaml:"request_timeout"`
		RequestsPerMinute int    `yaml:"requests_per_minute"`
	}{
		ActorID:           a.ActorID,
		BaseURL:           a.BaseURL,
		ProxyCountry:      a.ProxyCountry,
		RequestTimeout:    a.RequestTimeout.String(),
		RequestsPerMinute: a.RequestsPerMinute,
	}, nil
}

// ScrapeConfig holds per-run scrape settings
type ScrapeConfig struct {
	ResultsPerPage int           `yaml:"results_per_page" json:"results_per_page"`
	OldestPostDate string        `yaml:"oldest_post_date" json:"oldest_post_date"`
	PollInterval   time.Duration `yaml:"poll_interval" json:"poll_interval"`
	MaxWait        time.Duration `yaml:"max_wait" json:"max_wait"`
}

// UnmarshalYAML accepts Go duration strings for the poll_interval and
// max_wait fields. Keys absent from the file keep their current values.
func (s *ScrapeConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		ResultsPerPage int    `yaml:"results_per_page"`
		OldestPostDate string `yaml:"oldest_post_date"`
		PollInterval   string `yaml:"poll_interval"`
		MaxWait        string `yaml:"max_wait"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.ResultsPerPage != 0 {
		s.ResultsPerPage = raw.ResultsPerPage
	}
	if raw.OldestPostDate != "" {
		s.OldestPostDate = raw.OldestPostDate
	}
	if raw.PollInterval != "" {
		d, err := time.ParseDuration(raw.PollInterval)
		if err != nil {
			return fmt.Errorf("invalid poll_interval: %w", err)
		}
		s.PollInterval = d
	}
	if raw.MaxWait != "" {
		d, err := time.ParseDuration(raw.MaxWait)
		if err != nil {
			return fmt.Errorf("invalid max_wait: %w", err)
		}
		s.MaxWait = d
	}

	return nil
}

// MarshalYAML renders the durations as strings
func (s ScrapeConfig) MarshalYAML() (interface{}, error) {
	return struct {
		ResultsPerPage int    `yaml:"results_per_page"`
		OldestPostDate string `yaml:"oldest_post_date"`
		PollInterval   string `yaml:"poll_interval"`
		MaxWait        string `yaml:"max_wait"`
	}{
		ResultsPerPage: s.ResultsPerPage,
		OldestPostDate: s.OldestPostDate,
		PollInterval:   s.PollInterval.String(),
		MaxWait:        s.MaxWait.String(),
	}, nil
}

// OutputConfig holds output location configuration. File, when set, names
// the exact output path; otherwise a timestamped name is derived inside
// Directory at run time.
type OutputConfig struct {
	Directory string `yaml:"directory" json:"directory"`
	File      string `yaml:"file" json:"file"`
	Pretty    bool   `yaml:"pretty" json:"pretty"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// MetricsConfig holds the optional Prometheus listener address. Empty
// disables the listener.
type MetricsConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Apify: ApifyConfig{
			ActorID:           defaultActorID,
			BaseURL:           "https://api.apify.com",
			ProxyCountry:      "None",
			RequestTimeout:    30 * time.Second,
			RequestsPerMinute: 60,
		},
		Scrape: ScrapeConfig{
			ResultsPerPage: 10,
			PollInterval:   3 * time.Second,
			MaxWait:        5 * time.Minute,
		},
		Output: OutputConfig{
			Directory: ".",
			Pretty:    true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if token := os.Getenv("APIFY_API_TOKEN"); token != "" {
		c.Apify.Token = token
	}
	if actorID := os.Getenv("TTSCRAPER_ACTOR_ID"); actorID != "" {
		c.Apify.ActorID = actorID
	}
	if baseURL := os.Getenv("TTSCRAPER_BASE_URL"); baseURL != "" {
		c.Apify.BaseURL = baseURL
	}

	if rpp := os.Getenv("TTSCRAPER_RESULTS_PER_PAGE"); rpp != "" {
		var val int
		fmt.Sscanf(rpp, "%d", &val)
		if val != 0 {
			c.Scrape.ResultsPerPage = val
		}
	}
	if interval := os.Getenv("TTSCRAPER_POLL_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			c.Scrape.PollInterval = d
		}
	}
	if wait := os.Getenv("TTSCRAPER_MAX_WAIT"); wait != "" {
		if d, err := time.ParseDuration(wait); err == nil {
			c.Scrape.MaxWait = d
		}
	}

	if outputDir := os.Getenv("TTSCRAPER_OUTPUT_DIR"); outputDir != "" {
		c.Output.Directory = outputDir
	}

	if logLevel := os.Getenv("TTSCRAPER_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if addr := os.Getenv("TTSCRAPER_METRICS_ADDR"); addr != "" {
		c.Metrics.Addr = addr
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".ttscraper.yaml",
		".ttscraper.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "ttscraper", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "ttscraper", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".ttscraper.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid. The credential and the
// per-run scrape inputs are validated by the pipeline so that their
// failures carry the right error kind; everything else is checked here.
func (c *Config) Validate() error {
	var errs []error

	if c.Apify.ActorID == "" {
		errs = append(errs, errors.New("actor ID is required"))
	}
	if c.Apify.BaseURL == "" {
		errs = append(errs, errors.New("provider base URL is required"))
	}
	if c.Apify.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.Apify.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}

	if c.Scrape.PollInterval <= 0 {
		errs = append(errs, errors.New("poll interval must be positive"))
	}
	if c.Scrape.MaxWait <= 0 {
		errs = append(errs, errors.New("max wait must be positive"))
	}
	if c.Scrape.MaxWait < c.Scrape.PollInterval {
		errs = append(errs, errors.New("max wait must not be shorter than the poll interval"))
	}

	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file. The provider token carries a
// yaml:"-" tag and is never serialized.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if token, ok := flags["token"].(string); ok && token != "" {
		c.Apify.Token = token
	}
	if actorID, ok := flags["actor"].(string); ok && actorID != "" {
		c.Apify.ActorID = actorID
	}
	if rpp, ok := flags["results-per-page"].(int); ok && rpp != 0 {
		c.Scrape.ResultsPerPage = rpp
	}
	if since, ok := flags["since"].(string); ok && since != "" {
		c.Scrape.OldestPostDate = since
	}
	if interval, ok := flags["poll-interval"].(time.Duration); ok && interval > 0 {
		c.Scrape.PollInterval = interval
	}
	if wait, ok := flags["max-wait"].(time.Duration); ok && wait > 0 {
		c.Scrape.MaxWait = wait
	}
	if output, ok := flags["output"].(string); ok && output != "" {
		c.Output.File = output
	}
	if outputDir, ok := flags["output-dir"].(string); ok && outputDir != "" {
		c.Output.Directory = outputDir
	}
	if pretty, ok := flags["pretty"].(bool); ok {
		c.Output.Pretty = pretty
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if addr, ok := flags["metrics-addr"].(string); ok && addr != "" {
		c.Metrics.Addr = addr
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".ttscraper.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
