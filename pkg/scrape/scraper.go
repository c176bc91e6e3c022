package scrape

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ttscraper/pkg/apify"
	"ttscraper/pkg/config"
	"ttscraper/pkg/hashtag"
	"ttscraper/pkg/logger"
	"ttscraper/pkg/storage"
)

// Result summarizes a completed hashtag scrape.
type Result struct {
	// Path is the result file that was written.
	Path string
	// Count is the number of records in the result file.
	Count int
	// Hashtags holds the normalized tags the run actually searched for.
	Hashtags []string
	// RunID identifies the actor run on the provider side.
	RunID string
	// Elapsed is the end-to-end duration of the invocation.
	Elapsed time.Duration
}

// Scraper orchestrates the TikTok hashtag scrape pipeline
type Scraper struct {
	client  ApifyClient
	store   *storage.Manager
	config  *config.Config
	logger  logger.Logger
	Metrics *Metrics
}

// New creates a new Scraper instance
func New(cfg *config.Config) (*Scraper, error) {
	log := logger.GetLogger()

	client := apify.NewClient(cfg.Apify.BaseURL, cfg.Apify.Token, cfg.Apify.RequestTimeout, log)
	if cfg.Apify.RequestsPerMinute > 0 {
		client.SetRateLimit(cfg.Apify.RequestsPerMinute)
	}

	store, err := storage.NewManager(cfg.Output.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage manager: %w", err)
	}

	return &Scraper{
		client:  client,
		store:   store,
		config:  cfg,
		logger:  log,
		Metrics: NewMetrics(),
	}, nil
}

// Run executes the full pipeline for the given raw hashtag values: normalize
// and validate the tags, start the actor run, wait for it to finish, fetch
// the dataset and write the result file.
func (s *Scraper) Run(ctx context.Context, rawTags []string) (*Result, error) {
	start := time.Now()

	result, err := s.run(ctx, rawTags)
	elapsed := time.Since(start)
	s.Metrics.ObserveRunDuration(elapsed)

	if err != nil {
		kind := KindLabel(err)
		s.Metrics.IncError(kind)
		s.logger.ErrorWithFields("Scrape failed", map[string]interface{}{
			"error":       err.Error(),
			"error_kind":  kind,
			"duration_ms": elapsed.Milliseconds(),
		})
		return nil, err
	}

	result.Elapsed = elapsed
	s.logger.InfoWithFields("Scrape completed", map[string]interface{}{
		"hashtags":    result.Hashtags,
		"records":     result.Count,
		"output":      result.Path,
		"run_id":      result.RunID,
		"duration_ms": elapsed.Milliseconds(),
	})
	return result, nil
}

func (s *Scraper) run(ctx context.Context, rawTags []string) (*Result, error) {
	tags, err := hashtag.Parse(rawTags)
	if err != nil {
		return nil, ErrInvalidInput{Reason: "no usable hashtags were provided", Err: err}
	}

	if err := validateRunSettings(s.config.Scrape.ResultsPerPage, s.config.Scrape.OldestPostDate); err != nil {
		return nil, err
	}

	// The credential check happens before anything touches the network, so
	// an unconfigured environment fails fast and offline.
	if s.config.Apify.Token == "" {
		return nil, ErrMissingCredential{}
	}

	input := NewRunInput(tags, s.config.Scrape.ResultsPerPage, s.config.Scrape.OldestPostDate, s.config.Apify.ProxyCountry)

	s.logger.InfoWithFields("Starting actor run", map[string]interface{}{
		"actor_id":         s.config.Apify.ActorID,
		"hashtags":         tags,
		"results_per_page": s.config.Scrape.ResultsPerPage,
	})

	run, err := s.client.StartRun(ctx, s.config.Apify.ActorID, input)
	if err != nil {
		return nil, ErrRemoteScrape{Message: "starting the actor run failed", Err: err}
	}

	s.logger.InfoWithFields("Actor run started, waiting for it to finish", map[string]interface{}{
		"run_id":        run.ID,
		"status":        string(run.Status),
		"poll_interval": s.config.Scrape.PollInterval.String(),
		"max_wait":      s.config.Scrape.MaxWait.String(),
	})

	run, err = s.client.WaitForRun(ctx, run.ID, s.config.Scrape.PollInterval, s.config.Scrape.MaxWait)
	if err != nil {
		if errors.Is(err, apify.ErrWaitTimeout) {
			return nil, ErrScrapeTimeout{Wait: s.config.Scrape.MaxWait}
		}
		return nil, ErrRemoteScrape{Message: "polling the actor run failed", Err: err}
	}

	s.Metrics.IncRun(strings.ToLower(string(run.Status)))

	if !run.Status.Succeeded() {
		return nil, ErrRemoteScrape{Status: string(run.Status), Message: run.StatusMessage}
	}
	if run.DefaultDatasetID == "" {
		return nil, ErrRemoteScrape{Status: string(run.Status), Message: "run finished without a dataset"}
	}

	records, err := s.client.DatasetItems(ctx, run.DefaultDatasetID)
	if err != nil {
		return nil, ErrRemoteScrape{Message: "fetching the run dataset failed", Err: err}
	}
	s.Metrics.AddRecords(len(records))

	s.logger.InfoWithFields("Dataset fetched", map[string]interface{}{
		"run_id":  run.ID,
		"records": len(records),
	})

	path := s.store.ResolvePath(s.config.Output.File, time.Now())
	if err := s.store.WriteRecords(path, records, s.config.Output.Pretty); err != nil {
		return nil, ErrWriteOutput{Path: path, Err: err}
	}

	return &Result{
		Path:     path,
		Count:    len(records),
		Hashtags: tags,
		RunID:    run.ID,
	}, nil
}
