// Package scrape provides the core pipeline for collecting TikTok posts by
// hashtag through the Apify platform.
//
// The scrape package orchestrates the entire run, coordinating between
// hashtag normalization, the Apify API client, and result storage.
//
// Architecture:
//
// The Scraper struct is the main component that:
//   - Normalizes and validates the requested hashtags
//   - Starts a run of the TikTok actor with the assembled input
//   - Polls the run until it reaches a terminal status
//   - Downloads the run's dataset items
//   - Writes the collected posts to a JSON result file
//
// Usage:
//
//	cfg, err := config.Load("", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	s, err := scrape.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := s.Run(ctx, []string{"golang", "programming"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("wrote %d posts to %s\n", result.Count, result.Path)
//
// Errors:
//
// Failures are reported through a small set of typed errors (ErrInvalidInput,
// ErrMissingCredential, ErrRemoteScrape, ErrScrapeTimeout, ErrWriteOutput) so
// callers can branch on the failure class with errors.As. KindLabel maps any
// error to a stable label used for logging and metrics.
//
// Credential handling:
//
// The Apify token is required before any network call is made. A run with no
// resolvable token fails immediately with ErrMissingCredential, and the token
// value itself is never written to logs.
package scrape
