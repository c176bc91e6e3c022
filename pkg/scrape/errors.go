package scrape

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidInput indicates the requested arguments cannot produce a valid
// actor run, for example no usable hashtags or an out-of-range page size.
type ErrInvalidInput struct {
	Reason string
	Err    error
}

func (e ErrInvalidInput) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

func (e ErrInvalidInput) Unwrap() error {
	return e.Err
}

// ErrMissingCredential indicates no Apify API token could be resolved. It is
// returned before any network call is attempted.
type ErrMissingCredential struct{}

func (e ErrMissingCredential) Error() string {
	return `missing Apify API token: pass --token, set APIFY_API_TOKEN, or run "ttscraper auth login"`
}

// ErrRemoteScrape indicates the provider rejected a request or reported a
// run that finished in a non-success status.
type ErrRemoteScrape struct {
	Status  string
	Message string
	Err     error
}

func (e ErrRemoteScrape) Error() string {
	switch {
	case e.Status != "" && e.Message != "":
		return fmt.Sprintf("remote scrape failed with status %s: %s", e.Status, e.Message)
	case e.Status != "":
		return fmt.Sprintf("remote scrape failed with status %s", e.Status)
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("remote scrape failed: %s: %v", e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("remote scrape failed: %s", e.Message)
	case e.Err != nil:
		return fmt.Sprintf("remote scrape failed: %v", e.Err)
	}
	return "remote scrape failed"
}

func (e ErrRemoteScrape) Unwrap() error {
	return e.Err
}

// ErrScrapeTimeout indicates the actor run did not reach a terminal status
// within the configured wait budget.
type ErrScrapeTimeout struct {
	Wait time.Duration
}

func (e ErrScrapeTimeout) Error() string {
	return fmt.Sprintf("actor run did not finish within %s", e.Wait)
}

// ErrWriteOutput indicates the result file could not be written.
type ErrWriteOutput struct {
	Path string
	Err  error
}

func (e ErrWriteOutput) Error() string {
	return fmt.Sprintf("failed to write results to %s: %v", e.Path, e.Err)
}

func (e ErrWriteOutput) Unwrap() error {
	return e.Err
}

// KindLabel classifies err into a stable label used for logging and the
// errors metric.
func KindLabel(err error) string {
	if err == nil {
		return "unknown"
	}
	var invalid ErrInvalidInput
	if errors.As(err, &invalid) {
		return "invalid_input"
	}
	var missing ErrMissingCredential
	if errors.As(err, &missing) {
		return "missing_credential"
	}
	var timeout ErrScrapeTimeout
	if errors.As(err, &timeout) {
		return "timeout"
	}
	var remote ErrRemoteScrape
	if errors.As(err, &remote) {
		return "remote"
	}
	var write ErrWriteOutput
	if errors.As(err, &write) {
		return "write"
	}
	return "other"
}
