package scrape

import (
	"context"
	"time"

	"ttscraper/pkg/apify"
)

// ApifyClient defines the interface for the Apify platform operations the
// pipeline needs. *apify.Client satisfies it; tests substitute mocks.
type ApifyClient interface {
	StartRun(ctx context.Context, actorID string, input interface{}) (*apify.Run, error)
	WaitForRun(ctx context.Context, runID string, interval, maxWait time.Duration) (*apify.Run, error)
	DatasetItems(ctx context.Context, datasetID string) ([]apify.Record, error)
}
