// Package apify provides a client for the Apify platform API.
//
// This package includes:
//   - A configurable HTTP client with bearer auth, rate limiting and
//     structured request logging
//   - Actor run submission and fixed-interval completion polling
//   - Paged dataset item listing
//   - Built-in error types for better error handling
//
// Example usage:
//
//	client := apify.NewClient("", token, 30*time.Second, nil)
//
//	run, err := client.StartRun(ctx, actorID, input)
//	if err != nil {
//	    if apiErr, ok := err.(*apify.Error); ok {
//	        switch apiErr.Type {
//	        case apify.ErrorTypeAuth:
//	            // Handle authentication error
//	        case apify.ErrorTypeRateLimit:
//	            // Handle rate limit
//	        }
//	    }
//	}
//
//	run, err = client.WaitForRun(ctx, run.ID, 3*time.Second, 5*time.Minute)
//	if err == nil && run.Status.Succeeded() {
//	    items, _ := client.DatasetItems(ctx, run.DefaultDatasetID)
//	    // Process items
//	}
package apify
