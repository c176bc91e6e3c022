package scrape_test

import (
	"context"
	"fmt"

	"ttscraper/pkg/config"
	"ttscraper/pkg/scrape"
)

func ExampleScraper_Run() {
	// Load configuration (picks up APIFY_API_TOKEN from the environment or
	// a .env file)
	cfg, err := config.Load("", nil)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		return
	}

	// Create scraper
	s, err := scrape.New(cfg)
	if err != nil {
		fmt.Printf("Failed to create scraper: %v\n", err)
		return
	}

	// Fetch posts for the given hashtags
	result, err := s.Run(context.Background(), []string{"#golang", "coding"})
	if err != nil {
		fmt.Printf("Scrape failed: %v\n", err)
		return
	}

	fmt.Printf("Saved %d records to %s\n", result.Count, result.Path)
}
