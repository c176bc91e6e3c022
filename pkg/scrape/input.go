package scrape

import (
	"fmt"
	"time"
)

// Bounds accepted by the actor for the per-page result count.
const (
	MinResultsPerPage = 1
	MaxResultsPerPage = 50
)

// dateLayout is the wire format the actor expects for the oldest-post-date
// filter.
const dateLayout = "2006-01-02"

// RunInput is the input document submitted to the TikTok actor. The fixed
// fields pin the actor to hashtag search over fresh posts and disable every
// media download except subtitles, which keeps runs cheap and the dataset
// purely structural.
type RunInput struct {
	Hashtags       []string `json:"hashtags"`
	ResultsPerPage int      `json:"resultsPerPage"`
	OldestPostDate string   `json:"oldestPostDate,omitempty"`

	ProfileScrapeSections []string `json:"profileScrapeSections"`
	ProfileSorting        string   `json:"profileSorting"`
	ExcludePinnedPosts    bool     `json:"excludePinnedPosts"`
	SearchSection         string   `json:"searchSection"`
	MaxProfilesPerQuery   int      `json:"maxProfilesPerQuery"`
	ScrapeRelatedVideos   bool     `json:"scrapeRelatedVideos"`

	ShouldDownloadVideos          bool `json:"shouldDownloadVideos"`
	ShouldDownloadCovers          bool `json:"shouldDownloadCovers"`
	ShouldDownloadSubtitles       bool `json:"shouldDownloadSubtitles"`
	ShouldDownloadSlideshowImages bool `json:"shouldDownloadSlideshowImages"`
	ShouldDownloadAvatars         bool `json:"shouldDownloadAvatars"`
	ShouldDownloadMusicCovers     bool `json:"shouldDownloadMusicCovers"`

	ProxyCountryCode string `json:"proxyCountryCode"`
}

// NewRunInput assembles the actor input for one hashtag scrape. The tags
// must already be normalized.
func NewRunInput(tags []string, resultsPerPage int, oldestPostDate, proxyCountry string) *RunInput {
	if proxyCountry == "" {
		proxyCountry = "None"
	}
	return &RunInput{
		Hashtags:                tags,
		ResultsPerPage:          resultsPerPage,
		OldestPostDate:          oldestPostDate,
		ProfileScrapeSections:   []string{"videos"},
		ProfileSorting:          "latest",
		MaxProfilesPerQuery:     10,
		ShouldDownloadSubtitles: true,
		ProxyCountryCode:        proxyCountry,
	}
}

// validateRunSettings checks the per-run knobs before anything touches the
// network.
func validateRunSettings(resultsPerPage int, oldestPostDate string) error {
	if resultsPerPage < MinResultsPerPage || resultsPerPage > MaxResultsPerPage {
		return ErrInvalidInput{
			Reason: fmt.Sprintf("results per page must be between %d and %d, got %d",
				MinResultsPerPage, MaxResultsPerPage, resultsPerPage),
		}
	}
	if oldestPostDate != "" {
		if _, err := time.Parse(dateLayout, oldestPostDate); err != nil {
			return ErrInvalidInput{
				Reason: fmt.Sprintf("oldest post date must look like YYYY-MM-DD, got %q", oldestPostDate),
				Err:    err,
			}
		}
	}
	return nil
}
