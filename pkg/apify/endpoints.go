package apify

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	// DefaultBaseURL is the public platform API endpoint
	DefaultBaseURL = "https://api.apify.com"

	// datasetPageLimit caps one dataset listing request. The platform
	// serves at most this many items per call; larger datasets are
	// walked with the offset parameter.
	datasetPageLimit = 1000
)

// ActorRunsPath constructs the path for starting a run of an actor
func ActorRunsPath(actorID string) string {
	return fmt.Sprintf("/v2/acts/%s/runs", url.PathEscape(actorID))
}

// RunPath constructs the path for fetching one actor run by ID
func RunPath(runID string) string {
	return "/v2/actor-runs/" + url.PathEscape(runID)
}

// DatasetItemsPath constructs the path for listing a page of dataset items
func DatasetItemsPath(datasetID string, offset, limit int) string {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("clean", "true")
	params.Set("offset", strconv.Itoa(offset))
	params.Set("limit", strconv.Itoa(limit))

	return fmt.Sprintf("/v2/datasets/%s/items?%s", url.PathEscape(datasetID), params.Encode())
}

// UserMePath is the path for the account behind the current token
func UserMePath() string {
	return "/v2/users/me"
}
