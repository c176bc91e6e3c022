package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"ttscraper/pkg/apify"
	"ttscraper/pkg/config"
	"ttscraper/pkg/hashtag"
	"ttscraper/pkg/logger"
	"ttscraper/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "apify_api_SECRETSECRETSECRET"

// mockApifyClient is a mock implementation of the ApifyClient interface
type mockApifyClient struct {
	startErr error
	waitErr  error
	itemsErr error

	runStatus apify.RunStatus
	statusMsg string
	datasetID string
	items     []apify.Record

	startCalls int32
	waitCalls  int32
	itemsCalls int32

	gotActorID string
	gotInput   interface{}
}

func (m *mockApifyClient) StartRun(ctx context.Context, actorID string, input interface{}) (*apify.Run, error) {
	atomic.AddInt32(&m.startCalls, 1)
	m.gotActorID = actorID
	m.gotInput = input
	if m.startErr != nil {
		return nil, m.startErr
	}
	return &apify.Run{ID: "run-1", ActorID: actorID, Status: apify.RunStatusRunning}, nil
}

func (m *mockApifyClient) WaitForRun(ctx context.Context, runID string, interval, maxWait time.Duration) (*apify.Run, error) {
	atomic.AddInt32(&m.waitCalls, 1)
	if m.waitErr != nil {
		return nil, m.waitErr
	}
	status := m.runStatus
	if status == "" {
		status = apify.RunStatusSucceeded
	}
	datasetID := m.datasetID
	if datasetID == "" && status == apify.RunStatusSucceeded {
		datasetID = "dataset-1"
	}
	return &apify.Run{
		ID:               runID,
		Status:           status,
		StatusMessage:    m.statusMsg,
		DefaultDatasetID: datasetID,
	}, nil
}

func (m *mockApifyClient) DatasetItems(ctx context.Context, datasetID string) ([]apify.Record, error) {
	atomic.AddInt32(&m.itemsCalls, 1)
	if m.itemsErr != nil {
		return nil, m.itemsErr
	}
	return m.items, nil
}

func newTestScraper(t *testing.T, cfg *config.Config, client ApifyClient) (*Scraper, *logger.TestLogger) {
	t.Helper()

	store, err := storage.NewManager(cfg.Output.Directory)
	require.NoError(t, err)

	testLogger := logger.NewTestLogger()
	return &Scraper{
		client:  client,
		store:   store,
		config:  cfg,
		logger:  testLogger,
		Metrics: NewMetrics(),
	}, testLogger
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Apify.Token = testToken
	cfg.Output.Directory = t.TempDir()
	cfg.Scrape.PollInterval = time.Millisecond
	cfg.Scrape.MaxWait = time.Second
	return cfg
}

func TestRunWritesRecords(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.File = "results.json"

	mock := &mockApifyClient{
		items: []apify.Record{
			{"id": "7101", "text": "first", "diggCount": float64(12)},
			{"id": "7102", "text": "second", "diggCount": float64(3)},
		},
	}
	scraper, _ := newTestScraper(t, cfg, mock)

	result, err := scraper.Run(context.Background(), []string{"golang"})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Count)
	assert.Equal(t, []string{"golang"}, result.Hashtags)
	assert.Equal(t, "run-1", result.RunID)
	assert.Equal(t, filepath.Join(cfg.Output.Directory, "results.json"), result.Path)

	data, err := os.ReadFile(result.Path)
	require.NoError(t, err)

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "7101", got[0]["id"])
	assert.Equal(t, "7102", got[1]["id"])
}

func TestRunNormalizesHashtags(t *testing.T) {
	cfg := testConfig(t)
	mock := &mockApifyClient{}
	scraper, _ := newTestScraper(t, cfg, mock)

	result, err := scraper.Run(context.Background(), []string{"#Cats", "dogs", "CATS"})
	require.NoError(t, err)

	assert.Equal(t, []string{"cats", "dogs"}, result.Hashtags)

	input, ok := mock.gotInput.(*RunInput)
	require.True(t, ok, "expected actor input of type *RunInput")
	assert.Equal(t, []string{"cats", "dogs"}, input.Hashtags)
}

func TestRunRejectsBadResultsPerPage(t *testing.T) {
	for _, rpp := range []int{0, -5, 51} {
		cfg := testConfig(t)
		cfg.Scrape.ResultsPerPage = rpp

		mock := &mockApifyClient{}
		scraper, _ := newTestScraper(t, cfg, mock)

		_, err := scraper.Run(context.Background(), []string{"cats"})
		require.Error(t, err, "results per page %d should be rejected", rpp)

		var invalid ErrInvalidInput
		assert.True(t, errors.As(err, &invalid), "expected ErrInvalidInput for %d, got %T", rpp, err)
		assert.Zero(t, atomic.LoadInt32(&mock.startCalls), "no run should start for invalid input")
	}
}

func TestRunRejectsUnusableHashtags(t *testing.T) {
	cfg := testConfig(t)
	mock := &mockApifyClient{}
	scraper, _ := newTestScraper(t, cfg, mock)

	_, err := scraper.Run(context.Background(), []string{"#", "  ", ""})
	require.Error(t, err)

	var invalid ErrInvalidInput
	assert.True(t, errors.As(err, &invalid))
	assert.True(t, errors.Is(err, hashtag.ErrNoTags))
	assert.Zero(t, atomic.LoadInt32(&mock.startCalls))
}

func TestRunRejectsBadOldestPostDate(t *testing.T) {
	cfg := testConfig(t)
	cfg.Scrape.OldestPostDate = "14-01-2025"

	mock := &mockApifyClient{}
	scraper, _ := newTestScraper(t, cfg, mock)

	_, err := scraper.Run(context.Background(), []string{"cats"})
	require.Error(t, err)

	var invalid ErrInvalidInput
	assert.True(t, errors.As(err, &invalid))
	assert.Zero(t, atomic.LoadInt32(&mock.startCalls))
}

func TestRunFailsWithoutCredentialBeforeAnyNetworkCall(t *testing.T) {
	cfg := testConfig(t)
	cfg.Apify.Token = ""

	mock := &mockApifyClient{}
	scraper, _ := newTestScraper(t, cfg, mock)

	_, err := scraper.Run(context.Background(), []string{"cats"})
	require.Error(t, err)

	var missing ErrMissingCredential
	assert.True(t, errors.As(err, &missing), "expected ErrMissingCredential, got %T", err)
	assert.Zero(t, atomic.LoadInt32(&mock.startCalls), "no provider call may happen without a credential")
	assert.Zero(t, atomic.LoadInt32(&mock.waitCalls))
	assert.Zero(t, atomic.LoadInt32(&mock.itemsCalls))
}

func TestRunActorFailureWritesNoFile(t *testing.T) {
	cfg := testConfig(t)
	mock := &mockApifyClient{
		runStatus: apify.RunStatusFailed,
		statusMsg: "Actor exited with code 1",
	}
	scraper, _ := newTestScraper(t, cfg, mock)

	_, err := scraper.Run(context.Background(), []string{"cats"})
	require.Error(t, err)

	var remote ErrRemoteScrape
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, "FAILED", remote.Status)
	assert.Contains(t, err.Error(), "FAILED")
	assert.Contains(t, err.Error(), "Actor exited with code 1")

	entries, readErr := os.ReadDir(cfg.Output.Directory)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "a failed run must not leave an output file behind")
}

func TestRunWaitTimeout(t *testing.T) {
	cfg := testConfig(t)
	mock := &mockApifyClient{waitErr: apify.ErrWaitTimeout}
	scraper, _ := newTestScraper(t, cfg, mock)

	_, err := scraper.Run(context.Background(), []string{"cats"})
	require.Error(t, err)

	var timeout ErrScrapeTimeout
	require.True(t, errors.As(err, &timeout))
	assert.Equal(t, cfg.Scrape.MaxWait, timeout.Wait)
}

func TestRunEmptyDatasetWritesEmptyArray(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.File = "empty.json"

	mock := &mockApifyClient{items: []apify.Record{}}
	scraper, _ := newTestScraper(t, cfg, mock)

	result, err := scraper.Run(context.Background(), []string{"cats"})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)

	data, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(data)))
}

func TestRunStartFailure(t *testing.T) {
	cfg := testConfig(t)
	mock := &mockApifyClient{
		startErr: &apify.Error{Type: apify.ErrorTypeAuth, Message: "authentication rejected", Code: 401},
	}
	scraper, _ := newTestScraper(t, cfg, mock)

	_, err := scraper.Run(context.Background(), []string{"cats"})
	require.Error(t, err)

	var remote ErrRemoteScrape
	require.True(t, errors.As(err, &remote))

	var apifyErr *apify.Error
	assert.True(t, errors.As(err, &apifyErr), "the provider error should stay reachable through Unwrap")
}

func TestRunWriteFailure(t *testing.T) {
	cfg := testConfig(t)

	// A regular file where a directory is needed makes the write step fail
	blocker := filepath.Join(cfg.Output.Directory, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	cfg.Output.File = filepath.Join("blocker", "out.json")

	mock := &mockApifyClient{items: []apify.Record{{"id": "1"}}}
	scraper, _ := newTestScraper(t, cfg, mock)

	_, err := scraper.Run(context.Background(), []string{"cats"})
	require.Error(t, err)

	var write ErrWriteOutput
	require.True(t, errors.As(err, &write))
	assert.NotEmpty(t, write.Path)
}

func TestRunNeverLogsToken(t *testing.T) {
	cfg := testConfig(t)
	mock := &mockApifyClient{items: []apify.Record{{"id": "1"}}}
	scraper, testLogger := newTestScraper(t, cfg, mock)

	_, err := scraper.Run(context.Background(), []string{"cats"})
	require.NoError(t, err)

	assert.NotContains(t, testLogger.String(), testToken, "the credential must never reach the logs")

	// Also cover the failure path, which logs the error chain
	testLogger.Clear()
	mock.startErr = errors.New("boom")
	_, err = scraper.Run(context.Background(), []string{"cats"})
	require.Error(t, err)
	assert.NotContains(t, testLogger.String(), testToken)
}

func TestRunUsesConfiguredActor(t *testing.T) {
	cfg := testConfig(t)
	cfg.Apify.ActorID = "customActor"

	mock := &mockApifyClient{}
	scraper, _ := newTestScraper(t, cfg, mock)

	_, err := scraper.Run(context.Background(), []string{"cats"})
	require.NoError(t, err)
	assert.Equal(t, "customActor", mock.gotActorID)
}

func TestRunDefaultOutputPath(t *testing.T) {
	cfg := testConfig(t)

	mock := &mockApifyClient{items: []apify.Record{{"id": "1"}}}
	scraper, _ := newTestScraper(t, cfg, mock)

	result, err := scraper.Run(context.Background(), []string{"cats"})
	require.NoError(t, err)

	base := filepath.Base(result.Path)
	assert.True(t, strings.HasPrefix(base, "tiktok_"), "default filename should carry the tiktok_ prefix, got %s", base)
	assert.True(t, strings.HasSuffix(base, ".json"))

	_, err = os.Stat(result.Path)
	assert.NoError(t, err)
}

func TestNewBuildsScraperFromConfig(t *testing.T) {
	cfg := testConfig(t)

	scraper, err := New(cfg)
	require.NoError(t, err)
	require.NotNil(t, scraper)
	assert.NotNil(t, scraper.client)
	assert.NotNil(t, scraper.store)
	assert.NotNil(t, scraper.Metrics)
}
