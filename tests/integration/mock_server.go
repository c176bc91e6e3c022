package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
)

// MockApifyServer simulates the platform endpoints the pipeline touches:
// starting an actor run, polling it, listing dataset items, and the
// token-verification endpoint.
type MockApifyServer struct {
	server *httptest.Server

	mu             sync.Mutex
	items          []map[string]interface{}
	finalStatus    string
	statusMessage  string
	pollsUntilDone int
	startCode      int    // non-zero forces this HTTP status from the start endpoint
	expectedToken  string // non-empty enforces bearer auth on every request
	lastInput      map[string]interface{}

	startCalls int32
	pollCalls  int32
	itemCalls  int32
}

// NewMockApifyServer creates a mock platform that immediately succeeds runs
// and serves an empty dataset until configured otherwise.
func NewMockApifyServer() *MockApifyServer {
	m := &MockApifyServer{
		finalStatus:    "SUCCEEDED",
		pollsUntilDone: 1,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v2/acts/{actorID}/runs", m.handleStartRun)
	mux.HandleFunc("GET /v2/actor-runs/{runID}", m.handleGetRun)
	mux.HandleFunc("GET /v2/datasets/{datasetID}/items", m.handleDatasetItems)
	mux.HandleFunc("GET /v2/users/me", m.handleMe)

	m.server = httptest.NewServer(mux)
	return m
}

func (m *MockApifyServer) handleStartRun(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.startCalls, 1)

	if !m.authorized(r) {
		m.sendError(w, http.StatusUnauthorized, "token-not-found", "Authentication token is not valid")
		return
	}

	m.mu.Lock()
	startCode := m.startCode
	m.mu.Unlock()
	if startCode != 0 {
		m.sendError(w, startCode, "actor-start-failed", "The actor run could not be started")
		return
	}

	var input map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		m.sendError(w, http.StatusBadRequest, "invalid-input", "Request body is not valid JSON")
		return
	}

	m.mu.Lock()
	m.lastInput = input
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data": map[string]interface{}{
			"id":               "run-1",
			"actId":            r.PathValue("actorID"),
			"status":           "READY",
			"defaultDatasetId": "ds-1",
		},
	})
}

func (m *MockApifyServer) handleGetRun(w http.ResponseWriter, r *http.Request) {
	polls := atomic.AddInt32(&m.pollCalls, 1)

	if !m.authorized(r) {
		m.sendError(w, http.StatusUnauthorized, "token-not-found", "Authentication token is not valid")
		return
	}

	m.mu.Lock()
	status := "RUNNING"
	message := ""
	if int(polls) >= m.pollsUntilDone {
		status = m.finalStatus
		message = m.statusMessage
	}
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data": map[string]interface{}{
			"id":               r.PathValue("runID"),
			"status":           status,
			"statusMessage":    message,
			"defaultDatasetId": "ds-1",
		},
	})
}

func (m *MockApifyServer) handleDatasetItems(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.itemCalls, 1)

	if !m.authorized(r) {
		m.sendError(w, http.StatusUnauthorized, "token-not-found", "Authentication token is not valid")
		return
	}

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 1000
	}

	m.mu.Lock()
	items := m.items
	m.mu.Unlock()

	page := []map[string]interface{}{}
	if offset < len(items) {
		end := offset + limit
		if end > len(items) {
			end = len(items)
		}
		page = items[offset:end]
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(page)
}

func (m *MockApifyServer) handleMe(w http.ResponseWriter, r *http.Request) {
	if !m.authorized(r) {
		m.sendError(w, http.StatusUnauthorized, "token-not-found", "Authentication token is not valid")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data": map[string]interface{}{
			"id":       "user-1",
			"username": "mock-account",
		},
	})
}

// authorized checks the bearer header when an expected token is configured
func (m *MockApifyServer) authorized(r *http.Request) bool {
	m.mu.Lock()
	expected := m.expectedToken
	m.mu.Unlock()

	if expected == "" {
		return true
	}
	return r.Header.Get("Authorization") == "Bearer "+expected
}

// sendError responds with the platform's error envelope
func (m *MockApifyServer) sendError(w http.ResponseWriter, code int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"type":    errType,
			"message": message,
		},
	})
}

// URL returns the base URL of the mock server
func (m *MockApifyServer) URL() string {
	return m.server.URL
}

// Close shuts down the mock server
func (m *MockApifyServer) Close() {
	m.server.Close()
}

// SetItems configures the dataset items served after a successful run
func (m *MockApifyServer) SetItems(items []map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = items
}

// SetFinalStatus configures the terminal status the run reaches
func (m *MockApifyServer) SetFinalStatus(status, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finalStatus = status
	m.statusMessage = message
}

// SetPollsUntilDone makes the run stay RUNNING for the first n-1 polls
func (m *MockApifyServer) SetPollsUntilDone(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pollsUntilDone = n
}

// SetStartFailure makes the start endpoint fail with the given HTTP status
func (m *MockApifyServer) SetStartFailure(code int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startCode = code
}

// RequireToken enforces bearer authentication with the given token
func (m *MockApifyServer) RequireToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expectedToken = token
}

// LastInput returns the actor input captured by the start endpoint
func (m *MockApifyServer) LastInput() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastInput
}

// StartCalls returns how many runs were started
func (m *MockApifyServer) StartCalls() int {
	return int(atomic.LoadInt32(&m.startCalls))
}

// PollCalls returns how many times a run status was fetched
func (m *MockApifyServer) PollCalls() int {
	return int(atomic.LoadInt32(&m.pollCalls))
}

// ItemCalls returns how many dataset pages were requested
func (m *MockApifyServer) ItemCalls() int {
	return int(atomic.LoadInt32(&m.itemCalls))
}
