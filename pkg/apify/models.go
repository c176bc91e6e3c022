package apify

import "time"

// RunStatus is the lifecycle state of an actor run
type RunStatus string

const (
	RunStatusReady     RunStatus = "READY"
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusSucceeded RunStatus = "SUCCEEDED"
	RunStatusFailed    RunStatus = "FAILED"
	RunStatusTimingOut RunStatus = "TIMING-OUT"
	RunStatusTimedOut  RunStatus = "TIMED-OUT"
	RunStatusAborting  RunStatus = "ABORTING"
	RunStatusAborted   RunStatus = "ABORTED"
)

// Terminal reports whether the run has reached a final state.
func (s RunStatus) Terminal() bool {
	switch s {
	case RunStatusSucceeded, RunStatusFailed, RunStatusTimedOut, RunStatusAborted:
		return true
	}
	return false
}

// Succeeded reports whether the run finished successfully.
func (s RunStatus) Succeeded() bool {
	return s == RunStatusSucceeded
}

// Run represents one actor run on the platform
type Run struct {
	ID               string     `json:"id"`
	ActorID          string     `json:"actId"`
	Status           RunStatus  `json:"status"`
	StatusMessage    string     `json:"statusMessage"`
	StartedAt        time.Time  `json:"startedAt"`
	FinishedAt       *time.Time `json:"finishedAt"`
	DefaultDatasetID string     `json:"defaultDatasetId"`
	ExitCode         *int       `json:"exitCode"`
}

// runEnvelope wraps a run in the platform's response envelope
type runEnvelope struct {
	Data Run `json:"data"`
}

// User identifies the account behind a token
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// userEnvelope wraps a user in the platform's response envelope
type userEnvelope struct {
	Data User `json:"data"`
}

// Record is one dataset item as delivered by the provider: an opaque
// mapping of field names to values, passed through unmodified.
type Record = map[string]interface{}
