package apify

import (
	"context"
	"errors"
	"time"
)

// ErrWaitTimeout indicates the run did not reach a terminal status within
// the allowed wait budget.
var ErrWaitTimeout = errors.New("actor run did not finish within the wait budget")

// StartRun submits one run of the given actor with the supplied input and
// returns the created run. The run executes asynchronously; follow up with
// WaitForRun.
func (c *Client) StartRun(ctx context.Context, actorID string, input interface{}) (*Run, error) {
	c.logger.DebugWithFields("starting actor run", map[string]interface{}{
		"actor_id": actorID,
	})

	var envelope runEnvelope
	if err := c.PostJSON(ctx, ActorRunsPath(actorID), input, &envelope); err != nil {
		c.logger.ErrorWithFields("failed to start actor run", map[string]interface{}{
			"actor_id": actorID,
			"error":    err.Error(),
		})
		return nil, err
	}

	c.logger.InfoWithFields("actor run started", map[string]interface{}{
		"actor_id":   actorID,
		"run_id":     envelope.Data.ID,
		"dataset_id": envelope.Data.DefaultDatasetID,
	})

	return &envelope.Data, nil
}

// GetRun fetches the current state of a run
func (c *Client) GetRun(ctx context.Context, runID string) (*Run, error) {
	var envelope runEnvelope
	if err := c.GetJSON(ctx, RunPath(runID), &envelope); err != nil {
		c.logger.ErrorWithFields("failed to fetch actor run", map[string]interface{}{
			"run_id": runID,
			"error":  err.Error(),
		})
		return nil, err
	}
	return &envelope.Data, nil
}

// WaitForRun polls the run at a fixed interval until it reaches a terminal
// status. When maxWait elapses first it returns ErrWaitTimeout; the run
// keeps executing on the platform in that case.
func (c *Client) WaitForRun(ctx context.Context, runID string, interval, maxWait time.Duration) (*Run, error) {
	deadline := time.Now().Add(maxWait)

	for {
		run, err := c.GetRun(ctx, runID)
		if err != nil {
			return nil, err
		}

		if run.Status.Terminal() {
			c.logger.InfoWithFields("actor run finished", map[string]interface{}{
				"run_id": runID,
				"status": string(run.Status),
			})
			return run, nil
		}

		if time.Now().After(deadline) {
			c.logger.WarnWithFields("gave up waiting for actor run", map[string]interface{}{
				"run_id":   runID,
				"status":   string(run.Status),
				"max_wait": maxWait,
			})
			return nil, ErrWaitTimeout
		}

		c.logger.DebugWithFields("actor run still in progress", map[string]interface{}{
			"run_id": runID,
			"status": string(run.Status),
		})

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}
}

// Me fetches the account behind the configured token. Used to verify a
// token before storing it.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var envelope userEnvelope
	if err := c.GetJSON(ctx, UserMePath(), &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}
