package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"standardsync/internal/reconciler"
	"standardsync/internal/taskqueue"
	"standardsync/pkg/logging"
)

// JobName is the name of reconciliation jobs in the queue and in logs.
const JobName = "UpdateStandards"

// ErrDisabled is returned by Trigger when updateStandards.enabled is false.
var ErrDisabled = errors.New("standards update is disabled")

// Runner is the part of the engine a run job needs.
type Runner interface {
	Run(ctx context.Context) (*reconciler.RunResult, error)
}

// LatestRun is what the service remembers about the most recent run.
type LatestRun struct {
	JobID      string                `json:"jobId"`
	Trigger    string                `json:"trigger"`
	Result     *reconciler.RunResult `json:"result,omitempty"`
	Error      string                `json:"error,omitempty"`
	FinishedAt time.Time             `json:"finishedAt"`
}

// RunTracker enqueues reconciliation jobs and keeps the latest outcome.
type RunTracker struct {
	queue   *taskqueue.Queue
	runner  Runner
	enabled bool

	mu     sync.RWMutex
	latest *LatestRun
}

// NewRunTracker creates a tracker that enqueues runs of runner onto queue.
func NewRunTracker(queue *taskqueue.Queue, runner Runner, enabled bool) *RunTracker {
	return &RunTracker{
		queue:   queue,
		runner:  runner,
		enabled: enabled,
	}
}

// Enabled reports whether triggers may enqueue runs.
func (t *RunTracker) Enabled() bool {
	return t.enabled
}

// Trigger enqueues a run on behalf of a trigger such as "timer" or "http".
// It returns ErrDisabled without enqueueing when updates are disabled.
func (t *RunTracker) Trigger(trigger string) (string, error) {
	if !t.enabled {
		logging.Info("Trigger", "%s trigger ignored, standards update is disabled", trigger)
		return "", ErrDisabled
	}
	return t.Enqueue(trigger)
}

// Enqueue adds a run job regardless of the enabled flag.
func (t *RunTracker) Enqueue(trigger string) (string, error) {
	jobID := uuid.NewString()

	job := taskqueue.NewJob(JobName, nil, func(c taskqueue.JobCompletion) {
		result := t.Latest()
		outcome := "unknown"
		if result != nil && result.Result != nil {
			outcome = string(result.Result.Outcome)
		}
		logging.Info("Trigger", "%s (%s) completed in %v after waiting %v: %s",
			c.Job.Name, trigger, c.Duration.Round(time.Millisecond), c.Waited.Round(time.Millisecond), outcome)
	})
	job.ID = jobID
	job.Action = func(ctx context.Context) error {
		result, err := t.runner.Run(ctx)
		t.record(jobID, trigger, result, err)
		if err != nil {
			return fmt.Errorf("standards update failed: %w", err)
		}
		return nil
	}

	id, err := t.queue.Enqueue(job)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue %s: %w", JobName, err)
	}

	logging.Info("Trigger", "%s has been triggered, started job %s", trigger, id)
	return id, nil
}

func (t *RunTracker) record(jobID, trigger string, result *reconciler.RunResult, err error) {
	latest := &LatestRun{
		JobID:      jobID,
		Trigger:    trigger,
		Result:     result,
		FinishedAt: time.Now(),
	}
	if err != nil {
		latest.Error = reconciler.SanitizeErrorMessage(err.Error())
	}

	t.mu.Lock()
	t.latest = latest
	t.mu.Unlock()
}

// Latest returns the most recent run, or nil if none finished yet.
func (t *RunTracker) Latest() *LatestRun {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.latest
}
