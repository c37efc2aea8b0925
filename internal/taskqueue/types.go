package taskqueue

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrQueueClosed is returned by Enqueue after Close, and by Dequeue once
	// a closed queue has been drained.
	ErrQueueClosed = errors.New("task queue is closed")

	// ErrNilAction is returned when a job without an action is enqueued.
	ErrNilAction = errors.New("job action is required")
)

// Action is the deferred work of a job. It must observe ctx cooperatively.
type Action func(ctx context.Context) error

// CompletionFunc is called after an action returns without error.
type CompletionFunc func(JobCompletion)

// Job is a named unit of deferred work.
//
// A Job is owned by the queue from Enqueue until a worker dequeues it, and
// by that worker until its completion callback returns.
type Job struct {
	// ID uniquely identifies the job. Assigned on enqueue when empty.
	ID string

	// Name is used in logs.
	Name string

	// Action is the work to execute. Required.
	Action Action

	// OnComplete, if set, is called with the elapsed time after Action
	// returns nil. It is not called when Action fails.
	OnComplete CompletionFunc

	// EnqueuedAt is set by the queue.
	EnqueuedAt time.Time
}

// NewJob builds a job from its parts.
func NewJob(name string, action Action, onComplete CompletionFunc) Job {
	return Job{
		Name:       name,
		Action:     action,
		OnComplete: onComplete,
	}
}

// JobCompletion is passed to a job's OnComplete callback.
type JobCompletion struct {
	Job Job

	// Duration is how long Action took.
	Duration time.Duration

	// Waited is how long the job sat in the queue before it started.
	Waited time.Duration
}

// WorkerState describes what the worker is currently doing.
type WorkerState string

const (
	// StateIdle means the worker is between jobs.
	StateIdle WorkerState = "Idle"

	// StateDraining means the worker is waiting for the next job.
	StateDraining WorkerState = "Draining"

	// StateExecuting means a job is running.
	StateExecuting WorkerState = "Executing"

	// StateStopped means the worker loop has exited.
	StateStopped WorkerState = "Stopped"
)

// WorkerStats is a point-in-time view of the worker.
type WorkerStats struct {
	State       WorkerState `json:"state"`
	CurrentJob  string      `json:"currentJob,omitempty"`
	Processed   int64       `json:"processed"`
	Failed      int64       `json:"failed"`
	QueueLength int         `json:"queueLength"`
}
