package taskqueue

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"standardsync/pkg/logging"
)

const subsystem = "TaskQueue"

// Worker is the single consumer of a Queue. It executes jobs one at a time
// and isolates each job's failure from the loop.
type Worker struct {
	queue *Queue

	mu         sync.RWMutex
	state      WorkerState
	currentJob string
	processed  int64
	failed     int64
}

// NewWorker creates a worker for the queue. Call Run to start it.
func NewWorker(queue *Queue) *Worker {
	return &Worker{
		queue: queue,
		state: StateIdle,
	}
}

// Run drains the queue until ctx is cancelled or the queue is closed and
// empty. Jobs receive ctx, so cancelling it also asks the running job to stop.
//
// Run returns nil on graceful shutdown.
func (w *Worker) Run(ctx context.Context) error {
	logging.Info(subsystem, "Task queue worker is starting")
	defer func() {
		w.setState(StateStopped, "")
		logging.Info(subsystem, "Task queue worker is stopping")
	}()

	for {
		w.setState(StateDraining, "")

		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, ErrQueueClosed) {
				logging.Debug(subsystem, "Queue closed and drained")
				return nil
			}
			if ctx.Err() != nil {
				logging.Debug(subsystem, "Wait for next job cancelled: %v", err)
				return nil
			}
			return fmt.Errorf("failed to dequeue job: %w", err)
		}

		w.execute(ctx, job)
		w.setState(StateIdle, "")
	}
}

// execute runs one job and fires its completion callback on success.
func (w *Worker) execute(ctx context.Context, job Job) {
	w.setState(StateExecuting, job.Name)
	logging.Debug(subsystem, "Executing background task %s (%s)", job.Name, job.ID)

	started := time.Now()
	err := invoke(ctx, job)
	duration := time.Since(started)

	switch {
	case err == nil:
		w.mu.Lock()
		w.processed++
		w.mu.Unlock()
		w.complete(job, JobCompletion{
			Job:      job,
			Duration: duration,
			Waited:   started.Sub(job.EnqueuedAt),
		})

	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		logging.Info(subsystem, "Background task %s cancelled by shutdown after %v", job.Name, duration)

	default:
		w.mu.Lock()
		w.failed++
		w.mu.Unlock()
		logging.Error(subsystem, err, "Error occurred in background task %s", job.Name)
	}
}

// invoke calls the job action, converting a panic into an error.
func invoke(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return job.Action(ctx)
}

func (w *Worker) complete(job Job, completion JobCompletion) {
	if job.OnComplete == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logging.Error(subsystem, fmt.Errorf("panic: %v", r), "Completion callback of background task %s panicked", job.Name)
		}
	}()
	job.OnComplete(completion)
}

func (w *Worker) setState(state WorkerState, jobName string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = state
	w.currentJob = jobName
}

// State returns the current worker state.
func (w *Worker) State() WorkerState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// Stats returns counters and the current state.
func (w *Worker) Stats() WorkerStats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return WorkerStats{
		State:       w.state,
		CurrentJob:  w.currentJob,
		Processed:   w.processed,
		Failed:      w.failed,
		QueueLength: w.queue.Len(),
	}
}
