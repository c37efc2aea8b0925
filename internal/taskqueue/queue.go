package taskqueue

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Queue is an unbounded FIFO of jobs, safe for any number of concurrent
// producers and a single consumer.
//
// Enqueue never blocks. Dequeue waits on a buffered signal channel so it can
// also observe context cancellation.
type Queue struct {
	mu sync.Mutex

	// jobs holds pending jobs in FIFO order
	jobs []Job

	closed bool

	// signal has a buffer of 1; multiple enqueues coalesce into one wakeup
	signal chan struct{}

	// done is closed by Close to wake a waiting consumer
	done chan struct{}
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{
		jobs:   make([]Job, 0, 16),
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Enqueue appends a job and returns its id.
func (q *Queue) Enqueue(job Job) (string, error) {
	if job.Action == nil {
		return "", ErrNilAction
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	job.EnqueuedAt = time.Now()

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return "", ErrQueueClosed
	}

	q.jobs = append(q.jobs, job)

	select {
	case q.signal <- struct{}{}:
	default:
	}

	return job.ID, nil
}

// Dequeue removes and returns the oldest job, blocking until one is
// available. It returns ctx.Err() if the context is cancelled first, and
// ErrQueueClosed once the queue is closed and empty.
func (q *Queue) Dequeue(ctx context.Context) (Job, error) {
	for {
		if job, ok := q.tryDequeue(); ok {
			return job, nil
		}

		q.mu.Lock()
		closed := q.closed && len(q.jobs) == 0
		q.mu.Unlock()
		if closed {
			return Job{}, ErrQueueClosed
		}

		select {
		case <-ctx.Done():
			return Job{}, ctx.Err()
		case <-q.signal:
		case <-q.done:
		}
	}
}

func (q *Queue) tryDequeue() (Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.jobs) == 0 {
		return Job{}, false
	}

	job := q.jobs[0]

	// Clear the slot so the backing array does not retain the closures.
	q.jobs[0] = Job{}
	if len(q.jobs) == 1 {
		q.jobs = q.jobs[:0]
	} else {
		q.jobs = q.jobs[1:]
	}

	return job, true
}

// Len returns the number of pending jobs.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

// Close stops accepting jobs. Pending jobs can still be dequeued.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.done)
}
