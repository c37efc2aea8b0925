package taskqueue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorker_ExecutesInFIFOOrder(t *testing.T) {
	captureLogs(t)
	q := NewQueue()
	startWorker(t, q)

	var mu sync.Mutex
	var order []string
	record := func(name string) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, name)
	}

	releaseA := make(chan struct{})
	aStarted := make(chan struct{})
	bDone := make(chan struct{})

	_, err := q.Enqueue(NewJob("A", func(ctx context.Context) error {
		close(aStarted)
		<-releaseA
		record("A")
		return nil
	}, nil))
	require.NoError(t, err)

	waitFor(t, aStarted, "job A to start")

	// B is enqueued while A is still running.
	_, err = q.Enqueue(NewJob("B", func(ctx context.Context) error {
		record("B")
		close(bDone)
		return nil
	}, nil))
	require.NoError(t, err)

	close(releaseA)
	waitFor(t, bDone, "job B to finish")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"A", "B"}, order)
}

func TestWorker_IsolatesFailures(t *testing.T) {
	logs := captureLogs(t)
	q := NewQueue()
	worker, _ := startWorker(t, q)

	var completed atomic.Bool
	_, err := q.Enqueue(NewJob("failing-job", func(ctx context.Context) error {
		return errors.New("remote store unavailable")
	}, func(JobCompletion) {
		completed.Store(true)
	}))
	require.NoError(t, err)

	nextDone := make(chan struct{})
	_, err = q.Enqueue(NewJob("next-job", func(ctx context.Context) error {
		close(nextDone)
		return nil
	}, nil))
	require.NoError(t, err)

	waitFor(t, nextDone, "next job to run")

	assert.False(t, completed.Load(), "completion callback must not run for a failed job")
	assert.Eventually(t, func() bool {
		return logs.Contains("Error occurred in background task failing-job")
	}, time.Second, 10*time.Millisecond)
	assert.True(t, logs.Contains("remote store unavailable"))
	assert.Eventually(t, func() bool {
		stats := worker.Stats()
		return stats.Failed == 1 && stats.Processed == 1
	}, time.Second, 10*time.Millisecond)
}

func TestWorker_RecoversFromPanic(t *testing.T) {
	logs := captureLogs(t)
	q := NewQueue()
	worker, _ := startWorker(t, q)

	_, err := q.Enqueue(NewJob("panicking-job", func(ctx context.Context) error {
		panic("boom")
	}, nil))
	require.NoError(t, err)

	nextDone := make(chan struct{})
	_, err = q.Enqueue(NewJob("after-panic", func(ctx context.Context) error {
		close(nextDone)
		return nil
	}, nil))
	require.NoError(t, err)

	waitFor(t, nextDone, "job after panic to run")

	assert.Eventually(t, func() bool {
		return logs.Contains("Error occurred in background task panicking-job")
	}, time.Second, 10*time.Millisecond)
	assert.True(t, logs.Contains("panic: boom"))
	assert.NotEqual(t, StateStopped, worker.State())
}

func TestWorker_CompletionCallback(t *testing.T) {
	captureLogs(t)
	q := NewQueue()
	startWorker(t, q)

	completions := make(chan JobCompletion, 1)
	id, err := q.Enqueue(NewJob("timed", func(ctx context.Context) error {
		time.Sleep(20 * time.Millisecond)
		return nil
	}, func(c JobCompletion) {
		completions <- c
	}))
	require.NoError(t, err)

	select {
	case c := <-completions:
		assert.Equal(t, id, c.Job.ID)
		assert.Equal(t, "timed", c.Job.Name)
		assert.GreaterOrEqual(t, c.Duration, 20*time.Millisecond)
		assert.GreaterOrEqual(t, c.Waited, time.Duration(0))
	case <-time.After(2 * time.Second):
		t.Fatal("completion callback was not called")
	}
}

func TestWorker_CompletionCallbackPanicIsContained(t *testing.T) {
	logs := captureLogs(t)
	q := NewQueue()
	startWorker(t, q)

	_, err := q.Enqueue(NewJob("bad-callback", func(ctx context.Context) error {
		return nil
	}, func(JobCompletion) {
		panic("callback exploded")
	}))
	require.NoError(t, err)

	nextDone := make(chan struct{})
	_, err = q.Enqueue(NewJob("after-callback", func(ctx context.Context) error {
		close(nextDone)
		return nil
	}, nil))
	require.NoError(t, err)

	waitFor(t, nextDone, "job after callback panic")
	assert.True(t, logs.Contains("Completion callback of background task bad-callback panicked"))
}

func TestWorker_StopsOnCancellation(t *testing.T) {
	logs := captureLogs(t)
	q := NewQueue()
	worker := NewWorker(q)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	assert.Eventually(t, func() bool {
		return worker.State() == StateDraining
	}, time.Second, 5*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancellation")
	}

	assert.Equal(t, StateStopped, worker.State())
	assert.True(t, logs.Contains("Task queue worker is starting"))
	assert.True(t, logs.Contains("Task queue worker is stopping"))
}

func TestWorker_CancelledJobIsNotAnError(t *testing.T) {
	logs := captureLogs(t)
	q := NewQueue()
	worker := NewWorker(q)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	started := make(chan struct{})
	_, err := q.Enqueue(NewJob("long-running", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}, nil))
	require.NoError(t, err)

	waitFor(t, started, "long-running job to start")
	assert.Equal(t, StateExecuting, worker.State())
	assert.Equal(t, "long-running", worker.Stats().CurrentJob)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}

	assert.False(t, logs.Contains("Error occurred in background task long-running"))
	assert.True(t, logs.Contains("Background task long-running cancelled by shutdown"))
	assert.Zero(t, worker.Stats().Failed)
}

func TestWorker_DrainsClosedQueue(t *testing.T) {
	captureLogs(t)
	q := NewQueue()
	worker := NewWorker(q)

	var ran atomic.Int32
	for i := 0; i < 3; i++ {
		_, err := q.Enqueue(NewJob("pending", func(ctx context.Context) error {
			ran.Add(1)
			return nil
		}, nil))
		require.NoError(t, err)
	}
	q.Close()

	err := worker.Run(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 3, ran.Load())
	assert.Equal(t, StateStopped, worker.State())

	stats := worker.Stats()
	assert.EqualValues(t, 3, stats.Processed)
	assert.Zero(t, stats.QueueLength)
}

func TestWorker_SerializesConcurrentProducers(t *testing.T) {
	captureLogs(t)
	q := NewQueue()
	startWorker(t, q)

	const total = 50

	var running, maxRunning atomic.Int32
	var wg sync.WaitGroup
	wg.Add(total)

	action := func(ctx context.Context) error {
		defer wg.Done()
		n := running.Add(1)
		for {
			m := maxRunning.Load()
			if n <= m || maxRunning.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		running.Add(-1)
		return nil
	}

	var producers sync.WaitGroup
	for p := 0; p < 5; p++ {
		producers.Add(1)
		go func() {
			defer producers.Done()
			for i := 0; i < total/5; i++ {
				_, err := q.Enqueue(NewJob("concurrent", action, nil))
				assert.NoError(t, err)
			}
		}()
	}
	producers.Wait()

	allDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(allDone)
	}()
	waitFor(t, allDone, "all jobs to run")

	assert.EqualValues(t, 1, maxRunning.Load())
}
