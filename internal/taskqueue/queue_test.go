package taskqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(ctx context.Context) error { return nil }

func TestQueue_EnqueueAndDequeue(t *testing.T) {
	q := NewQueue()

	id, err := q.Enqueue(NewJob("update-standards", noop, nil))
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, q.Len())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	job, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, job.ID)
	assert.Equal(t, "update-standards", job.Name)
	assert.False(t, job.EnqueuedAt.IsZero())
	assert.Zero(t, q.Len())
}

func TestQueue_KeepsProvidedID(t *testing.T) {
	q := NewQueue()

	id, err := q.Enqueue(Job{ID: "fixed", Name: "x", Action: noop})
	require.NoError(t, err)
	assert.Equal(t, "fixed", id)
}

func TestQueue_RejectsNilAction(t *testing.T) {
	q := NewQueue()

	_, err := q.Enqueue(Job{Name: "empty"})
	assert.ErrorIs(t, err, ErrNilAction)
	assert.Zero(t, q.Len())
}

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue()
	for i := 0; i < 5; i++ {
		_, err := q.Enqueue(NewJob(fmt.Sprintf("job-%d", i), noop, nil))
		require.NoError(t, err)
	}

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		job, err := q.Dequeue(ctx)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("job-%d", i), job.Name)
	}
}

func TestQueue_DequeueBlocksUntilEnqueue(t *testing.T) {
	q := NewQueue()

	got := make(chan Job, 1)
	go func() {
		job, err := q.Dequeue(context.Background())
		if err == nil {
			got <- job
		}
	}()

	time.Sleep(50 * time.Millisecond)
	_, err := q.Enqueue(NewJob("late", noop, nil))
	require.NoError(t, err)

	select {
	case job := <-got:
		assert.Equal(t, "late", job.Name)
	case <-time.After(time.Second):
		t.Fatal("Dequeue did not unblock after Enqueue")
	}
}

func TestQueue_DequeueCancelled(t *testing.T) {
	q := NewQueue()

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() {
		_, err := q.Dequeue(ctx)
		result <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-result:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(time.Second):
		t.Fatal("Dequeue did not unblock after cancellation")
	}
}

func TestQueue_Close(t *testing.T) {
	q := NewQueue()
	_, err := q.Enqueue(NewJob("pending", noop, nil))
	require.NoError(t, err)

	q.Close()
	q.Close()

	_, err = q.Enqueue(NewJob("rejected", noop, nil))
	assert.ErrorIs(t, err, ErrQueueClosed)

	job, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pending", job.Name)

	_, err = q.Dequeue(context.Background())
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestQueue_CloseWakesWaitingConsumer(t *testing.T) {
	q := NewQueue()

	result := make(chan error, 1)
	go func() {
		_, err := q.Dequeue(context.Background())
		result <- err
	}()

	time.Sleep(50 * time.Millisecond)
	q.Close()

	select {
	case err := <-result:
		assert.ErrorIs(t, err, ErrQueueClosed)
	case <-time.After(time.Second):
		t.Fatal("Dequeue did not unblock after Close")
	}
}

func TestQueue_ConcurrentProducers(t *testing.T) {
	q := NewQueue()

	const producers = 8
	const perProducer = 25

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				_, err := q.Enqueue(NewJob(fmt.Sprintf("p%d-%d", p, i), noop, nil))
				assert.NoError(t, err)
			}
		}(p)
	}
	wg.Wait()

	assert.Equal(t, producers*perProducer, q.Len())

	seen := make(map[string]bool)
	lastIndex := make(map[int]int)
	for i := 0; i < producers*perProducer; i++ {
		job, err := q.Dequeue(context.Background())
		require.NoError(t, err)
		require.False(t, seen[job.Name], "duplicate job %s", job.Name)
		seen[job.Name] = true

		// Per-producer order is preserved.
		var p, n int
		_, err = fmt.Sscanf(job.Name, "p%d-%d", &p, &n)
		require.NoError(t, err)
		if last, ok := lastIndex[p]; ok {
			assert.Greater(t, n, last)
		}
		lastIndex[p] = n
	}
}
