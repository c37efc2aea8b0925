package reconciler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReconcilerMetrics_RecordRun(t *testing.T) {
	m := NewReconcilerMetrics()
	start := time.Now()

	m.RecordRun(&RunResult{
		RunID:    "run-1",
		Outcome:  OutcomeConverged,
		Attempts: 1,
		Documents: []DocumentResult{
			{ID: "a", State: StateCreated},
			{ID: "b", State: StateSkipped},
		},
		StartedAt:  start,
		FinishedAt: start.Add(2 * time.Second),
	})
	m.RecordRun(&RunResult{
		RunID:    "run-2",
		Outcome:  OutcomeCompletedWithFailures,
		Attempts: 3,
		Failures: FailureSet{"c"},
		Documents: []DocumentResult{
			{ID: "a", State: StateSkipped},
			{ID: "c", State: StateFailed},
		},
		StartedAt:  start,
		FinishedAt: start.Add(time.Second),
	})

	summary := m.Summary()
	assert.Equal(t, int64(2), summary.TotalRuns)
	assert.Equal(t, int64(1), summary.TotalConvergedRuns)
	assert.Equal(t, int64(1), summary.TotalIncompleteRuns)
	assert.Equal(t, int64(4), summary.TotalAttempts)
	assert.Equal(t, int64(1), summary.TotalCreated)
	assert.Equal(t, int64(2), summary.TotalSkipped)
	assert.Equal(t, int64(1), summary.TotalFailedDocuments)
	assert.Equal(t, OutcomeCompletedWithFailures, summary.LastOutcome)
	assert.InDelta(t, 1.0, summary.LastDurationSeconds, 0.001)
	assert.InDelta(t, 0.5, summary.RunFailureRate, 0.001)
}

func TestReconcilerMetrics_RecordRunError(t *testing.T) {
	m := NewReconcilerMetrics()
	m.RecordRunError()

	summary := m.Summary()
	assert.Equal(t, int64(1), summary.TotalRuns)
	assert.Equal(t, int64(1), summary.TotalRunErrors)
	assert.InDelta(t, 1.0, summary.RunFailureRate, 0.001)
	assert.False(t, summary.LastFailureAt.IsZero())
}

func TestReconcilerMetrics_Reset(t *testing.T) {
	m := NewReconcilerMetrics()
	m.RecordRunError()
	m.Reset()

	assert.Equal(t, ReconcilerMetricsSummary{}, m.Summary())
}

func TestGetReconcilerMetrics_Singleton(t *testing.T) {
	assert.Same(t, GetReconcilerMetrics(), GetReconcilerMetrics())
}
