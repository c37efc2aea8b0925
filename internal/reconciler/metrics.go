package reconciler

import (
	"sync"
	"time"

	"standardsync/pkg/logging"
)

// ReconcilerMetrics tracks reconciliation run metrics for monitoring and alerting.
//
// Counters accumulate over the life of the process and are exposed through
// the service's latest-run endpoint.
type ReconcilerMetrics struct {
	mu sync.RWMutex

	totalRuns            int64
	totalConvergedRuns   int64
	totalIncompleteRuns  int64
	totalRunErrors       int64
	totalAttempts        int64
	totalCreated         int64
	totalUpdated         int64
	totalSkipped         int64
	totalFailedDocuments int64

	lastRunAt     time.Time
	lastSuccessAt time.Time
	lastFailureAt time.Time
	lastOutcome   Outcome
	lastDuration  time.Duration
}

// NewReconcilerMetrics creates a new ReconcilerMetrics instance.
func NewReconcilerMetrics() *ReconcilerMetrics {
	return &ReconcilerMetrics{}
}

// RecordRun records a completed run.
func (m *ReconcilerMetrics) RecordRun(result *RunResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalRuns++
	m.totalAttempts += int64(result.Attempts)
	m.totalCreated += int64(result.Count(StateCreated))
	m.totalUpdated += int64(result.Count(StateUpdated))
	m.totalSkipped += int64(result.Count(StateSkipped))
	m.totalFailedDocuments += int64(len(result.Failures))

	m.lastRunAt = result.FinishedAt
	m.lastOutcome = result.Outcome
	m.lastDuration = result.Duration()

	if result.Converged() {
		m.totalConvergedRuns++
		m.lastSuccessAt = result.FinishedAt
	} else {
		m.totalIncompleteRuns++
		m.lastFailureAt = result.FinishedAt
	}

	logging.Debug("ReconcilerMetrics", "Recorded run %s (%s, %d attempts)", result.RunID, result.Outcome, result.Attempts)
}

// RecordRunError records a run that could not start because the desired
// state was unavailable.
func (m *ReconcilerMetrics) RecordRunError() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalRuns++
	m.totalRunErrors++
	m.lastRunAt = time.Now()
	m.lastFailureAt = m.lastRunAt
	m.lastOutcome = ""

	logging.Warn("ReconcilerMetrics", "Run failed before reconciliation (errors: %d)", m.totalRunErrors)
}

// ReconcilerMetricsSummary provides a summary of reconciliation metrics.
type ReconcilerMetricsSummary struct {
	TotalRuns            int64     `json:"total_runs"`
	TotalConvergedRuns   int64     `json:"total_converged_runs"`
	TotalIncompleteRuns  int64     `json:"total_incomplete_runs"`
	TotalRunErrors       int64     `json:"total_run_errors"`
	TotalAttempts        int64     `json:"total_attempts"`
	TotalCreated         int64     `json:"total_created"`
	TotalUpdated         int64     `json:"total_updated"`
	TotalSkipped         int64     `json:"total_skipped"`
	TotalFailedDocuments int64     `json:"total_failed_documents"`
	LastRunAt            time.Time `json:"last_run_at,omitempty"`
	LastSuccessAt        time.Time `json:"last_success_at,omitempty"`
	LastFailureAt        time.Time `json:"last_failure_at,omitempty"`
	LastOutcome          Outcome   `json:"last_outcome,omitempty"`
	LastDurationSeconds  float64   `json:"last_duration_seconds"`
	RunFailureRate       float64   `json:"run_failure_rate"`
}

// Summary returns a point-in-time copy of the metrics.
func (m *ReconcilerMetrics) Summary() ReconcilerMetricsSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summary := ReconcilerMetricsSummary{
		TotalRuns:            m.totalRuns,
		TotalConvergedRuns:   m.totalConvergedRuns,
		TotalIncompleteRuns:  m.totalIncompleteRuns,
		TotalRunErrors:       m.totalRunErrors,
		TotalAttempts:        m.totalAttempts,
		TotalCreated:         m.totalCreated,
		TotalUpdated:         m.totalUpdated,
		TotalSkipped:         m.totalSkipped,
		TotalFailedDocuments: m.totalFailedDocuments,
		LastRunAt:            m.lastRunAt,
		LastSuccessAt:        m.lastSuccessAt,
		LastFailureAt:        m.lastFailureAt,
		LastOutcome:          m.lastOutcome,
		LastDurationSeconds:  m.lastDuration.Seconds(),
	}

	if m.totalRuns > 0 {
		summary.RunFailureRate = float64(m.totalIncompleteRuns+m.totalRunErrors) / float64(m.totalRuns)
	}

	return summary
}

// Reset clears all counters.
func (m *ReconcilerMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalRuns, m.totalConvergedRuns, m.totalIncompleteRuns, m.totalRunErrors = 0, 0, 0, 0
	m.totalAttempts, m.totalCreated, m.totalUpdated, m.totalSkipped, m.totalFailedDocuments = 0, 0, 0, 0, 0
	m.lastRunAt, m.lastSuccessAt, m.lastFailureAt = time.Time{}, time.Time{}, time.Time{}
	m.lastOutcome = ""
	m.lastDuration = 0
}

// Global metrics instance for use by engines.
// This is initialized lazily and should be accessed via GetReconcilerMetrics().
var (
	globalReconcilerMetrics   *ReconcilerMetrics
	globalReconcilerMetricsMu sync.RWMutex
)

// GetReconcilerMetrics returns the global reconciler metrics instance.
// It creates the instance on first access (lazy initialization).
func GetReconcilerMetrics() *ReconcilerMetrics {
	globalReconcilerMetricsMu.RLock()
	if globalReconcilerMetrics != nil {
		defer globalReconcilerMetricsMu.RUnlock()
		return globalReconcilerMetrics
	}
	globalReconcilerMetricsMu.RUnlock()

	globalReconcilerMetricsMu.Lock()
	defer globalReconcilerMetricsMu.Unlock()

	// Double-check after acquiring write lock
	if globalReconcilerMetrics == nil {
		globalReconcilerMetrics = NewReconcilerMetrics()
	}
	return globalReconcilerMetrics
}
