package reconciler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"standardsync/pkg/logging"
)

// DefaultRetryLimit is the number of attempts per run when none is configured.
const DefaultRetryLimit = 3

const subsystem = "Reconciler"

// EngineConfig holds the collaborators and settings of an Engine.
type EngineConfig struct {
	// Source produces the desired state. Required.
	Source StandardsSource

	// Store is the remote document store. Required.
	Store RemoteStore

	// Diff classifies documents. Defaults to a DiffEngine with default
	// message templates and no committer.
	Diff *DiffEngine

	// RetryLimit is the maximum number of attempts per run.
	// Defaults to DefaultRetryLimit if not specified.
	RetryLimit int

	// Metrics receives run results. Defaults to the global metrics instance.
	Metrics *ReconcilerMetrics
}

// Engine runs full reconciliation passes: it fetches the desired state once
// and then retries only the documents that failed, up to the retry limit.
//
// An Engine holds no per-run state, so Run may be called repeatedly. Documents
// are processed one at a time in id order.
type Engine struct {
	source     StandardsSource
	store      RemoteStore
	diff       *DiffEngine
	retryLimit int
	metrics    *ReconcilerMetrics
}

// NewEngine creates a new reconciliation engine.
func NewEngine(config EngineConfig) (*Engine, error) {
	if config.Source == nil {
		return nil, errors.New("standards source is required")
	}
	if config.Store == nil {
		return nil, errors.New("remote store is required")
	}
	if config.Diff == nil {
		diff, err := NewDiffEngine(Committer{}, DefaultMessageTemplates)
		if err != nil {
			return nil, err
		}
		config.Diff = diff
	}
	if config.RetryLimit <= 0 {
		config.RetryLimit = DefaultRetryLimit
	}
	if config.Metrics == nil {
		config.Metrics = GetReconcilerMetrics()
	}

	return &Engine{
		source:     config.Source,
		store:      config.Store,
		diff:       config.Diff,
		retryLimit: config.RetryLimit,
		metrics:    config.Metrics,
	}, nil
}

// RetryLimit returns the configured attempt ceiling.
func (e *Engine) RetryLimit() int {
	return e.retryLimit
}

// Run executes one reconciliation run.
//
// An error is returned only when the desired state cannot be fetched.
// Documents still failing after the last attempt are reported through
// RunResult.Failures with OutcomeCompletedWithFailures.
func (e *Engine) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}

	desired, err := e.source.FetchAll(ctx)
	if err != nil {
		e.metrics.RecordRunError()
		return nil, fmt.Errorf("failed to fetch desired state: %w", err)
	}

	logging.Info(subsystem, "Run %s retrieved %d standards", result.RunID, len(desired))

	tracker := make(map[string]*DocumentResult, len(desired))
	for id := range desired {
		tracker[id] = &DocumentResult{ID: id, State: StateFailed}
	}

	batch := NewBatch(desired)
	for len(batch) > 0 && result.Attempts < e.retryLimit {
		if ctx.Err() != nil {
			result.Interrupted = true
			break
		}

		result.Attempts++
		report := e.attempt(ctx, result.Attempts, batch, tracker)
		result.Reports = append(result.Reports, report)

		batch = Retain(desired, report.Failures)

		if len(batch) > 0 && result.Attempts < e.retryLimit {
			logging.Info(subsystem, "Attempt %d/%d left %d standards failing, retrying",
				result.Attempts, e.retryLimit, len(batch))
		}
	}

	result.Failures = FailureSet(batch.IDs())
	if ctx.Err() != nil {
		for _, id := range result.Failures {
			if tracker[id].LastError == "" {
				tracker[id].LastError = ctx.Err().Error()
			}
		}
	}
	result.Documents = flatten(tracker)
	result.FinishedAt = time.Now()

	if len(batch) == 0 {
		result.Outcome = OutcomeConverged
	} else {
		result.Outcome = OutcomeCompletedWithFailures
		logging.Warn(subsystem, "Run %s completed with %d failed standards after %d attempts: %v",
			result.RunID, len(result.Failures), result.Attempts, []string(result.Failures))
	}

	logging.Info(subsystem, "Run %s finished in %v: %d created, %d updated, %d skipped, %d failed",
		result.RunID, result.Duration().Round(time.Millisecond),
		result.Count(StateCreated), result.Count(StateUpdated), result.Count(StateSkipped), len(result.Failures))

	e.metrics.RecordRun(result)
	return result, nil
}

// attempt processes every document of the batch once and returns the ids that failed.
func (e *Engine) attempt(ctx context.Context, attempt int, batch Batch, tracker map[string]*DocumentResult) AttemptReport {
	ids := batch.IDs()
	report := AttemptReport{Attempt: attempt, Failures: FailureSet{}}

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			// Shutdown requested: the rest of the batch counts as failed for this attempt.
			for _, rest := range ids[i:] {
				tracker[rest].LastError = err.Error()
			}
			report.Failures = append(report.Failures, ids[i:]...)
			break
		}

		progress := fmt.Sprintf("%d/%d", i+1, len(ids))
		logging.Info(subsystem, "%s Processing %s", progress, id)

		doc := tracker[id]
		doc.Attempts++
		report.Processed++

		state, err := e.reconcileDocument(ctx, DesiredDocument{ID: id, Content: batch[id]}, progress)
		if err != nil {
			sanitized := SanitizeErrorMessage(err.Error())
			logging.Warn(subsystem, "Processing failed %s (attempt %d): %s", id, attempt, sanitized)
			doc.State = StateFailed
			doc.LastError = sanitized
			report.Failures = append(report.Failures, id)
			continue
		}

		doc.State = state
		doc.LastError = ""
	}

	return report
}

// reconcileDocument brings one document in line with the desired content.
func (e *Engine) reconcileDocument(ctx context.Context, doc DesiredDocument, progress string) (DocumentState, error) {
	info, err := e.store.GetInfo(ctx, doc.ID)
	if err != nil {
		return StateFailed, fmt.Errorf("failed to get remote info for %s: %w", doc.ID, err)
	}

	decision, err := e.diff.Decide(doc, info)
	if err != nil {
		return StateFailed, err
	}

	if decision.Action == ActionSkip {
		logging.Info(subsystem, "%s Skipping %s", progress, doc.ID)
		return StateSkipped, nil
	}

	if err := e.store.Put(ctx, doc.ID, decision.Payload); err != nil {
		return StateFailed, fmt.Errorf("failed to write %s: %w", doc.ID, err)
	}

	logging.Info(subsystem, "%s %s", progress, decision.Payload.Message)

	if decision.Action == ActionCreate {
		return StateCreated, nil
	}
	return StateUpdated, nil
}

func flatten(tracker map[string]*DocumentResult) []DocumentResult {
	docs := make([]DocumentResult, 0, len(tracker))
	for _, doc := range tracker {
		docs = append(docs, *doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs
}
