package formatting

import (
	"time"

	"standardsync/internal/reconciler"
)

// DocumentRow is one document in a RunSummary.
type DocumentRow struct {
	ID        string `json:"id" yaml:"id"`
	State     string `json:"state" yaml:"state"`
	Attempts  int    `json:"attempts" yaml:"attempts"`
	LastError string `json:"lastError,omitempty" yaml:"lastError,omitempty"`
}

// RunSummary is the format-neutral view of a run.
type RunSummary struct {
	RunID       string        `json:"runId" yaml:"runId"`
	Outcome     string        `json:"outcome" yaml:"outcome"`
	Attempts    int           `json:"attempts" yaml:"attempts"`
	Duration    string        `json:"duration" yaml:"duration"`
	Created     int           `json:"created" yaml:"created"`
	Updated     int           `json:"updated" yaml:"updated"`
	Skipped     int           `json:"skipped" yaml:"skipped"`
	Failed      int           `json:"failed" yaml:"failed"`
	Interrupted bool          `json:"interrupted,omitempty" yaml:"interrupted,omitempty"`
	Failures    []string      `json:"failures" yaml:"failures"`
	Documents   []DocumentRow `json:"documents,omitempty" yaml:"documents,omitempty"`
}

// Summarize builds a RunSummary. Skipped documents are only listed when
// includeSkipped is set.
func Summarize(result *reconciler.RunResult, includeSkipped bool) RunSummary {
	summary := RunSummary{
		RunID:       result.RunID,
		Outcome:     string(result.Outcome),
		Attempts:    result.Attempts,
		Duration:    result.Duration().Round(time.Millisecond).String(),
		Created:     result.Count(reconciler.StateCreated),
		Updated:     result.Count(reconciler.StateUpdated),
		Skipped:     result.Count(reconciler.StateSkipped),
		Failed:      result.Count(reconciler.StateFailed),
		Interrupted: result.Interrupted,
		Failures:    append([]string{}, result.Failures...),
	}

	for _, doc := range result.Documents {
		if doc.State == reconciler.StateSkipped && !includeSkipped {
			continue
		}
		summary.Documents = append(summary.Documents, DocumentRow{
			ID:        doc.ID,
			State:     string(doc.State),
			Attempts:  doc.Attempts,
			LastError: doc.LastError,
		})
	}

	return summary
}
