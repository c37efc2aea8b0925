package reconciler

import (
	"context"
	"time"
)

// DesiredDocument is one entry of the desired state: a standard keyed by
// "<reference>_<version>" and its full serialized body.
type DesiredDocument struct {
	// ID is the stable, globally unique key of the document.
	ID string

	// Content is the full document body.
	Content string
}

// RemoteFileInfo is the remote store's current knowledge of a document.
//
// A nil RevisionToken means the document does not exist remotely yet.
type RemoteFileInfo struct {
	// RevisionToken is the opaque optimistic-concurrency token (a git blob SHA
	// for the GitHub store).
	RevisionToken *string

	// EncodedContent is the remote content in transport encoding (base64).
	EncodedContent *string
}

// Exists reports whether the remote store already holds the document.
func (i RemoteFileInfo) Exists() bool {
	return i.RevisionToken != nil
}

// NewRemoteFileInfo builds a RemoteFileInfo for a document that exists remotely.
func NewRemoteFileInfo(revisionToken, encodedContent string) RemoteFileInfo {
	return RemoteFileInfo{
		RevisionToken:  &revisionToken,
		EncodedContent: &encodedContent,
	}
}

// Committer identifies who the store should attribute writes to.
type Committer struct {
	Name  string
	Email string
}

// WritePayload is everything a RemoteStore needs to create or update a document.
type WritePayload struct {
	// Content is the transport-encoded document body.
	Content string

	// Message is the human-readable change message.
	Message string

	// RevisionToken is set only for updates.
	RevisionToken string

	// Committer is the attributor metadata.
	Committer Committer
}

// Action classifies what a document needs.
type Action int

const (
	// ActionSkip means the remote content already matches.
	ActionSkip Action = iota

	// ActionCreate means the document does not exist remotely.
	ActionCreate

	// ActionUpdate means the document exists remotely with different content.
	ActionUpdate
)

// String makes Action satisfy the fmt.Stringer interface.
func (a Action) String() string {
	switch a {
	case ActionSkip:
		return "Skip"
	case ActionCreate:
		return "Create"
	case ActionUpdate:
		return "Update"
	default:
		return "Unknown"
	}
}

// Decision is the outcome of diffing one document. Payload is only
// meaningful for ActionCreate and ActionUpdate.
type Decision struct {
	Action  Action
	Payload WritePayload
}

// RemoteStore is the key-addressed document store reconciled against.
type RemoteStore interface {
	// GetInfo returns the current remote version of the document.
	// A document that does not exist yields a zero RemoteFileInfo and a nil error;
	// any other non-success condition is returned as an error.
	GetInfo(ctx context.Context, id string) (RemoteFileInfo, error)

	// Put creates or updates the document.
	Put(ctx context.Context, id string, payload WritePayload) error
}

// StandardsSource produces the full desired state on demand.
type StandardsSource interface {
	// FetchAll returns the complete id → content mapping for one run.
	FetchAll(ctx context.Context) (map[string]string, error)
}

// Outcome is the overall result of one reconciliation run.
type Outcome string

const (
	// OutcomeConverged means every desired document matches the remote store.
	OutcomeConverged Outcome = "Converged"

	// OutcomeCompletedWithFailures means some documents still failed after the
	// retry ceiling was reached.
	OutcomeCompletedWithFailures Outcome = "CompletedWithFailures"
)

// DocumentState is the final state of one document after a run.
type DocumentState string

const (
	StateCreated DocumentState = "Created"
	StateUpdated DocumentState = "Updated"
	StateSkipped DocumentState = "Skipped"
	StateFailed  DocumentState = "Failed"
)

// DocumentResult records what happened to one document during a run.
type DocumentResult struct {
	ID string `json:"id"`

	State DocumentState `json:"state"`

	// Attempts is how many attempts processed this document.
	Attempts int `json:"attempts"`

	// LastError is the sanitized error of the most recent failed attempt.
	LastError string `json:"lastError,omitempty"`
}

// AttemptReport summarizes one attempt of the retry loop.
type AttemptReport struct {
	Attempt   int        `json:"attempt"`
	Processed int        `json:"processed"`
	Failures  FailureSet `json:"failures"`
}

// RunResult is the inspectable result of Engine.Run.
type RunResult struct {
	RunID string `json:"runId"`

	Outcome Outcome `json:"outcome"`

	// Attempts is the number of attempts actually executed.
	Attempts int `json:"attempts"`

	// Reports holds one entry per executed attempt.
	Reports []AttemptReport `json:"reports"`

	// Failures are the ids still failing when the run ended.
	Failures FailureSet `json:"failures"`

	// Documents is the per-document result, sorted by id.
	Documents []DocumentResult `json:"documents"`

	// Interrupted is set when the context was cancelled before the run finished.
	Interrupted bool `json:"interrupted,omitempty"`

	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Converged reports whether the run converged.
func (r *RunResult) Converged() bool {
	return r.Outcome == OutcomeConverged
}

// Count returns the number of documents that ended in the given state.
func (r *RunResult) Count(state DocumentState) int {
	n := 0
	for _, doc := range r.Documents {
		if doc.State == state {
			n++
		}
	}
	return n
}

// Duration is the wall-clock time the run took.
func (r *RunResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
