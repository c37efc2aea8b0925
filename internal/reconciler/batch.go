package reconciler

import "sort"

// Batch is the working set of one attempt: id → content of documents still
// pending a write. Map keys keep ids unique.
type Batch map[string]string

// NewBatch copies the desired state into a fresh batch.
func NewBatch(desired map[string]string) Batch {
	b := make(Batch, len(desired))
	for id, content := range desired {
		b[id] = content
	}
	return b
}

// IDs returns the batch ids in processing order (sorted).
func (b Batch) IDs() []string {
	ids := make([]string, 0, len(b))
	for id := range b {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Retain builds the next batch from the failures of an attempt, pairing each
// id with its original content from desired. Ids unknown to desired are dropped.
func Retain(desired map[string]string, failures FailureSet) Batch {
	next := make(Batch, len(failures))
	for _, id := range failures {
		if content, ok := desired[id]; ok {
			next[id] = content
		}
	}
	return next
}

// FailureSet is the ordered list of ids that failed on the most recent
// attempt. Empty means the batch converged.
type FailureSet []string

// Contains reports whether id is in the set.
func (f FailureSet) Contains(id string) bool {
	for _, failed := range f {
		if failed == id {
			return true
		}
	}
	return false
}
