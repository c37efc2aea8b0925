// Package reconciler converges a remote document store onto the desired set
// of apprenticeship standards.
//
// # Overview
//
// A reconciliation run fetches the desired state (id → content) once from a
// StandardsSource and then makes the RemoteStore match it, document by
// document. Documents whose remote content already matches are skipped
// without a write; the others are created or updated.
//
// # Architecture
//
//   - DiffEngine: pure per-document decision (Skip, Create or Update) and
//     write payload construction
//   - Engine: the batch → attempt → failure set → next batch loop
//   - Batch / FailureSet: the working set of one attempt and its failures
//   - ReconcilerMetrics: process-wide run counters
//
// # Retry model
//
// Every attempt processes the current batch sequentially in id order. A
// failure of one document (reading the remote version or writing the new
// one) is recorded and never aborts the attempt. The next attempt retries only
// the failed ids, with their original content. The loop stops when the batch
// is empty or the retry limit (3 by default) is reached:
//
//	engine, err := reconciler.NewEngine(reconciler.EngineConfig{
//	    Source: source,
//	    Store:  store,
//	    Diff:   diff,
//	})
//	result, err := engine.Run(ctx)
//	if err != nil {
//	    // the desired state could not be fetched
//	}
//	if !result.Converged() {
//	    // result.Failures lists the ids that failed every attempt
//	}
//
// Transient and permanent errors are not distinguished: both count against
// the same per-run retry limit.
package reconciler
