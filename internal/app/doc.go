// Package app wires standards-sync together and runs it.
//
// NewApplication loads configuration (internal/config), initializes logging
// and builds the services: the secret provider, the GitHub content store,
// the standards source, the reconciliation engine, and the task queue with
// its single worker.
//
// # Modes
//
// Serve is the long-running mode used by "standards-sync serve". It runs,
// under one errgroup:
//   - the queue worker, which executes reconciliation jobs one at a time
//   - the timer trigger, enqueueing a run every updateStandards.schedule
//   - the HTTP trigger on server.address
//
// RunOnce is used by "standards-sync sync": it enqueues one run, closes the
// queue and lets the worker drain it in the foreground.
//
// # Triggers
//
// Every trigger goes through RunTracker.Trigger, which refuses to enqueue
// when updateStandards.enabled is false. The HTTP API is:
//
//	POST /api/update-standards  202 {"jobId": "..."}; 409 when disabled
//	GET  /api/runs/latest       latest run result and cumulative metrics
//	GET  /healthz               worker state and queue length
//
// When server.functionKey is set the first two require it in the
// x-functions-key header (or the code query parameter).
//
// # Secrets
//
// A failure to resolve the GitHub token at startup is logged at error level
// and startup continues. The token is resolved again, through a cache, when
// the store makes requests, so a secret that appears later is picked up.
package app
