// Package logging provides the subsystem-tagged structured logger used across
// standards-sync.
//
// The package wraps Go's log/slog with a small printf-style API so every
// component logs the same way:
//
//	logging.InitForCLI(logging.LevelInfo, os.Stdout)
//
//	logging.Info("Reconciler", "Retrieved %d standards", len(desired))
//	logging.Warn("Reconciler", "%d standards still failing after %d attempts", n, attempts)
//	logging.Error("TaskQueue", err, "Error occurred in background task %s", job.Name)
//
// Every entry carries a "subsystem" attribute and, for Error, an "error"
// attribute. Output is either text (default) or JSON, selected with Init.
//
// # Levels
//
//   - Debug: per-request detail (HTTP status codes, queue transitions)
//   - Info: per-document progress and run summaries
//   - Warn: recoverable failures (a document failed an attempt, exhausted retries)
//   - Error: failures of a whole job, run or startup step
//
// # Kubernetes client logging
//
// Init also installs the same slog handler as the controller-runtime logger,
// so messages emitted by the Kubernetes secret provider's client stack end up
// in the same stream and format.
package logging
