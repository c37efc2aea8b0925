package formatting

import (
	"fmt"
	"strings"

	"standardsync/internal/reconciler"
)

// ConsoleFormatter provides simple console output formatting
type ConsoleFormatter struct {
	options Options
}

// FormatRun prints a one-line summary followed by the failing ids.
func (f *ConsoleFormatter) FormatRun(result *reconciler.RunResult) error {
	summary := Summarize(result, false)
	w := f.options.writer()

	_, err := fmt.Fprintf(w, "%s after %d attempt(s) in %s: %d created, %d updated, %d skipped, %d failed\n",
		summary.Outcome, summary.Attempts, summary.Duration,
		summary.Created, summary.Updated, summary.Skipped, summary.Failed)
	if err != nil {
		return err
	}

	if len(summary.Failures) > 0 && !f.options.Quiet {
		_, err = fmt.Fprintf(w, "Failed: %s\n", strings.Join(summary.Failures, ", "))
	}
	return err
}
