package formatting

import (
	"fmt"

	"standardsync/internal/reconciler"
)

// JSONFormatter provides JSON output formatting
type JSONFormatter struct {
	options Options
}

// FormatRun writes the full summary, skipped documents included.
func (f *JSONFormatter) FormatRun(result *reconciler.RunResult) error {
	_, err := fmt.Fprintln(f.options.writer(), PrettyJSON(Summarize(result, true)))
	return err
}
