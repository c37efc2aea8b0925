// Package formatting renders reconciliation results for the CLI.
//
// Results can be written as a rich table, a plain console summary, JSON or
// YAML. All formatters work from the same RunSummary view of a
// reconciler.RunResult so the fields are identical across formats.
package formatting

import (
	"io"
	"os"

	"standardsync/internal/reconciler"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatConsole OutputFormat = "console" // Simple console output
	FormatJSON    OutputFormat = "json"    // JSON output
	FormatYAML    OutputFormat = "yaml"    // YAML output
	FormatTable   OutputFormat = "table"   // Rich table output
)

// Options configures the formatter behavior
type Options struct {
	Format OutputFormat
	Quiet  bool      // Suppress decorative elements and per-document rows
	Color  bool      // Enable colored output
	Output io.Writer // Defaults to os.Stdout
}

func (o Options) writer() io.Writer {
	if o.Output == nil {
		return os.Stdout
	}
	return o.Output
}

// Formatter writes a run result in one output format
type Formatter interface {
	FormatRun(result *reconciler.RunResult) error
}

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, bool) {
	switch OutputFormat(s) {
	case FormatConsole, FormatJSON, FormatYAML, FormatTable:
		return OutputFormat(s), true
	default:
		return "", false
	}
}

// NewFormatter creates the appropriate formatter based on options
func NewFormatter(options Options) Formatter {
	switch options.Format {
	case FormatJSON:
		return &JSONFormatter{options: options}
	case FormatYAML:
		return &YAMLFormatter{options: options}
	case FormatTable:
		return &TableFormatter{options: options}
	case FormatConsole:
		fallthrough
	default:
		return &ConsoleFormatter{options: options}
	}
}
