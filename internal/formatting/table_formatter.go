package formatting

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"standardsync/internal/reconciler"
	pkgstrings "standardsync/pkg/strings"
)

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	options Options
}

// FormatRun renders the summary and, unless quiet, the changed and failed documents.
func (f *TableFormatter) FormatRun(result *reconciler.RunResult) error {
	summary := Summarize(result, false)

	t := f.createTable()
	t.AppendHeader(table.Row{f.header("RUN"), f.header("OUTCOME"), f.header("ATTEMPTS"),
		f.header("CREATED"), f.header("UPDATED"), f.header("SKIPPED"), f.header("FAILED"), f.header("DURATION")})
	t.AppendRow(table.Row{summary.RunID, f.outcome(summary.Outcome), summary.Attempts,
		summary.Created, summary.Updated, summary.Skipped, summary.Failed, summary.Duration})
	t.Render()

	if f.options.Quiet {
		return nil
	}

	if len(summary.Documents) == 0 {
		_, err := fmt.Fprintln(f.options.writer(), f.color(text.FgYellow, "No documents changed"))
		return err
	}

	docs := f.createTable()
	docs.AppendHeader(table.Row{f.header("DOCUMENT"), f.header("STATE"), f.header("ATTEMPTS"), f.header("LAST ERROR")})
	for _, doc := range summary.Documents {
		docs.AppendRow(table.Row{
			doc.ID,
			f.state(doc.State),
			doc.Attempts,
			pkgstrings.SingleLine(doc.LastError, pkgstrings.DefaultCellWidth),
		})
	}
	docs.Render()

	return nil
}

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(f.options.writer())
	t.SetStyle(table.StyleRounded)
	return t
}

func (f *TableFormatter) header(s string) string {
	return f.color(text.FgHiCyan, s)
}

func (f *TableFormatter) outcome(s string) string {
	if s == string(reconciler.OutcomeConverged) {
		return f.color(text.FgGreen, s)
	}
	return f.color(text.FgRed, s)
}

func (f *TableFormatter) state(s string) string {
	switch reconciler.DocumentState(s) {
	case reconciler.StateFailed:
		return f.color(text.FgRed, s)
	case reconciler.StateCreated, reconciler.StateUpdated:
		return f.color(text.FgGreen, s)
	default:
		return s
	}
}

func (f *TableFormatter) color(c text.Color, s string) string {
	if !f.options.Color {
		return s
	}
	return c.Sprint(s)
}
