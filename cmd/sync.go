package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"standardsync/internal/app"
	"standardsync/internal/formatting"
	"standardsync/internal/reconciler"
)

// SyncIncompleteError is returned when a sync run ends with failures.
type SyncIncompleteError struct {
	Failures []string
}

func (e *SyncIncompleteError) Error() string {
	return fmt.Sprintf("%d document(s) still failing after the last attempt", len(e.Failures))
}

var (
	syncOutput  string
	syncQuiet   bool
	syncForce   bool
	syncVerbose bool
)

// syncCmd performs a single run in the foreground.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one reconciliation in the foreground and print the result",
	Long: `Fetches the standards, reconciles them with the repository and prints a summary.

Exit codes:
  0  every document converged
  1  the run could not be performed (configuration, feed or setup error)
  2  some documents still failed after the last attempt
  3  updateStandards.enabled is false (use --force to run anyway)`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	format, ok := formatting.ParseOutputFormat(syncOutput)
	if !ok {
		return fmt.Errorf("unsupported output format %q (use table, console, json or yaml)", syncOutput)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Logs go to stderr and stay out of the way unless asked for.
	application, err := app.NewApplication(ctx, app.NewConfig(debug, !syncVerbose && !debug, configPath))
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	var s *spinner.Spinner
	if !syncQuiet && format != formatting.FormatJSON && format != formatting.FormatYAML {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
		s.Suffix = " Reconciling standards..."
		s.Start()
	}

	result, err := application.RunOnce(ctx, syncForce)

	if s != nil {
		s.Stop()
	}

	if err != nil {
		if s != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", text.FgRed.Sprint("Sync failed"))
		}
		return err
	}

	formatter := formatting.NewFormatter(formatting.Options{
		Format: format,
		Quiet:  syncQuiet,
		Color:  format == formatting.FormatTable && isTerminal(cmd),
		Output: cmd.OutOrStdout(),
	})
	if err := formatter.FormatRun(result); err != nil {
		return err
	}

	return resultError(result)
}

// resultError maps a finished run to the command error.
func resultError(result *reconciler.RunResult) error {
	if result == nil || result.Converged() {
		return nil
	}
	return &SyncIncompleteError{Failures: append([]string{}, result.Failures...)}
}

func isTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringVarP(&syncOutput, "output", "o", string(formatting.FormatTable), "Output format: table, console, json or yaml")
	syncCmd.Flags().BoolVarP(&syncQuiet, "quiet", "q", false, "Print only the summary, without spinner or per-document rows")
	syncCmd.Flags().BoolVar(&syncForce, "force", false, "Run even if updateStandards.enabled is false")
	syncCmd.Flags().BoolVarP(&syncVerbose, "verbose", "v", false, "Show log output on stderr")
}
