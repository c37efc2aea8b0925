package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"standardsync/internal/app"
)

// serveCmd runs standards-sync as a long-lived service.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduler, HTTP trigger and background worker",
	Long: `Starts standards-sync as a service.

Runs are enqueued by the timer (updateStandards.schedule), optionally once at
startup (updateStandards.runOnStartup), and by POST /api/update-standards on
server.address. A single background worker executes them one at a time.

No run is enqueued while updateStandards.enabled is false.

The process stops gracefully on SIGINT or SIGTERM, letting the running
document write finish or observe cancellation.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

// runServe is the main entry point for the serve command
func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApplication(ctx, app.NewConfig(debug, false, configPath))
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return application.Serve(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
