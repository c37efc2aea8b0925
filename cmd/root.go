package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"standardsync/internal/app"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeSyncIncomplete indicates a sync run ended with documents still failing.
	ExitCodeSyncIncomplete = 2
	// ExitCodeDisabled indicates the run was refused because updates are disabled.
	ExitCodeDisabled = 3
)

// configPath is shared by every command that loads configuration.
var configPath string

// debug enables verbose logging across the application.
var debug bool

// rootCmd represents the base command for the standards-sync application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "standards-sync",
	Short: "Keep the apprenticeship standards repository in sync with the published feed",
	Long: `standards-sync reconciles the published apprenticeship standards with a
GitHub repository holding one JSON document per standard version.

Only documents whose content changed are written. Documents that fail are
retried a bounded number of times within the same run.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "standards-sync version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	var incomplete *SyncIncompleteError
	if errors.As(err, &incomplete) {
		return ExitCodeSyncIncomplete
	}

	if errors.Is(err, app.ErrDisabled) {
		return ExitCodeDisabled
	}

	// Default to general error
	return ExitCodeError
}

func init() {
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().StringVar(&configPath, "config-path", "", "Configuration directory containing config.yaml (default ~/.config/standards-sync)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}
