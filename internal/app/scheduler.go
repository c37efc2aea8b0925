package app

import (
	"context"
	"errors"
	"time"

	"standardsync/pkg/logging"
)

// runScheduler triggers a run every interval until ctx is cancelled.
// A non-positive interval disables the timer; runOnStartup still fires once.
func runScheduler(ctx context.Context, runs *RunTracker, interval time.Duration, runOnStartup bool) error {
	fire := func() {
		if _, err := runs.Trigger("timer"); err != nil && !errors.Is(err, ErrDisabled) {
			logging.Error("Scheduler", err, "UpdateStandardsTimer has failed")
		}
	}

	if runOnStartup {
		fire()
	}

	if interval <= 0 {
		logging.Info("Scheduler", "No schedule configured, timer trigger disabled")
		<-ctx.Done()
		return nil
	}

	logging.Info("Scheduler", "Standards update scheduled every %v", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			fire()
		}
	}
}
