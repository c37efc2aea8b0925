package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"golang.org/x/sync/errgroup"

	"standardsync/internal/reconciler"
	"standardsync/pkg/logging"
)

// shutdownTimeout bounds the HTTP server's graceful shutdown.
const shutdownTimeout = 10 * time.Second

// Serve runs the long-lived service: the queue worker, the timer trigger and,
// when server.address is set, the HTTP trigger. It blocks until ctx is
// cancelled or one of them fails.
//
// Readiness and stopping are reported to systemd when NOTIFY_SOCKET is set.
func (a *Application) Serve(ctx context.Context) error {
	s := a.services
	settings := s.Settings

	if s.fileSecrets != nil {
		if err := s.fileSecrets.Start(); err != nil {
			logging.Warn("Service", "Secret rotation will not be detected: %v", err)
		}
		defer s.fileSecrets.Stop()
	}

	var listener net.Listener
	if settings.Server.Address != "" {
		l, err := net.Listen("tcp", settings.Server.Address)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", settings.Server.Address, err)
		}
		listener = l
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.Worker.Run(gctx)
	})

	g.Go(func() error {
		return runScheduler(gctx, s.Runs, settings.UpdateStandards.Schedule, settings.UpdateStandards.RunOnStartup)
	})

	if listener != nil {
		server := &http.Server{
			Handler:           NewHandler(s.Runs, s.Worker, settings.Server.FunctionKey),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g.Go(func() error {
			logging.Info("Service", "HTTP trigger listening on %s", listener.Addr())
			if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("HTTP trigger failed: %w", err)
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	notify(daemon.SdNotifyReady)
	logging.Info("Service", "standards-sync is running. Press Ctrl+C to stop.")

	err := g.Wait()

	notify(daemon.SdNotifyStopping)
	s.Queue.Close()
	logging.Info("Service", "standards-sync stopped")

	return err
}

// RunOnce enqueues a single run, drains the queue and returns the result.
// It bypasses the enabled flag when force is set.
func (a *Application) RunOnce(ctx context.Context, force bool) (*reconciler.RunResult, error) {
	s := a.services

	var err error
	if force {
		_, err = s.Runs.Enqueue("cli")
	} else {
		_, err = s.Runs.Trigger("cli")
	}
	if err != nil {
		return nil, err
	}

	s.Queue.Close()
	if err := s.Worker.Run(ctx); err != nil {
		return nil, err
	}

	latest := s.Runs.Latest()
	switch {
	case latest == nil:
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("run did not complete")
	case latest.Error != "":
		return latest.Result, errors.New(latest.Error)
	default:
		return latest.Result, nil
	}
}

func notify(state string) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		logging.Warn("Service", "Failed to notify systemd: %v", err)
		return
	}
	if sent {
		logging.Debug("Service", "Notified systemd: %s", state)
	}
}
