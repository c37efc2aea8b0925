package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"standardsync/internal/config"
	"standardsync/pkg/logging"
)

// Application bootstraps standards-sync and runs it in one of its modes.
//
// Initialization has two phases: NewApplication loads configuration, sets up
// logging and builds the services; Serve or RunOnce then executes.
//
//	cfg := app.NewConfig(false, false, configPath)
//	application, err := app.NewApplication(ctx, cfg)
//	if err != nil {
//	    return fmt.Errorf("failed to create application: %w", err)
//	}
//	return application.Serve(ctx)
type Application struct {
	config   *Config
	services *Services
}

// NewApplication loads configuration and initializes every service.
func NewApplication(ctx context.Context, cfg *Config) (*Application, error) {
	// Provisional logging so configuration loading is visible.
	var logOutput io.Writer = os.Stderr
	if cfg.Silent {
		logOutput = io.Discard
	}
	initialLevel := logging.LevelInfo
	if cfg.Debug {
		initialLevel = logging.LevelDebug
	}
	logging.InitForCLI(initialLevel, logOutput)

	if cfg.Settings == nil {
		configPath := cfg.ConfigPath
		if configPath == "" {
			defaultPath, err := config.GetDefaultConfigPath()
			if err != nil {
				return nil, err
			}
			configPath = defaultPath
		}

		settings, err := config.LoadConfig(configPath)
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load configuration from path: %s", configPath)
			return nil, fmt.Errorf("failed to load configuration from path %s: %w", configPath, err)
		}
		cfg.Settings = &settings
	}

	configureLogging(cfg, logOutput)

	services, err := InitializeServices(ctx, cfg.Settings)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

// configureLogging applies logging.level and logging.format; --debug wins.
func configureLogging(cfg *Config, output io.Writer) {
	level, err := logging.ParseLevel(cfg.Settings.Logging.Level)
	if err != nil {
		level = logging.LevelInfo
	}
	if cfg.Debug {
		level = logging.LevelDebug
	}

	format := logging.FormatText
	if cfg.Settings.Logging.Format == string(logging.FormatJSON) {
		format = logging.FormatJSON
	}

	logging.Init(level, output, format)
}

// Services exposes the initialized services.
func (a *Application) Services() *Services {
	return a.services
}
