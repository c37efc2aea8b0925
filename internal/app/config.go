package app

import (
	"standardsync/internal/config"
)

// Config holds the application configuration
type Config struct {
	// Debug forces debug logging regardless of logging.level
	Debug bool

	// Silent discards all log output
	Silent bool

	// ConfigPath is the directory holding config.yaml
	ConfigPath string

	// Settings is the loaded configuration. Set by NewApplication, or
	// pre-populated to skip loading from disk.
	Settings *config.Config
}

// NewConfig creates a new application configuration
func NewConfig(debug, silent bool, configPath string) *Config {
	return &Config{
		Debug:      debug,
		Silent:     silent,
		ConfigPath: configPath,
	}
}
