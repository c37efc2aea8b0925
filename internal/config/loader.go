package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"standardsync/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/standards-sync"
	configFileName = "config.yaml"

	// EnvFunctionKey overrides server.functionKey.
	EnvFunctionKey = "STANDARDSYNC_FUNCTION_KEY"
)

// osUserHomeDir is swapped in tests.
var osUserHomeDir = os.UserHomeDir

// GetDefaultConfigPath returns ~/.config/standards-sync.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}

	return filepath.Join(homeDir, userConfigDir), nil
}

// LoadConfig loads config.yaml from the given directory over the defaults,
// applies environment overrides and validates the result.
// A missing file yields the defaults.
func LoadConfig(configPath string) (Config, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logging.Info("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
	case err != nil:
		logging.Info("ConfigLoader", "Error loading config.yaml from %s: %s", configFilePath, err)
		return Config{}, err
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			// config malformed
			return Config{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
		}
		logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	}

	applyEnvironment(&config)

	if errs := config.Validate(); errs.HasErrors() {
		return Config{}, FormatValidationError("configuration", configFilePath, errs)
	}

	return config, nil
}

func applyEnvironment(config *Config) {
	if key := os.Getenv(EnvFunctionKey); key != "" {
		config.Server.FunctionKey = key
	}
}
