package config

import "time"

const (
	// DefaultRetryLimit is the attempt ceiling per run.
	DefaultRetryLimit = 3

	// DefaultSchedule runs reconciliation once a day.
	DefaultSchedule = 24 * time.Hour

	// DefaultSecretName is the environment variable holding the GitHub token.
	DefaultSecretName = "GITHUB_ACCESS_TOKEN"

	// DefaultServerAddress is where the HTTP trigger listens.
	DefaultServerAddress = "localhost:8090"

	// DefaultStandardsVersion is sent as X-Version to the courses API.
	DefaultStandardsVersion = "1.0"
)

// GetDefaultConfig returns the default configuration
func GetDefaultConfig() Config {
	return Config{
		UpdateStandards: UpdateStandardsConfig{
			Enabled:    true,
			RetryLimit: DefaultRetryLimit,
			Schedule:   DefaultSchedule,
		},
		GitHub: GitHubConfig{
			AccessToken: AccessTokenConfig{
				Provider:   SecretProviderLocal,
				SecretName: DefaultSecretName,
			},
		},
		Standards: StandardsConfig{
			Version: DefaultStandardsVersion,
		},
		Server: ServerConfig{
			Address: DefaultServerAddress,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
