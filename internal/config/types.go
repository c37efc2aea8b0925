package config

import "time"

// Config is the top-level configuration structure for standards-sync.
type Config struct {
	UpdateStandards UpdateStandardsConfig `yaml:"updateStandards"`
	GitHub          GitHubConfig          `yaml:"github"`
	Standards       StandardsConfig       `yaml:"standards"`
	Server          ServerConfig          `yaml:"server"`
	Logging         LoggingConfig         `yaml:"logging"`
}

// UpdateStandardsConfig controls when and how reconciliation runs.
type UpdateStandardsConfig struct {
	// Enabled gates the triggers. When false no run is ever enqueued.
	Enabled bool `yaml:"enabled"`

	// RetryLimit overrides the default ceiling of 3 attempts per run.
	RetryLimit int `yaml:"retryLimit,omitempty"`

	// Schedule is the interval between timer-triggered runs. Zero disables the timer.
	Schedule time.Duration `yaml:"schedule,omitempty"`

	// RunOnStartup enqueues a run as soon as the service starts.
	RunOnStartup bool `yaml:"runOnStartup,omitempty"`
}

// GitHubConfig describes the repository standards are written to.
type GitHubConfig struct {
	// RepositoryName is "owner/name".
	RepositoryName string `yaml:"repositoryName"`

	// BaseURL overrides https://api.github.com (GitHub Enterprise).
	BaseURL string `yaml:"baseURL,omitempty"`

	// Committer is attributed with every write.
	Committer CommitterConfig `yaml:"committer"`

	// Messages are text/template commit messages with sprig functions.
	Messages MessagesConfig `yaml:"messages,omitempty"`

	AccessToken AccessTokenConfig `yaml:"accessToken"`
}

// CommitterConfig is the attributor of every write.
type CommitterConfig struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// MessagesConfig holds commit message templates. Empty values use the defaults.
type MessagesConfig struct {
	Create string `yaml:"create,omitempty"`
	Update string `yaml:"update,omitempty"`
}

// Secret provider names.
const (
	SecretProviderLocal      = "local"
	SecretProviderFile       = "file"
	SecretProviderKubernetes = "kubernetes"
)

// AccessTokenConfig tells the service where to find the GitHub token.
type AccessTokenConfig struct {
	// Provider is one of local, file or kubernetes.
	Provider string `yaml:"provider"`

	// SecretName is the environment variable, file name or Secret key.
	SecretName string `yaml:"secretName"`

	// Value is used by the local provider before the environment.
	Value string `yaml:"value,omitempty"`

	// Directory holds one file per secret for the file provider.
	Directory string `yaml:"directory,omitempty"`

	// Namespace and KubernetesSecret select the Secret for the kubernetes provider.
	Namespace        string `yaml:"namespace,omitempty"`
	KubernetesSecret string `yaml:"kubernetesSecret,omitempty"`

	// CacheTTL bounds how long a resolved token is reused.
	CacheTTL time.Duration `yaml:"cacheTTL,omitempty"`
}

// StandardsConfig describes where the desired state comes from.
type StandardsConfig struct {
	// FeedURL is the standards export URL.
	FeedURL string `yaml:"feedURL,omitempty"`

	// ImportURLEndpoint is the courses API base URL used to look up the feed URL.
	ImportURLEndpoint string `yaml:"importUrlEndpoint,omitempty"`

	// Version is sent as X-Version to the courses API.
	Version string `yaml:"version,omitempty"`

	// File reads standards from a local YAML or JSON file instead.
	File string `yaml:"file,omitempty"`
}

// ServerConfig configures the HTTP trigger.
type ServerConfig struct {
	// Address to listen on. Empty disables the HTTP trigger.
	Address string `yaml:"address"`

	// FunctionKey, when set, must be presented in the x-functions-key header.
	FunctionKey string `yaml:"functionKey,omitempty"`
}

// LoggingConfig selects log level and format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}
