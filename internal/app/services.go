package app

import (
	"context"
	"fmt"
	"time"

	"standardsync/internal/config"
	"standardsync/internal/contentstore"
	"standardsync/internal/reconciler"
	"standardsync/internal/secrets"
	"standardsync/internal/standards"
	"standardsync/internal/taskqueue"
	"standardsync/pkg/logging"
)

// startupResolveTimeout bounds the eager token lookup during bootstrap.
const startupResolveTimeout = 30 * time.Second

// Services holds all initialized services used by the application.
//
// Initialization order follows the data flow: secrets, then the store and
// source, then the diff engine and reconciliation engine, then the queue and
// its worker, and finally the run tracker triggers enqueue through.
type Services struct {
	Settings *config.Config

	// Secrets resolves the GitHub token, cached.
	Secrets secrets.Provider

	// fileSecrets is set when the file provider is used so the service can
	// watch for rotation.
	fileSecrets *secrets.FileProvider

	Store  reconciler.RemoteStore
	Source reconciler.StandardsSource
	Engine *reconciler.Engine

	Queue  *taskqueue.Queue
	Worker *taskqueue.Worker
	Runs   *RunTracker
}

// InitializeServices builds every component from the settings.
//
// Failing to resolve the access token is logged at error level and does not
// stop initialization; writes will fail until the secret becomes available.
func InitializeServices(ctx context.Context, settings *config.Config) (*Services, error) {
	services := &Services{Settings: settings}

	provider, err := newSecretProvider(settings.GitHub.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create secret provider: %w", err)
	}
	if fp, ok := provider.(*secrets.FileProvider); ok {
		services.fileSecrets = fp
	}
	services.Secrets = secrets.NewCachingProvider(provider, settings.GitHub.AccessToken.CacheTTL)

	secretName := settings.GitHub.AccessToken.SecretName
	resolveCtx, cancel := context.WithTimeout(ctx, startupResolveTimeout)
	if _, err := services.Secrets.Resolve(resolveCtx, secretName); err != nil {
		logging.Error("Bootstrap", err, "Unable to get GitHub access token from %s provider using %s",
			settings.GitHub.AccessToken.Provider, secretName)
	}
	cancel()

	store, err := contentstore.NewGitHubStore(contentstore.Options{
		BaseURL:     settings.GitHub.BaseURL,
		Repository:  settings.GitHub.RepositoryName,
		TokenSource: secrets.TokenSource(services.Secrets, secretName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create content store: %w", err)
	}
	services.Store = store

	source, err := newStandardsSource(settings.Standards)
	if err != nil {
		return nil, fmt.Errorf("failed to create standards source: %w", err)
	}
	services.Source = source

	diff, err := reconciler.NewDiffEngine(
		reconciler.Committer{
			Name:  settings.GitHub.Committer.Name,
			Email: settings.GitHub.Committer.Email,
		},
		reconciler.MessageTemplates{
			Create: settings.GitHub.Messages.Create,
			Update: settings.GitHub.Messages.Update,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create diff engine: %w", err)
	}

	engine, err := reconciler.NewEngine(reconciler.EngineConfig{
		Source:     services.Source,
		Store:      services.Store,
		Diff:       diff,
		RetryLimit: settings.UpdateStandards.RetryLimit,
		Metrics:    reconciler.GetReconcilerMetrics(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create reconciliation engine: %w", err)
	}
	services.Engine = engine

	services.Queue = taskqueue.NewQueue()
	services.Worker = taskqueue.NewWorker(services.Queue)
	services.Runs = NewRunTracker(services.Queue, services.Engine, settings.UpdateStandards.Enabled)

	logging.Info("Bootstrap", "Services initialized for %s (retry limit %d, enabled %t)",
		settings.GitHub.RepositoryName, engine.RetryLimit(), settings.UpdateStandards.Enabled)

	return services, nil
}

func newSecretProvider(cfg config.AccessTokenConfig) (secrets.Provider, error) {
	switch cfg.Provider {
	case config.SecretProviderFile:
		return secrets.NewFileProvider(cfg.Directory), nil
	case config.SecretProviderKubernetes:
		return secrets.NewKubernetesProviderFromEnvironment(cfg.Namespace, cfg.KubernetesSecret)
	case config.SecretProviderLocal, "":
		values := map[string]string{}
		if cfg.Value != "" {
			values[cfg.SecretName] = cfg.Value
		}
		return secrets.NewLocalProvider(values), nil
	default:
		return nil, fmt.Errorf("unknown secret provider %q", cfg.Provider)
	}
}

func newStandardsSource(cfg config.StandardsConfig) (reconciler.StandardsSource, error) {
	if cfg.File != "" {
		return standards.NewFileSource(cfg.File), nil
	}
	return standards.NewFeedSource(standards.FeedOptions{
		FeedURL:           cfg.FeedURL,
		ImportURLEndpoint: cfg.ImportURLEndpoint,
		Version:           cfg.Version,
	})
}
