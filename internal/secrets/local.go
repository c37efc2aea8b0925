package secrets

import (
	"context"
	"os"
	"strings"
)

// LocalProvider serves secrets from configuration, falling back to
// environment variables of the same name.
type LocalProvider struct {
	values    map[string]string
	lookupEnv func(string) (string, bool)
}

// NewLocalProvider creates a provider over the given values.
func NewLocalProvider(values map[string]string) *LocalProvider {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &LocalProvider{values: copied, lookupEnv: os.LookupEnv}
}

// Resolve returns the configured value, or the environment variable name.
func (p *LocalProvider) Resolve(ctx context.Context, name string) (string, error) {
	if v := strings.TrimSpace(p.values[name]); v != "" {
		return v, nil
	}
	if v, ok := p.lookupEnv(name); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v), nil
	}
	return "", &ResolveError{Provider: "local", Name: name, Err: ErrNotFound}
}
