package secrets

import (
	"context"
	"errors"
	"fmt"
)

const subsystem = "Secrets"

// ErrNotFound is wrapped by ResolveError when the secret does not exist.
var ErrNotFound = errors.New("secret not found")

// Provider resolves a secret by name.
type Provider interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// ResolveError reports which provider failed to resolve which secret.
type ResolveError struct {
	Provider string
	Name     string
	Err      error
}

// Error implements the error interface
func (e *ResolveError) Error() string {
	return fmt.Sprintf("%s provider could not resolve secret %q: %v", e.Provider, e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *ResolveError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err means the secret does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
