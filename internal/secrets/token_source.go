package secrets

import (
	"context"
	"time"

	"golang.org/x/oauth2"
)

// DefaultResolveTimeout bounds one lookup made on behalf of an HTTP request.
const DefaultResolveTimeout = 10 * time.Second

type providerTokenSource struct {
	provider Provider
	name     string
}

// TokenSource returns an oauth2.TokenSource that resolves the named secret
// as a bearer token on every call. Wrap the provider in a CachingProvider to
// avoid a lookup per request.
func TokenSource(provider Provider, name string) oauth2.TokenSource {
	return &providerTokenSource{provider: provider, name: name}
}

// Token implements oauth2.TokenSource.
func (s *providerTokenSource) Token() (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultResolveTimeout)
	defer cancel()

	value, err := s.provider.Resolve(ctx, s.name)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: value, TokenType: "Bearer"}, nil
}
