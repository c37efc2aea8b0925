// Package secrets resolves named credentials such as the GitHub access token.
//
// Three providers are available:
//
//   - LocalProvider returns a configured value, falling back to the process
//     environment.
//   - FileProvider reads one file per secret from a directory (a mounted
//     Kubernetes Secret or similar) and drops its cache when fsnotify reports
//     a change.
//   - KubernetesProvider reads a key from a Secret through client-go.
//
// CachingProvider wraps any of them with a TTL cache and collapses concurrent
// lookups of the same name into one call. TokenSource adapts a provider to
// oauth2.TokenSource so HTTP clients pick up rotated values on their next
// request.
package secrets
