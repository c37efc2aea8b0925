package secrets

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultCacheTTL is how long CachingProvider keeps a resolved value.
const DefaultCacheTTL = 5 * time.Minute

type cacheEntry struct {
	value      string
	resolvedAt time.Time
}

// CachingProvider caches another provider's results for a TTL and
// deduplicates concurrent lookups of the same name.
type CachingProvider struct {
	inner Provider
	ttl   time.Duration
	now   func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry

	group singleflight.Group
}

// NewCachingProvider wraps inner. A ttl <= 0 uses DefaultCacheTTL.
func NewCachingProvider(inner Provider, ttl time.Duration) *CachingProvider {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachingProvider{
		inner:   inner,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Resolve returns a cached value or resolves it through the wrapped provider.
// Errors are not cached.
func (p *CachingProvider) Resolve(ctx context.Context, name string) (string, error) {
	if value, ok := p.lookup(name); ok {
		return value, nil
	}

	result, err, _ := p.group.Do(name, func() (interface{}, error) {
		if value, ok := p.lookup(name); ok {
			return value, nil
		}

		value, err := p.inner.Resolve(ctx, name)
		if err != nil {
			return "", err
		}

		p.mu.Lock()
		p.entries[name] = cacheEntry{value: value, resolvedAt: p.now()}
		p.mu.Unlock()

		return value, nil
	})
	if err != nil {
		return "", err
	}

	return result.(string), nil
}

func (p *CachingProvider) lookup(name string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	entry, ok := p.entries[name]
	if !ok || p.now().Sub(entry.resolvedAt) >= p.ttl {
		return "", false
	}
	return entry.value, true
}

// Invalidate drops the cached value for name.
func (p *CachingProvider) Invalidate(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.entries, name)
}
