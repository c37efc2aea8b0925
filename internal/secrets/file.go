package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"standardsync/pkg/logging"
)

// FileProvider reads each secret from a file named after it in a directory.
//
// Values are cached after the first read. Start watches the directory and
// clears the cache on any change, which covers the atomic symlink swap used
// for mounted Kubernetes Secrets.
type FileProvider struct {
	dir string

	mu    sync.RWMutex
	cache map[string]string

	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	wg      sync.WaitGroup

	// onReload is called after the cache was cleared. Used by tests.
	onReload func()
}

// NewFileProvider creates a provider reading from dir.
func NewFileProvider(dir string) *FileProvider {
	return &FileProvider{
		dir:   dir,
		cache: make(map[string]string),
	}
}

// Resolve returns the trimmed content of dir/name.
func (p *FileProvider) Resolve(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", &ResolveError{Provider: "file", Name: name, Err: fmt.Errorf("invalid secret name")}
	}

	p.mu.RLock()
	value, ok := p.cache[name]
	p.mu.RUnlock()
	if ok {
		return value, nil
	}

	data, err := os.ReadFile(filepath.Join(p.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", &ResolveError{Provider: "file", Name: name, Err: ErrNotFound}
		}
		return "", &ResolveError{Provider: "file", Name: name, Err: err}
	}

	value = strings.TrimSpace(string(data))
	if value == "" {
		return "", &ResolveError{Provider: "file", Name: name, Err: fmt.Errorf("secret file is empty")}
	}

	p.mu.Lock()
	p.cache[name] = value
	p.mu.Unlock()

	return value, nil
}

// Start begins watching the directory for changes.
func (p *FileProvider) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.watcher != nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create secret watcher: %w", err)
	}
	if err := watcher.Add(p.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch secret directory %s: %w", p.dir, err)
	}

	p.watcher = watcher
	p.stopCh = make(chan struct{})

	p.wg.Add(1)
	go p.processEvents(watcher.Events, watcher.Errors, p.stopCh)

	logging.Info(subsystem, "Watching %s for secret changes", p.dir)
	return nil
}

func (p *FileProvider) processEvents(eventsCh <-chan fsnotify.Event, errorsCh <-chan error, stopCh <-chan struct{}) {
	defer p.wg.Done()
	for {
		select {
		case <-stopCh:
			return

		case event, ok := <-eventsCh:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logging.Debug(subsystem, "Secret directory changed: %s", event.Name)
			p.reload()

		case err, ok := <-errorsCh:
			if !ok {
				return
			}
			logging.Error(subsystem, err, "Secret watcher error")
		}
	}
}

func (p *FileProvider) reload() {
	p.mu.Lock()
	p.cache = make(map[string]string)
	callback := p.onReload
	p.mu.Unlock()

	logging.Info(subsystem, "Secrets in %s changed, cache cleared", p.dir)
	if callback != nil {
		callback()
	}
}

// Stop stops the watcher. It is safe to call without Start.
func (p *FileProvider) Stop() {
	p.mu.Lock()
	watcher := p.watcher
	stopCh := p.stopCh
	p.watcher = nil
	p.stopCh = nil
	p.mu.Unlock()

	if watcher == nil {
		return
	}
	close(stopCh)
	watcher.Close()
	p.wg.Wait()
}
