// Package fswatcher recomposes when input files change on disk.
package fswatcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/user/thumbforge/pkg/ports"
)

// DefaultDebounce coalesces bursts of events, such as an editor writing a
// temp file and renaming it over the original.
const DefaultDebounce = 300 * time.Millisecond

// Watcher reports changes to a fixed set of files.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	debounce time.Duration
	logger   ports.Logger
}

// New creates a Watcher for the given files. Their parent directories are
// watched so that files replaced by rename are still seen.
func New(files []string, debounce time.Duration, logger ports.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fsw,
		files:    make(map[string]bool),
		debounce: debounce,
		logger:   logger.WithComponent("watch"),
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		if f == "" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("resolve %s: %w", f, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		w.logger.Debug("Watching %s", dir)
	}

	return w, nil
}

// Run calls onChange with the changed file once per burst of events until
// ctx is canceled. Calls never overlap, and none is running once Run has
// returned.
func (w *Watcher) Run(ctx context.Context, onChange func(path string)) error {
	defer w.watcher.Close()

	var (
		mu      sync.Mutex
		timer   *time.Timer
		pending string
		running sync.Mutex
		stopped bool // guarded by running
	)

	fire := func() {
		mu.Lock()
		path := pending
		mu.Unlock()

		running.Lock()
		defer running.Unlock()
		if !stopped && ctx.Err() == nil {
			onChange(path)
		}
	}

	// On return, wait for a callback in progress and suppress later ones.
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()

		running.Lock()
		stopped = true
		running.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("Change detected: %s (%s)", event.Name, event.Op)

			mu.Lock()
			pending = event.Name
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, fire)
			mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error: %s", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return w.files[abs]
}
