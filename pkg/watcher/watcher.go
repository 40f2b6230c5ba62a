// Package watcher reports changes to a set of files, debounced so that a
// burst of writes (an exporter rewriting several meshes) yields one event.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// FileWatcher watches files through their parent directories, so files
// replaced by rename (as most editors and exporters do) keep being seen.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	log      *zap.Logger

	mu    sync.Mutex
	files map[string]bool
	dirs  map[string]bool
}

// NewFileWatcher creates a new file watcher
func NewFileWatcher(debounce time.Duration, log *zap.Logger) (*FileWatcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	return &FileWatcher{
		watcher:  w,
		debounce: debounce,
		log:      log,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
	}, nil
}

// Watch replaces the watched file set. It may be called while Run is
// active, e.g. from the change callback after a manifest was reloaded.
func (fw *FileWatcher) Watch(files []string) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	next := make(map[string]bool, len(files))
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}
		next[abs] = true

		dir := filepath.Dir(abs)
		if fw.dirs[dir] {
			continue
		}
		if err := fw.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		fw.dirs[dir] = true
	}
	fw.files = next

	fw.log.Debug("watching files", zap.Int("files", len(next)), zap.Int("dirs", len(fw.dirs)))
	return nil
}

// Files returns the watched files, sorted
func (fw *FileWatcher) Files() []string {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	out := make([]string, 0, len(fw.files))
	for f := range fw.files {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func (fw *FileWatcher) watched(path string) bool {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.files[path]
}

// Run delivers debounced changes to onChange until ctx is done. onChange
// runs on the Run goroutine, so two callbacks never overlap.
func (fw *FileWatcher) Run(ctx context.Context, onChange func(changed []string)) error {
	pending := make(map[string]bool)
	timer := time.NewTimer(fw.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !fw.watched(filepath.Clean(event.Name)) {
				continue
			}
			fw.log.Debug("file changed", zap.String("file", event.Name), zap.Stringer("op", event.Op))
			pending[filepath.Clean(event.Name)] = true
			timer.Reset(fw.debounce)

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for f := range pending {
				changed = append(changed, f)
			}
			sort.Strings(changed)
			pending = make(map[string]bool)
			if len(changed) > 0 {
				onChange(changed)
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			fw.log.Warn("watcher error", zap.Error(err))
		}
	}
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
