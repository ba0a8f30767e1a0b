// Package watch reruns a job whenever a SQLite database file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"pbextract/internal/logger"
)

// DefaultDebounce coalesces the bursts of writes a single transaction produces.
const DefaultDebounce = 500 * time.Millisecond

// companions are the files SQLite writes next to the database.
var companions = []string{"", "-wal", "-journal"}

// Run calls fn once and then after every write to path or its WAL/journal
// files, until ctx is done. An error from the first call is returned; later
// errors are logged and watching continues.
func Run(ctx context.Context, path string, debounce time.Duration, fn func(context.Context) error) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	if err := fn(ctx); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	defer watcher.Close()

	// watch the directory: SQLite creates and removes the companion files
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(absPath), err)
	}
	watched := make(map[string]bool, len(companions))
	for _, suffix := range companions {
		watched[absPath+suffix] = true
	}
	logger.Info("watching %s for changes", path)

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name, _ := filepath.Abs(event.Name)
			if !watched[name] {
				continue
			}
			timer.Reset(debounce)
		case <-timer.C:
			logger.Info("%s changed, regenerating", path)
			if err := fn(ctx); err != nil {
				logger.Warn("regenerate %s, previous output kept: %v", path, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch %s: %v", path, err)
		}
	}
}
