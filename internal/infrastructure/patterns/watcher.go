package patterns

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// reloadDelay coalesces the burst of events an editor produces on save.
const reloadDelay = 100 * time.Millisecond

// Watch reloads the store whenever its table file is written or replaced.
// It blocks until ctx is cancelled. The file's directory is watched so
// atomic renames used by editors and config management are seen.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		return errors.New("patterns: store has no table file to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("patterns: create watcher: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(s.path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("patterns: watch %s: %w", target, err)
	}
	s.logger.Info("watching pattern table", zap.String("file", target))

	timer := time.NewTimer(reloadDelay)
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
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				timer.Reset(reloadDelay)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("pattern watcher error", zap.Error(err))
		case <-timer.C:
			// Reload logs its own failures and keeps the previous table.
			_, _ = s.Reload()
		}
	}
}
