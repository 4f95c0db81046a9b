package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes the directories holding the input files and triggers a
// cache refresh when any of them is written. Editors and spreadsheet
// exports produce bursts of events, so changes are debounced before the
// refresh runs.
type Watcher struct {
	cache    *Cache
	paths    InputPaths
	logger   *slog.Logger
	debounce time.Duration
}

// NewWatcher creates a watcher for the cache's input files.
func NewWatcher(cache *Cache, paths InputPaths, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		cache:    cache,
		paths:    paths,
		logger:   logger,
		debounce: 500 * time.Millisecond,
	}
}

// Run watches until the context is cancelled. It blocks, so callers start
// it on its own goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer fw.Close()

	watched := map[string]bool{
		filepath.Clean(w.paths.Investment): true,
		filepath.Clean(w.paths.GDP):        true,
		filepath.Clean(w.paths.Indicators): true,
	}

	// Watch the parent directories: many tools replace files by rename,
	// which drops a watch placed on the file itself.
	dirs := map[string]bool{}
	for path := range watched {
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.DebugContext(ctx, "input file changed",
				slog.String("file", event.Name),
				slog.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.WarnContext(ctx, "file watcher error", slog.String("error", err.Error()))

		case <-timerC:
			timer = nil
			timerC = nil
			if _, err := w.cache.Get(ctx); err != nil {
				w.logger.WarnContext(ctx, "refresh after input change failed",
					slog.String("error", err.Error()))
			}
		}
	}
}
