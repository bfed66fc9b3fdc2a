// Package watch keeps a composer run alive and re-executes generation when
// an input file changes. Used by the --watch flag; regeneration always runs
// with force-overwrite semantics since the user already confirmed the first
// write.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultDebounce is the quiet period between a file event and regeneration.
const DefaultDebounce = 500 * time.Millisecond

// Run watches files and calls regen after each (debounced) change until ctx
// is cancelled. Regeneration errors are logged, not fatal: a transiently
// broken input should not kill the watch loop.
func Run(ctx context.Context, logger *zap.Logger, files []string, debounce time.Duration, regen func(context.Context) error) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch parent directories: editors typically replace files on save,
	// which drops inode-level watches on the files themselves.
	targets := make(map[string]struct{}, len(files))
	dirs := make(map[string]struct{})
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		targets[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}

	debouncer := NewDebouncer(debounce)
	defer debouncer.Cancel()

	// Regens run on timer goroutines; a regeneration slower than the quiet
	// period must not overlap the next one while both write the same files.
	var regenMu sync.Mutex

	logger.Info("watching input files", zap.Int("files", len(targets)))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				abs, err := filepath.Abs(event.Name)
				if err != nil {
					continue
				}
				if _, watched := targets[abs]; !watched {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				logger.Debug("input changed", zap.String("file", abs))
				debouncer.Debounce(func() {
					regenMu.Lock()
					defer regenMu.Unlock()
					if err := regen(ctx); err != nil {
						logger.Warn("regeneration failed", zap.Error(err))
					} else {
						logger.Info("artifacts regenerated")
					}
				})
			case watchErr, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				logger.Warn("watcher error", zap.Error(watchErr))
			}
		}
	})
	return g.Wait()
}
