package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch re-runs the transform on candidate files as they change under the
// given roots. Blocks until ctx is cancelled.
func (r *Runner) Watch(ctx context.Context, roots []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	for _, root := range roots {
		if err := r.watchTree(watcher, root); err != nil {
			return err
		}
	}
	r.log.Info("watching for changes", zap.Strings("roots", roots))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.log.Warn("watch error", zap.Error(err))
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
				if !r.excluded(filepath.Base(ev.Name)) {
					if err := r.watchTree(watcher, ev.Name); err != nil {
						r.log.Warn("watch add failed", zap.String("path", ev.Name), zap.Error(err))
					}
				}
				continue
			}
			if !r.candidate(ev.Name) {
				continue
			}
			res := r.processFile(ctx, ev.Name)
			if res.Err != nil {
				r.log.Warn("transform failed", zap.String("path", ev.Name), zap.Error(res.Err))
			}
			if res.Preview != "" {
				fmt.Print(res.Preview)
			}
		}
	}
}

// watchTree registers root and all non-excluded subdirectories. fsnotify
// watches are not recursive, so each directory is added individually.
func (r *Runner) watchTree(watcher *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if r.excluded(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
