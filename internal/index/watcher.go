package index

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"taskpaper/internal/db"
)

// debounceDelay batches bursts of file events into one resync.
const debounceDelay = 200 * time.Millisecond

// Watch starts an fsnotify watcher on the database root and keeps the index
// in sync until ctx is cancelled. Events are debounced into full Sync passes
// so editors that write several times in a row trigger one reindex. It calls
// cb (if non-nil) after each completed pass.
//
// New directories created at runtime are automatically added to the watch
// list.
func Watch(ctx context.Context, idx *DB, database *db.Database, logger *slog.Logger, cb func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, database.Root()); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", database.Root()))

	var syncTimer *time.Timer

	var syncCh <-chan time.Time

	scheduleSync := func() {
		if syncTimer == nil {
			syncTimer = time.NewTimer(debounceDelay)
			syncCh = syncTimer.C
		} else {
			syncTimer.Reset(debounceDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if syncTimer != nil {
				syncTimer.Stop()
			}

			logger.Info("watcher: stopped")

			return nil

		case <-syncCh:
			if syncErr := Sync(idx, database, logger); syncErr != nil {
				logger.Warn("watcher: sync failed", slog.String("error", syncErr.Error()))
			} else if cb != nil {
				cb()
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			// New directories join the watch list so files created
			// inside them keep triggering events.
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}

					scheduleSync()

					continue
				}
			}

			if filepath.Ext(ev.Name) != db.FileExtension {
				continue
			}

			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				logger.Debug("watcher: change", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
				scheduleSync()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}

			logger.Warn("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if !entry.IsDir() {
			return nil
		}

		return w.Add(path)
	})
}
