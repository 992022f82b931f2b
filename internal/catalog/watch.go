package catalog

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch starts an fsnotify watcher on the catalog file's directory and
// processes change events until ctx is cancelled. When another process
// rewrites the file (a git checkout, a second editor), the in-memory
// document is reloaded and renormalized.
//
// Atomic writers, this process included, replace the file by rename, so
// events are matched by name and debounced; the store's checksum check
// suppresses reloads triggered by our own saves.
func Watch(ctx context.Context, s *Store, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	path := s.file.Path()
	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("file", path))

	// reloadTimer debounces bursts of events from a single rewrite.
	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(200 * time.Millisecond)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reloadCh:
			changed, err := s.ReloadIfChanged()
			switch {
			case err != nil:
				logger.Warn("watcher: reload failed", slog.String("error", err.Error()))
			case changed:
				logger.Info("watcher: external change loaded", slog.String("file", path))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			scheduleReload()

		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: error", slog.String("error", werr.Error()))
		}
	}
}
