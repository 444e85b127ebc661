package menu

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventCallback is called after the menu document changes on disk.
type EventCallback func()

// Watch starts an fsnotify watcher on the data directory and invokes cb
// whenever menu.json is written or replaced, until ctx is cancelled.
//
// The FS provider writes via tmp-file rename, and external editors may do
// the same, so both Write and Create/Rename events on the document count as
// a change. Events are debounced to absorb write bursts.
func Watch(ctx context.Context, dataDir string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dataDir); err != nil {
		return err
	}

	logger.Info("menu watcher: started", slog.String("dir", dataDir))

	var debounce *time.Timer
	var fire <-chan time.Time

	schedule := func() {
		if debounce == nil {
			debounce = time.NewTimer(200 * time.Millisecond)
			fire = debounce.C
		} else {
			debounce.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			logger.Info("menu watcher: stopped")
			return nil

		case <-fire:
			if cb != nil {
				cb()
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != FileName {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				logger.Debug("menu watcher: change", slog.String("op", ev.Op.String()))
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("menu watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
