// Package watcher watches the TAK install directory for changes so the
// wrapper can refresh its view of the distribution (compose file edits,
// upgrades unpacked over the old version) without a restart.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce collapses editor write bursts into a single callback.
const debounce = 500 * time.Millisecond

// Start watches dir and invokes onChange after filesystem events settle.
// Returns an error if the watch cannot be established; the watcher stops
// when ctx is cancelled.
func Start(ctx context.Context, dir string, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	go func() {
		defer w.Close()

		var timer *time.Timer
		var timerC <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				slog.Debug("install dir event", "op", ev.Op.String(), "name", ev.Name)
				if timer == nil {
					timer = time.NewTimer(debounce)
					timerC = timer.C
				} else {
					timer.Reset(debounce)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.Warn("install dir watch", "err", err)
			case <-timerC:
				onChange()
			}
		}
	}()

	slog.Info("watching install dir", "dir", dir)
	return nil
}
