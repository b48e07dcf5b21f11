package widget

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// storeWatcher reports writes to the shared database. SQLite in WAL mode
// touches the -wal and -shm siblings, so every file sharing the database's
// base name counts.
type storeWatcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	base     string
	debounce time.Duration
	log      *zap.Logger
}

func newStoreWatcher(storePath string, debounce time.Duration, log *zap.Logger) (*storeWatcher, error) {
	dir := filepath.Dir(storePath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	return &storeWatcher{
		watcher:  w,
		dir:      dir,
		base:     filepath.Base(storePath),
		debounce: debounce,
		log:      log,
	}, nil
}

// run calls onChange once per burst of writes until ctx is done.
func (sw *storeWatcher) run(ctx context.Context, onChange func()) error {
	defer func() { _ = sw.watcher.Close() }()

	tick := sw.debounce / 2
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	var lastEvent time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-sw.watcher.Events:
			if !ok {
				return nil
			}
			if !sw.relevant(ev) {
				continue
			}
			sw.log.Debug("store changed", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			lastEvent = time.Now()

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return nil
			}
			sw.log.Warn("store watcher error", zap.Error(err))

		case <-ticker.C:
			if !lastEvent.IsZero() && time.Since(lastEvent) >= sw.debounce {
				lastEvent = time.Time{}
				onChange()
			}
		}
	}
}

func (sw *storeWatcher) relevant(ev fsnotify.Event) bool {
	if !strings.HasPrefix(filepath.Base(ev.Name), sw.base) {
		return false
	}
	return ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}
