package session

import (
	"context"

	"github.com/fsnotify/fsnotify"
)

// WaitForHandoff blocks until both completed-session snapshots exist in the
// store's data directory, watching for writes from another process (e.g. a
// live interview in a second terminal). Returns ctx.Err() on cancellation.
func WaitForHandoff(ctx context.Context, store *Store) error {
	if store.HandoffReady() {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(store.Dir()); err != nil {
		return err
	}

	// Re-check after the watch is in place: the snapshots may have landed
	// between the first check and watcher.Add.
	if store.HandoffReady() {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Write) {
				if store.HandoffReady() {
					return nil
				}
			}

		case _, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			// Watcher errors are non-fatal; keep waiting.
		}
	}
}
