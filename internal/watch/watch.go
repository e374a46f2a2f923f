// Package watch signals when a single file changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 250 * time.Millisecond

const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// File watches the directory holding path and sends on the returned channel
// after changes to path settle for debounce. Bursts collapse into one signal.
// The channel is closed once ctx is done or the watcher fails.
func File(ctx context.Context, path string, debounce time.Duration, logger *slog.Logger) (<-chan struct{}, error) {
	if path == "" {
		return nil, errors.New("watch: empty path")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %q: %w", path, err)
	}
	dir, name := filepath.Dir(abs), filepath.Base(abs)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch: add %q: %w", dir, err)
	}

	out := make(chan struct{}, 1)
	go loop(ctx, w, name, debounce, out, logger.With("path", abs))
	return out, nil
}

func loop(ctx context.Context, w *fsnotify.Watcher, name string, debounce time.Duration, out chan<- struct{}, logger *slog.Logger) {
	defer close(out)
	defer func() { _ = w.Close() }()

	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case ev, ok := <-w.Events:
			if !ok {
				logger.Warn("store watcher events closed")
				return
			}
			if filepath.Base(ev.Name) != name || !ev.Has(relevantOps) {
				continue
			}
			timer.Reset(debounce)
		case <-timer.C:
			logger.Debug("store file changed")
			select {
			case out <- struct{}{}:
			default:
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				logger.Warn("store watcher overflow; signalling change")
				select {
				case out <- struct{}{}:
				default:
				}
				continue
			}
			logger.Warn("store watcher error", "err", err)
		}
	}
}
