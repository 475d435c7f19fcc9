package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// LoadFunc produces a ready configuration from a file.
type LoadFunc func(path string) (*Config, error)

// Watcher monitors a configuration file for changes.
type Watcher struct {
	path     string
	load     LoadFunc
	callback func(*Config)
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewWatcher creates a configuration watcher. A nil load uses Load.
func NewWatcher(path string, load LoadFunc, callback func(*Config)) *Watcher {
	if load == nil {
		load = Load
	}
	return &Watcher{
		path:     path,
		load:     load,
		callback: callback,
		stop:     make(chan struct{}),
	}
}

// Start begins watching the configuration file.
func (w *Watcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory to catch atomic saves that replace the file.
	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer watcher.Close()

		slog.Info("watching config", "path", w.path)

		var timer *time.Timer
		const debounce = 100 * time.Millisecond

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				if filepath.Clean(event.Name) != filepath.Clean(w.path) {
					continue
				}

				if event.Op&fsnotify.Write == fsnotify.Write ||
					event.Op&fsnotify.Create == fsnotify.Create {
					if timer != nil {
						timer.Stop()
					}
					timer = time.AfterFunc(debounce, w.reload)
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("config watcher error", "error", err)

			case <-w.stop:
				if timer != nil {
					timer.Stop()
				}
				return
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			}
		}
	}()

	return nil
}

// Stop stops the watcher. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
	w.wg.Wait()
}

func (w *Watcher) reload() {
	slog.Info("config changed, reloading", "path", w.path)
	cfg, err := w.load(w.path)
	if err != nil {
		slog.Error("failed to reload config", "path", w.path, "error", err)
		return
	}

	if w.callback != nil {
		w.callback(cfg)
	}
}
