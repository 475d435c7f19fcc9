package watcher

import (
	"codeextract/internal/shared/observability"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

// Watcher reports batches of changed source files after a quiet period.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	debounce   time.Duration
	exclude    []glob.Glob
	extFilters map[string]bool
	files      map[string]bool
	roots      []string
	onChange   func([]string)
	callbackMu sync.Mutex

	pending   map[string]time.Time
	pendingMu sync.Mutex
	timer     *time.Timer
}

// NewWatcher builds a watcher calling onChange with the sorted paths that
// changed. exclude globs are matched against base names and against paths
// relative to each watched directory.
func NewWatcher(debounce time.Duration, exclude []string, onChange func([]string)) (*Watcher, error) {
	if onChange == nil {
		return nil, os.ErrInvalid
	}

	compiled := make([]glob.Glob, 0, len(exclude))
	for _, pattern := range exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, g)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		fsWatcher:  fsw,
		debounce:   debounce,
		exclude:    compiled,
		onChange:   onChange,
		pending:    make(map[string]time.Time),
		extFilters: map[string]bool{".java": true},
		files:      make(map[string]bool),
	}, nil
}

// SetExtensions replaces the extensions that count as source changes.
func (w *Watcher) SetExtensions(extensions []string) {
	filter := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized == "" {
			continue
		}
		filter[normalized] = true
	}
	w.extFilters = filter
}

// Watch starts watching directories recursively. A path naming a regular
// file, such as a template, is tracked through its parent directory and
// always reported regardless of extension.
func (w *Watcher) Watch(paths []string) error {
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			w.files[filepath.Clean(path)] = true
			if err := w.fsWatcher.Add(filepath.Dir(path)); err != nil {
				return err
			}
			continue
		}
		w.roots = append(w.roots, filepath.Clean(path))
		if err := w.watchRecursive(path); err != nil {
			return err
		}
	}

	go w.run()
	return nil
}

func (w *Watcher) watchRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if path != root && w.excluded(path) {
				return filepath.SkipDir
			}
			return w.fsWatcher.Add(path)
		}

		return nil
	})
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			observability.WatcherEventsTotal.Inc()

			if event.Op&fsnotify.Create == fsnotify.Create {
				info, err := os.Stat(event.Name)
				if err == nil && info.IsDir() {
					if !w.excluded(event.Name) {
						if err := w.watchRecursive(event.Name); err != nil {
							slog.Warn("failed to watch new directory", "path", event.Name, "error", err)
						} else {
							w.enqueueExistingFiles(event.Name)
						}
					}
					continue
				}
			}

			if w.shouldIgnoreFile(event.Name) {
				continue
			}

			if event.Op&fsnotify.Write == fsnotify.Write ||
				event.Op&fsnotify.Create == fsnotify.Create ||
				event.Op&fsnotify.Remove == fsnotify.Remove ||
				event.Op&fsnotify.Rename == fsnotify.Rename {
				w.scheduleChange(event.Name)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) scheduleChange(path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[path] = time.Now()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flushChanges)
}

func (w *Watcher) flushChanges() {
	w.pendingMu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]time.Time)
	w.pendingMu.Unlock()

	if len(paths) > 0 {
		sort.Strings(paths)
		w.callbackMu.Lock()
		defer w.callbackMu.Unlock()
		w.onChange(paths)
	}
}

func (w *Watcher) excluded(path string) bool {
	if len(w.exclude) == 0 {
		return false
	}
	candidates := []string{filepath.Base(path)}
	for _, root := range w.roots {
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		candidates = append(candidates, filepath.ToSlash(rel))
	}
	for _, g := range w.exclude {
		for _, c := range candidates {
			if g.Match(c) {
				return true
			}
		}
	}
	return false
}

func (w *Watcher) shouldIgnoreFile(path string) bool {
	if w.files[filepath.Clean(path)] {
		return false
	}

	ext := strings.ToLower(filepath.Ext(path))
	if len(w.extFilters) > 0 && !w.extFilters[ext] {
		return true
	}
	return w.excluded(path)
}

func (w *Watcher) Close() error {
	w.pendingMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pendingMu.Unlock()
	return w.fsWatcher.Close()
}

func (w *Watcher) enqueueExistingFiles(root string) {
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info == nil || info.IsDir() {
			return nil
		}
		if w.shouldIgnoreFile(path) {
			return nil
		}
		w.scheduleChange(path)
		return nil
	})
}
