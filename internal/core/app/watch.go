package app

import (
	"codeextract/internal/core/config"
	"codeextract/internal/core/watcher"
	"codeextract/internal/engine/parser"
	"codeextract/internal/shared/util"
	"context"
)

type WatchOptions struct {
	// ConfigPath is reloaded on change when watch.reload_config is set.
	ConfigPath string
	// Load reads ConfigPath on reload. Defaults to config.Load.
	Load config.LoadFunc
	// OnRun receives the outcome of every run, including the initial one.
	OnRun func(*Result, error)
}

// Watch runs an extraction, then re-runs it whenever a source file or the
// template changes, until ctx is done. Failed runs are reported through
// OnRun and do not stop watching. A reloaded configuration rebuilds the app.
func Watch(ctx context.Context, cfg *config.Config, opts Options, wopts WatchOptions) error {
	for {
		a, err := New(cfg, opts)
		if err != nil {
			return err
		}
		next, err := a.watch(ctx, wopts)
		if err != nil || next == nil {
			return err
		}
		cfg = next
	}
}

func (a *App) watch(ctx context.Context, wopts WatchOptions) (*config.Config, error) {
	changes := make(chan []string, 1)
	w, err := watcher.NewWatcher(a.Config.Watch.Debounce, a.Config.Exclude, func(paths []string) {
		select {
		case changes <- paths:
		default:
		}
	})
	if err != nil {
		return nil, err
	}
	defer w.Close()
	w.SetExtensions([]string{parser.JavaGrammar().Extension})

	targets := make([]string, 0, len(a.Paths.Sources)+1)
	for _, source := range a.Paths.Sources {
		targets = append(targets, source.Dir)
	}
	if a.Paths.Template != "" {
		targets = append(targets, a.Paths.Template)
	}
	if err := w.Watch(targets); err != nil {
		return nil, err
	}

	reloads := make(chan *config.Config, 1)
	if wopts.ConfigPath != "" && a.Config.Watch.ReloadConfig {
		cw := config.NewWatcher(wopts.ConfigPath, wopts.Load, func(cfg *config.Config) {
			select {
			case reloads <- cfg:
			default:
			}
		})
		if err := cw.Start(ctx); err != nil {
			return nil, err
		}
		defer cw.Stop()
	}

	throttle := util.NewThrottle(a.Config.Watch.MaxRunsPerSecond)

	a.logger.Info("watching for changes", "targets", len(targets), "debounce", a.Config.Watch.Debounce)
	a.runOnce(ctx, wopts.OnRun)

	for {
		select {
		case <-ctx.Done():
			return nil, nil
		case next := <-reloads:
			a.logger.Info("configuration reloaded", "path", wopts.ConfigPath)
			return next, nil
		case paths := <-changes:
			a.logger.Info("change detected", "files", len(paths), "first", paths[0])
			if d := throttle.Delay(); d > 0 {
				a.logger.Debug("re-run throttled", "wait", d)
			}
			if err := throttle.Wait(ctx); err != nil {
				return nil, nil
			}
			a.runOnce(ctx, wopts.OnRun)
		}
	}
}

func (a *App) runOnce(ctx context.Context, onRun func(*Result, error)) {
	result, err := a.Run(ctx)
	if err == nil {
		err = a.Publish(ctx, result)
	}
	if mErr := a.WriteMetrics(); mErr != nil {
		a.logger.Warn("failed to write metrics", "error", mErr)
	}
	if err != nil && ctx.Err() == nil {
		a.logger.Error("extraction failed", "error", err)
	}
	if onRun != nil {
		onRun(result, err)
	}
}
