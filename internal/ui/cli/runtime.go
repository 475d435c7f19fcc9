package cli

import (
	"codeextract/internal/core/app"
	"codeextract/internal/core/config"
	"codeextract/internal/shared/observability"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// Run executes the command line and returns the process exit code.
func Run(args []string) int {
	root := NewRootCommand(os.Stdout, os.Stderr)
	root.SetArgs(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		slog.Error("codeextract failed", "error", err)
		return 1
	}
	return 0
}

func runExtract(cmd *cobra.Command, opts *cliOptions) error {
	ctx := cmd.Context()
	configureLogging(cmd.ErrOrStderr(), opts.verbose)

	cfg, _, err := loadConfig(opts, cmd.Flags().Changed)
	if err != nil {
		return err
	}

	shutdown, err := setupTracing(ctx, cfg)
	if err != nil {
		return err
	}
	defer shutdown()

	bar := newProgress(opts.progress, len(cfg.Sources), cmd.ErrOrStderr())
	a, err := app.New(cfg, app.Options{OnGroup: bar.observe})
	if err != nil {
		return err
	}

	result, err := a.Run(ctx)
	bar.finish()
	if err == nil {
		err = a.Publish(ctx, result)
	}
	if mErr := a.WriteMetrics(); mErr != nil {
		slog.Warn("failed to write metrics", "error", mErr)
	}
	if err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), result)
	return nil
}

func runWatch(cmd *cobra.Command, opts *cliOptions) error {
	ctx := cmd.Context()
	configureLogging(cmd.ErrOrStderr(), opts.verbose)

	cfg, cfgPath, err := loadConfig(opts, cmd.Flags().Changed)
	if err != nil {
		return err
	}

	shutdown, err := setupTracing(ctx, cfg)
	if err != nil {
		return err
	}
	defer shutdown()

	reload := func(path string) (*config.Config, error) {
		next, err := config.Read(path)
		if err != nil {
			return nil, err
		}
		return finalizeConfig(next, opts, cmd.Flags().Changed)
	}

	out := cmd.OutOrStdout()
	return app.Watch(ctx, cfg, app.Options{}, app.WatchOptions{
		ConfigPath: cfgPath,
		Load:       reload,
		OnRun: func(result *app.Result, err error) {
			if err == nil {
				printSummary(out, result)
			}
		},
	})
}

// loadConfig reads the configuration file, falling back to defaults when the
// default file is absent, and layers environment then flag overrides on top.
// The returned path is empty when no file was read.
func loadConfig(opts *cliOptions, changed func(string) bool) (*config.Config, string, error) {
	path := opts.configPath
	cfg, err := config.Read(path)
	if err != nil {
		if changed("config") || !stderrors.Is(err, fs.ErrNotExist) {
			return nil, "", err
		}
		slog.Debug("no config file, using defaults", "path", path)
		cfg = config.Default()
		path = ""
	}

	cfg, err = finalizeConfig(cfg, opts, changed)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func finalizeConfig(cfg *config.Config, opts *cliOptions, changed func(string) bool) (*config.Config, error) {
	config.ApplyEnvOverrides(cfg)
	applyFlagOverrides(cfg, opts, changed)
	if err := config.Finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlagOverrides(cfg *config.Config, opts *cliOptions, changed func(string) bool) {
	if changed("base-dir") {
		cfg.BaseDir = opts.baseDir
	}
	if changed("source") {
		cfg.Sources = append([]string(nil), opts.sources...)
	}
	if changed("template") {
		cfg.Template = opts.template
	}
	if changed("skip") {
		cfg.Skip = opts.skip
	}
	if changed("recursive") {
		cfg.Recursive = opts.recursive
	}
}

func configureLogging(w io.Writer, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
}

func setupTracing(ctx context.Context, cfg *config.Config) (func(), error) {
	shutdown, err := observability.SetupTracing(ctx, observability.TracingOptions{
		Endpoint: cfg.Tracing.Endpoint,
		Insecure: cfg.Tracing.Insecure,
	})
	if err != nil {
		return nil, err
	}
	return func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Warn("failed to flush traces", "error", err)
		}
	}, nil
}

type progress struct {
	bar *progressbar.ProgressBar
}

func newProgress(enabled bool, total int, w io.Writer) *progress {
	if !enabled || total == 0 {
		return &progress{}
	}
	return &progress{bar: progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("extracting"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)}
}

func (p *progress) observe(report app.GroupReport) {
	if p.bar == nil {
		return
	}
	p.bar.Describe(report.ID)
	_ = p.bar.Add(1)
}

func (p *progress) finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
}

func printSummary(w io.Writer, result *app.Result) {
	if result == nil {
		return
	}
	for _, g := range result.Groups {
		switch g.State {
		case app.StatePublished:
			fmt.Fprintf(w, "%-9s %s (%d methods, %d files)\n", g.State, g.ID, g.Methods, g.Files)
		default:
			fmt.Fprintf(w, "%-9s %s: %s\n", g.State, g.ID, g.Reason)
		}
	}
}
