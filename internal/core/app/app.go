package app

import (
	"codeextract/internal/core/config"
	"codeextract/internal/core/errors"
	"codeextract/internal/core/ports"
	"codeextract/internal/engine/extract"
	"codeextract/internal/engine/model"
	"codeextract/internal/engine/parser"
	"codeextract/internal/engine/render"
	"codeextract/internal/shared/observability"
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Options struct {
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Parser defaults to a Java parser built from the configuration.
	Parser ports.SourceParser
	// Publishers default to the sinks enabled in the configuration.
	Publishers []ports.Publisher
	// OnGroup is called once per source group after it reaches a terminal state.
	OnGroup func(GroupReport)
	// Cwd anchors a relative base directory. Defaults to the working directory.
	Cwd string
}

// App runs extractions for one configuration.
type App struct {
	Config     *config.Config
	Paths      config.ResolvedPaths
	parser     ports.SourceParser
	publishers []ports.Publisher
	logger     *slog.Logger
	onGroup    func(GroupReport)
}

func New(cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		return nil, errors.New(errors.CodeValidation, "config is required")
	}

	cwd := opts.Cwd
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeIO, "failed to resolve working directory")
		}
		cwd = wd
	}
	paths, err := config.ResolvePaths(cfg, cwd)
	if err != nil {
		return nil, err
	}

	p := opts.Parser
	if p == nil {
		jp, err := parser.NewParser(parser.Options{Recursive: cfg.Recursive, Exclude: cfg.Exclude})
		if err != nil {
			return nil, err
		}
		p = jp
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	publishers := opts.Publishers
	if publishers == nil {
		publishers = Publishers(cfg, paths)
	}

	return &App{
		Config:     cfg,
		Paths:      paths,
		parser:     p,
		publishers: publishers,
		logger:     logger,
		onGroup:    opts.OnGroup,
	}, nil
}

// Run extracts every source group in configured order. A fatal error aborts
// the run and no result is returned; group-local conditions only mark their
// group as skipped.
func (a *App) Run(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	logger := a.logger.With("run", runID)
	result := &Result{RunID: runID, Outputs: make(map[string]string)}

	ctx, span := observability.Tracer.Start(ctx, "codeextract.run",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Int("run.groups", len(a.Paths.Sources)),
		))
	defer span.End()

	if a.Config.Skip {
		logger.Info("extraction skipped by configuration")
		result.Skipped = true
		return result, nil
	}

	renderer, err := render.Load(a.Paths.Template, render.Options{Strict: a.Config.StrictVariables})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "template")
		return nil, err
	}

	for _, source := range a.Paths.Sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		report, text, err := a.runGroup(ctx, logger, renderer, source)
		observability.GroupsTotal.WithLabelValues(string(report.State)).Inc()
		observability.GroupDuration.Observe(report.Duration.Seconds())
		result.Groups = append(result.Groups, report)
		if a.onGroup != nil {
			a.onGroup(report)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, string(errors.CodeOf(err)))
			return nil, err
		}
		if report.State == StatePublished {
			result.Outputs[source.ID] = text
		}
	}

	logger.Info("extraction finished", "groups", len(result.Groups), "published", len(result.Outputs))
	return result, nil
}

func (a *App) runGroup(ctx context.Context, logger *slog.Logger, renderer *render.Renderer, source config.Source) (GroupReport, string, error) {
	start := time.Now()
	report := GroupReport{ID: source.ID, Dir: source.Dir, State: StateIdle}
	logger = logger.With("group", source.ID)

	ctx, span := observability.Tracer.Start(ctx, "codeextract.group",
		trace.WithAttributes(attribute.String("group", source.ID)))
	defer span.End()

	fail := func(err error) (GroupReport, string, error) {
		report.State = StateFailed
		report.Reason = err.Error()
		report.Duration = time.Since(start)
		span.RecordError(err)
		span.SetStatus(codes.Error, report.Reason)
		logger.Error("group failed", "error", err)
		if ctx.Err() != nil && stderrors.Is(err, ctx.Err()) {
			return report, "", err
		}
		return report, "", errors.AddContext(err, errors.CtxGroup, source.ID)
	}
	skip := func(reason string) (GroupReport, string, error) {
		report.State = StateSkipped
		report.Reason = reason
		report.Duration = time.Since(start)
		span.SetAttributes(attribute.String("group.skipped", reason))
		return report, "", nil
	}

	report.State = StateParsingGroup
	parsed, err := a.parser.ParseDir(ctx, source.Dir)
	if err != nil {
		return fail(err)
	}
	defer parsed.Close()

	report.Files = len(parsed.Files)
	report.Problems = parsed.Problems
	for _, problem := range parsed.Problems {
		logger.Warn("skipping file with syntax errors", "file", problem.File, "diagnostics", problem.String())
	}

	report.State = StateCollectingDeclarations
	collectOpts := extract.CollectOptions{IncludeConstructors: a.Config.IncludeConstructors}
	collections := make([]*extract.Collection, 0, len(parsed.Units))
	for _, unit := range parsed.Units {
		collections = append(collections, extract.Collect(unit, collectOpts))
	}

	report.State = StateAssemblingModel
	m, err := model.Assemble(source.ID, collections, model.Options{PreserveLayout: a.Config.Preserve()})
	switch {
	case stderrors.Is(err, model.ErrNoDeclarations):
		logger.Warn("no method declarations found", "dir", source.Dir, "files", report.Files)
		return skip(err.Error())
	case errors.IsCode(err, errors.CodeMalformedTree):
		logger.Warn("skipping group with malformed tree", "error", err)
		return skip(err.Error())
	case err != nil:
		return fail(err)
	}

	report.Methods = len(m.Methods)
	report.Types = len(m.Types)
	observability.MethodsExtractedTotal.Add(float64(len(m.Methods)))
	if len(m.Types) > 1 {
		names := make([]string, 0, len(m.Types))
		for _, g := range m.Types {
			names = append(names, g.Type.Name)
		}
		logger.Warn("group spans several types; type refers to the first", "types", names)
	}

	report.State = StateRendering
	text, err := renderer.Render(m)
	if err != nil {
		return fail(err)
	}
	logger.Debug("rendered group", "methods", report.Methods, "text", text)

	report.State = StatePublished
	report.Duration = time.Since(start)
	return report, text, nil
}

// Publish hands the outputs of result to every configured publisher in order.
// Skipped results leave existing artifacts untouched.
func (a *App) Publish(ctx context.Context, result *Result) error {
	if result == nil || result.Skipped {
		return nil
	}
	for _, p := range a.publishers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.Publish(ctx, result.Outputs); err != nil {
			return errors.AddContext(err, errors.CtxOperation, "publish "+p.Name())
		}
		a.logger.Debug("published outputs", "run", result.RunID, "sink", p.Name(), "groups", len(result.Outputs))
	}
	return nil
}

// WriteMetrics dumps the process metrics to the configured textfile, if any.
func (a *App) WriteMetrics() error {
	if a.Paths.Textfile == "" {
		return nil
	}
	if err := observability.WriteTextfile(a.Paths.Textfile); err != nil {
		return errors.AddContext(errors.Wrap(err, errors.CodeIO, "failed to write metrics"), errors.CtxPath, a.Paths.Textfile)
	}
	return nil
}
