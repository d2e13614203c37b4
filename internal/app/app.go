// Package app implements the application layer for cirun.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.trai.ch/cirun/internal/adapters/cache"
	"go.trai.ch/cirun/internal/adapters/detector"
	"go.trai.ch/cirun/internal/adapters/journal"
	"go.trai.ch/cirun/internal/adapters/linear"
	"go.trai.ch/cirun/internal/adapters/shell"
	"go.trai.ch/cirun/internal/adapters/telemetry"
	"go.trai.ch/cirun/internal/core/domain"
	"go.trai.ch/cirun/internal/core/ports"
	"go.trai.ch/cirun/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// tracerName is the instrumentation scope of the pipeline spans.
const tracerName = "cirun"

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	hasher       ports.Hasher
	executor     ports.Executor
	stores       ports.CacheStoreFactory
	workflow     ports.Workflow
	logger       ports.Logger

	dir      string
	platform domain.Platform
	getenv   detector.Getenv
	stdout   io.Writer
	stderr   io.Writer
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	hasher ports.Hasher,
	executor ports.Executor,
	stores ports.CacheStoreFactory,
	workflow ports.Workflow,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		hasher:       hasher,
		executor:     executor,
		stores:       stores,
		workflow:     workflow,
		logger:       log,
		dir:          ".",
		platform:     domain.CurrentPlatform(),
		getenv:       os.Getenv,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
	}
}

// WithDir sets the project directory. Defaults to the working directory.
func (a *App) WithDir(dir string) *App {
	a.dir = dir
	return a
}

// WithPlatform overrides the platform used in cache keys.
func (a *App) WithPlatform(p domain.Platform) *App {
	a.platform = p
	return a
}

// WithGetenv replaces the environment lookup used for output mode detection.
func (a *App) WithGetenv(getenv detector.Getenv) *App {
	a.getenv = getenv
	return a
}

// WithOutput sets the streams the renderer writes to.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	Flags      InputFlags
	DryRun     bool
	OutputMode string
}

// Run executes the restore, install, build and test sequence.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	// 1. Resolve settings and inputs
	settings, err := a.configLoader.Load(a.dir)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}
	inputs := a.Inputs(opts.Flags)

	npm, cypress, err := a.cacheSpecs(settings)
	if err != nil {
		return err
	}

	plan, err := pipeline.NewPlan(settings, inputs, a.workflow.Context(), npm, cypress)
	if err != nil {
		return zerr.Wrap(err, "failed to plan run")
	}

	// 2. Select cache backend and executor
	executor, store := a.executor, ports.CacheStore(cache.NewNoneStore())
	if opts.DryRun {
		executor = shell.NewDryRunExecutor(a.stdout)
	} else {
		store, err = a.stores.New(ctx, settings.Cache)
		if err != nil {
			return zerr.Wrap(err, "failed to open cache")
		}
	}

	// 3. Initialize renderer and telemetry
	renderer := a.renderer(opts.OutputMode)
	provider := telemetry.NewTracerProvider(renderer)
	defer func() {
		_ = provider.Shutdown(context.WithoutCancel(ctx))
	}()
	tracer := telemetry.NewOTelTracer(tracerName,
		telemetry.WithTracerProvider(provider),
		telemetry.WithRenderer(renderer),
	)

	if err := renderer.Start(ctx); err != nil {
		return err
	}
	defer func() {
		_ = renderer.Stop()
	}()

	// 4. Run the pipeline
	p := pipeline.New(executor, store, a.workflow, tracer, a.logger)
	if err := p.Run(ctx, plan); err != nil {
		return errors.Join(domain.ErrPipelineFailed, err)
	}
	return nil
}

// Keys prints the cache specs the run would use.
func (a *App) Keys(_ context.Context, w io.Writer) error {
	settings, err := a.configLoader.Load(a.dir)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	npm, cypress, err := a.cacheSpecs(settings)
	if err != nil {
		return err
	}

	for _, spec := range []domain.CacheSpec{npm, cypress} {
		_, _ = fmt.Fprintf(w, "%s\n  path:           %s\n  primary key:    %s\n  restore prefix: %s\n",
			spec.Kind, spec.Path, spec.PrimaryKey, spec.RestorePrefix)
	}
	return nil
}

// Clean removes the local snapshot directory.
func (a *App) Clean(_ context.Context) error {
	settings, err := a.configLoader.Load(a.dir)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	dir := settings.Cache.Dir
	if settings.Cache.Backend != domain.BackendLocal {
		a.logger.Warn(fmt.Sprintf("cache backend is %q, only the local directory is removed", settings.Cache.Backend))
	}

	a.logger.Info(fmt.Sprintf("removing %s...", dir))
	if err := os.RemoveAll(dir); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCleanFailed.Error()), "path", dir)
	}
	a.logger.Info(fmt.Sprintf("removed %s", dir))
	return nil
}

// Fail reports err to the CI runtime when running inside GitHub Actions.
func (a *App) Fail(err error) {
	if detector.Detect(a.getenv) == detector.ModeGitHub {
		a.workflow.SetFailed(err)
	}
}

// cacheSpecs derives both cache specs from the lockfile hash.
func (a *App) cacheSpecs(settings domain.Settings) (npm, cypress domain.CacheSpec, err error) {
	lockHash, err := a.hasher.HashFile(settings.Lockfile)
	if err != nil {
		return npm, cypress, err
	}

	npm = domain.NewCacheSpec(domain.CacheNpm, settings.NpmCachePath, a.platform, lockHash)
	cypress = domain.NewCacheSpec(domain.CacheCypress, settings.CypressCachePath, a.platform, lockHash)
	return npm, cypress, nil
}

// renderer picks the output for the resolved mode. In GitHub mode step
// output is folded into groups and a step summary is published at the end.
func (a *App) renderer(flag string) ports.Renderer {
	mode := detector.ResolveMode(detector.Detect(a.getenv), flag)
	if mode != detector.ModeGitHub {
		return linear.NewRenderer(a.stdout, a.stderr)
	}

	var opts []linear.Option
	if g, ok := a.workflow.(linear.Grouper); ok {
		opts = append(opts, linear.WithGrouper(g))
	}
	renderers := telemetry.Fanout{linear.NewRenderer(a.stdout, a.stderr, opts...)}
	if p, ok := a.workflow.(journal.Publisher); ok {
		renderers = append(renderers, journal.New(p))
	}
	return renderers
}
