// Package pipeline runs the cache, install, build and test sequence of a CI job.
package pipeline

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"go.trai.ch/cirun/internal/core/domain"
	"go.trai.ch/cirun/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Variables exported to commands and to later job steps.
const (
	envCI   = "CI"
	envTerm = "TERM"
)

// Pipeline executes a Plan step by step.
type Pipeline struct {
	executor ports.Executor
	store    ports.CacheStore
	workflow ports.Workflow
	tracer   ports.Tracer
	logger   ports.Logger

	exported map[string]string
}

// New creates a new Pipeline.
func New(
	executor ports.Executor,
	store ports.CacheStore,
	workflow ports.Workflow,
	tracer ports.Tracer,
	logger ports.Logger,
) *Pipeline {
	return &Pipeline{
		executor: executor,
		store:    store,
		workflow: workflow,
		tracer:   tracer,
		logger:   logger,
		exported: make(map[string]string),
	}
}

// Run executes the plan. The first failing step aborts the run.
//
// Both caches are restored concurrently. A miss on either runs install,
// verify and both saves. Percy is installed on a hit as well as after a
// miss: npm ci drops packages missing from the lockfile, so installing it
// only on a hit would lose it on every cold run.
func (p *Pipeline) Run(ctx context.Context, plan Plan) error {
	npmHit, cypressHit, err := p.restoreCaches(ctx, plan)
	if err != nil {
		return err
	}

	p.logger.Info(fmt.Sprintf("npm cache hit: %t", npmHit))
	p.logger.Info(fmt.Sprintf("cypress cache hit: %t", cypressHit))

	cacheHit := npmHit && cypressHit
	p.tracer.EmitPlan(ctx, plan.Steps(cacheHit))

	if !cacheHit {
		if err := p.install(ctx, plan); err != nil {
			return err
		}
	}

	if plan.Inputs.Percy {
		if err := p.exec(ctx, StepInstallPercy, plan.PercyInstall); err != nil {
			return err
		}
	} else {
		p.logger.Info("skipping percy install: percy is false or not set")
	}

	if err := p.exec(ctx, StepBuild, plan.Build); err != nil {
		return err
	}

	if !plan.Inputs.RunTests {
		p.logger.Info("skipping tests: runTests is false")
		return nil
	}

	return p.test(ctx, plan)
}

// restoreCaches looks up both caches concurrently and joins the results.
func (p *Pipeline) restoreCaches(ctx context.Context, plan Plan) (npmHit, cypressHit bool, err error) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hit, err := p.restore(gctx, StepRestoreNpm, plan.Npm)
		npmHit = hit
		return err
	})
	g.Go(func() error {
		hit, err := p.restore(gctx, StepRestoreCypress, plan.Cypress)
		cypressHit = hit
		return err
	})

	if err := g.Wait(); err != nil {
		return false, false, err
	}
	return npmHit, cypressHit, nil
}

func (p *Pipeline) restore(ctx context.Context, name string, spec domain.CacheSpec) (bool, error) {
	var hit bool
	err := p.step(ctx, name, func(ctx context.Context, span ports.Span) error {
		span.SetAttribute("cache.key", spec.PrimaryKey)
		span.SetAttribute("cache.path", spec.Path)

		res, err := p.store.Restore(ctx, spec)
		if err != nil {
			return err
		}
		hit = res.Hit(spec)

		switch {
		case hit:
			_, _ = fmt.Fprintf(span, "restored %s from %s\n", spec.Path, res.MatchedKey)
		case res.Restored():
			_, _ = fmt.Fprintf(span, "restored %s from partial match %s\n", spec.Path, res.MatchedKey)
		default:
			_, _ = fmt.Fprintf(span, "no cache found for %s\n", spec.PrimaryKey)
		}
		span.SetAttribute("cache.hit", hit)
		return nil
	}, ports.WithParallel())
	return hit, err
}

// install runs on a cache miss: install dependencies, check the test runner
// binary and snapshot both caches.
func (p *Pipeline) install(ctx context.Context, plan Plan) error {
	// Keeps npm from printing progress bars.
	if err := p.export(envCI, "1"); err != nil {
		return err
	}

	if err := p.exec(ctx, StepInstall, plan.Install); err != nil {
		return err
	}
	if err := p.exec(ctx, StepVerify, plan.Verify); err != nil {
		return err
	}
	if err := p.save(ctx, StepSaveNpm, plan.Npm); err != nil {
		return err
	}
	return p.save(ctx, StepSaveCypress, plan.Cypress)
}

func (p *Pipeline) save(ctx context.Context, name string, spec domain.CacheSpec) error {
	return p.step(ctx, name, func(ctx context.Context, span ports.Span) error {
		span.SetAttribute("cache.key", spec.PrimaryKey)
		span.SetAttribute("cache.path", spec.Path)
		_, _ = fmt.Fprintf(span, "saving %s as %s\n", spec.Path, spec.PrimaryKey)
		return p.store.Save(ctx, spec)
	})
}

func (p *Pipeline) test(ctx context.Context, plan Plan) error {
	p.logger.Info("test command: " + plan.Test.String())

	if err := p.export(envTerm, "xterm"); err != nil {
		return err
	}
	return p.exec(ctx, StepTest, plan.Serve)
}

func (p *Pipeline) exec(ctx context.Context, name string, cmd domain.Command) error {
	return p.step(ctx, name, func(ctx context.Context, span ports.Span) error {
		span.SetAttribute("command", cmd.String())
		return p.executor.Execute(ctx, cmd, p.environ(), span, span)
	})
}

// step runs fn inside a span named after the step.
func (p *Pipeline) step(
	ctx context.Context,
	name string,
	fn func(context.Context, ports.Span) error,
	opts ...ports.SpanOption,
) error {
	ctx, span := p.tracer.Start(ctx, name, opts...)
	defer span.End()

	if err := fn(ctx, span); err != nil {
		span.RecordError(err)
		return zerr.With(zerr.Wrap(err, fmt.Sprintf("%s failed", name)), "step", name)
	}
	return nil
}

func (p *Pipeline) export(name, value string) error {
	p.exported[name] = value
	if err := p.workflow.ExportVariable(name, value); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrExportFailed.Error()), "variable", name)
	}
	return nil
}

// environ returns the exported variables as sorted KEY=VALUE pairs.
func (p *Pipeline) environ() []string {
	keys := slices.Sorted(maps.Keys(p.exported))
	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+p.exported[k])
	}
	return env
}
