package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/cirun/internal/app"
	"go.trai.ch/cirun/internal/core/domain"
	"go.trai.ch/cirun/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	loader   *mocks.MockConfigLoader
	workflow *mocks.MockWorkflow
	logger   *mocks.MockLogger
	app      *app.App
	env      map[string]string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		loader:   mocks.NewMockConfigLoader(ctrl),
		workflow: mocks.NewMockWorkflow(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		env:      map[string]string{},
	}
	f.app = app.New(
		f.loader,
		mocks.NewMockHasher(ctrl),
		mocks.NewMockExecutor(ctrl),
		mocks.NewMockCacheStoreFactory(ctrl),
		f.workflow,
		f.logger,
	).WithGetenv(func(key string) string { return f.env[key] })
	return f
}

func (f *fixture) provider() ComponentProvider {
	return func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: f.app, Logger: f.logger}, func() {}, nil
	}
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	f := newFixture(t)

	stdout := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stdout, new(bytes.Buffer), f.provider())

	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "cirun version")
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, new(bytes.Buffer), stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run returns 1 and logs when a command fails.
func TestRun_ExecutionError(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(".").Return(domain.Settings{}, domain.ErrInvalidPort)
	f.logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, domain.ErrInvalidPort)
	})

	exitCode := run(context.Background(), []string{"clean"}, new(bytes.Buffer), new(bytes.Buffer), f.provider())
	assert.Equal(t, 1, exitCode)
}

// TestRun_ConfigErrorAnnotates verifies that failures before the pipeline starts are reported too.
func TestRun_ConfigErrorAnnotates(t *testing.T) {
	f := newFixture(t)
	f.env["GITHUB_ACTIONS"] = "true"

	f.loader.EXPECT().Load(".").Return(domain.Settings{}, domain.ErrInvalidPort)
	f.workflow.EXPECT().Input(gomock.Any()).Return("").AnyTimes()
	f.logger.EXPECT().Error(gomock.Any())
	f.workflow.EXPECT().SetFailed(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, domain.ErrInvalidPort)
		assert.NotErrorIs(t, err, domain.ErrPipelineFailed)
	})

	exitCode := run(context.Background(), []string{"run"}, new(bytes.Buffer), new(bytes.Buffer), f.provider())
	assert.Equal(t, 1, exitCode)
}

// TestRun_PipelineFailureAnnotates verifies that a failed run is reported to the workflow.
func TestRun_PipelineFailureAnnotates(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	ctrl := gomock.NewController(t)

	f := newFixture(t)
	f.env["GITHUB_ACTIONS"] = "true"

	hasher := mocks.NewMockHasher(ctrl)
	executor := mocks.NewMockExecutor(ctrl)
	stores := mocks.NewMockCacheStoreFactory(ctrl)
	store := mocks.NewMockCacheStore(ctrl)
	f.app = app.New(f.loader, hasher, executor, stores, f.workflow, f.logger).
		WithGetenv(func(key string) string { return f.env[key] }).
		WithOutput(new(bytes.Buffer), new(bytes.Buffer))

	f.loader.EXPECT().Load(".").Return(domain.DefaultSettings(), nil)
	hasher.EXPECT().HashFile(gomock.Any()).Return("abc", nil)
	f.workflow.EXPECT().Input(gomock.Any()).Return("").AnyTimes()
	f.workflow.EXPECT().Context().Return(domain.CIContext{Workflow: "CI", SHA: "abc123"})
	stores.EXPECT().New(gomock.Any(), gomock.Any()).Return(store, nil)
	store.EXPECT().Restore(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, spec domain.CacheSpec) (domain.RestoreResult, error) {
			return domain.RestoreResult{MatchedKey: spec.PrimaryKey}, nil
		}).Times(2)
	executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.ErrCommandFailed)
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	f.logger.EXPECT().Error(gomock.Any())
	f.workflow.EXPECT().SetFailed(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, domain.ErrPipelineFailed)
		assert.ErrorIs(t, err, domain.ErrCommandFailed)
	})

	exitCode := run(context.Background(), []string{"run", "--ci"}, new(bytes.Buffer), new(bytes.Buffer), f.provider())
	assert.Equal(t, 1, exitCode)
}
