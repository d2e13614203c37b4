// Package actions adapts the GitHub Actions runtime to ports.Workflow.
package actions

import (
	"io"
	"os"

	"github.com/sethvargo/go-githubactions"
	"go.trai.ch/cirun/internal/core/domain"
	"go.trai.ch/cirun/internal/core/ports"
	"go.trai.ch/zerr"
)

// Environment variables read outside of the action context.
const (
	envGitHubEnv      = "GITHUB_ENV"
	envStepSummary    = "GITHUB_STEP_SUMMARY"
	envGitHubWorkflow = "GITHUB_WORKFLOW"
	envGitHubSHA      = "GITHUB_SHA"
)

var _ ports.Workflow = (*Action)(nil)

// Action talks to the runner through workflow commands and environment files.
type Action struct {
	action *githubactions.Action
	getenv func(string) string
	setenv func(string, string) error
}

// Option configures an Action.
type Option func(*options)

type options struct {
	out    io.Writer
	getenv func(string) string
	setenv func(string, string) error
}

// WithWriter sets where workflow commands are written. Defaults to os.Stdout.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// WithGetenv replaces the environment lookup.
func WithGetenv(getenv func(string) string) Option {
	return func(o *options) {
		o.getenv = getenv
	}
}

// WithSetenv replaces the function updating this process's environment.
func WithSetenv(setenv func(string, string) error) Option {
	return func(o *options) {
		o.setenv = setenv
	}
}

// New creates an Action.
func New(opts ...Option) *Action {
	o := options{
		out:    os.Stdout,
		getenv: os.Getenv,
		setenv: os.Setenv,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Action{
		action: githubactions.New(
			githubactions.WithWriter(o.out),
			githubactions.WithGetenv(o.getenv),
		),
		getenv: o.getenv,
		setenv: o.setenv,
	}
}

// Input returns the trimmed value of the INPUT_<NAME> variable.
func (a *Action) Input(name string) string {
	return a.action.GetInput(name)
}

// ExportVariable sets name for this process and, inside a runner, for the following job steps.
func (a *Action) ExportVariable(name, value string) error {
	if err := a.setenv(name, value); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrExportFailed.Error()), "variable", name)
	}
	if a.getenv(envGitHubEnv) != "" {
		a.action.SetEnv(name, value)
	}
	return nil
}

// Context returns the workflow name and commit SHA of the run.
func (a *Action) Context() domain.CIContext {
	ghctx, err := a.action.Context()
	if err != nil {
		// The event payload is unreadable; the plain variables are still usable.
		return domain.CIContext{
			Workflow: a.getenv(envGitHubWorkflow),
			SHA:      a.getenv(envGitHubSHA),
		}
	}
	return domain.CIContext{Workflow: ghctx.Workflow, SHA: ghctx.SHA}
}

// SetFailed emits an error annotation for err.
func (a *Action) SetFailed(err error) {
	if err == nil {
		return
	}
	a.action.Errorf("%s", err.Error())
}

// StepSummary appends markdown to the job summary. Outside a runner it does nothing.
func (a *Action) StepSummary(markdown string) {
	if a.getenv(envStepSummary) == "" {
		return
	}
	a.action.AddStepSummary(markdown)
}

// Group starts a collapsible log group.
func (a *Action) Group(title string) {
	a.action.Group(title)
}

// EndGroup closes the current log group.
func (a *Action) EndGroup() {
	a.action.EndGroup()
}
