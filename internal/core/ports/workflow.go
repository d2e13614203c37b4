package ports

import "go.trai.ch/cirun/internal/core/domain"

// Workflow is the CI runtime the job executes in.
//
//go:generate go run go.uber.org/mock/mockgen -source=workflow.go -destination=mocks/mock_workflow.go -package=mocks
type Workflow interface {
	// Input returns the raw value of a job input, or "" when it was not given.
	Input(name string) string

	// ExportVariable makes name=value visible to this process and to later job steps.
	ExportVariable(name, value string) error

	// Context returns the workflow name and commit the job runs for.
	Context() domain.CIContext

	// SetFailed marks the job as failed with err's message.
	SetFailed(err error)
}
