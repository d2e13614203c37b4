package domain

// CIContext carries the workflow metadata used to tie parallel jobs together.
type CIContext struct {
	Workflow string
	SHA      string
}

// BuildID identifies a run across the jobs of one workflow execution.
func (c CIContext) BuildID() string {
	return c.Workflow + " - " + c.SHA
}
