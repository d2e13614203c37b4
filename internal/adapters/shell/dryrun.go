package shell

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.trai.ch/cirun/internal/core/domain"
)

// DryRunExecutor prints commands instead of running them.
type DryRunExecutor struct {
	out io.Writer
}

// NewDryRunExecutor returns an executor printing to out, or stdout when out is nil.
func NewDryRunExecutor(out io.Writer) *DryRunExecutor {
	if out == nil {
		out = os.Stdout
	}
	return &DryRunExecutor{out: out}
}

// Execute writes "+ <command line>" to stdout, or to the executor's output when stdout is nil.
func (d *DryRunExecutor) Execute(
	_ context.Context,
	cmd domain.Command,
	_ []string,
	stdout, _ io.Writer,
) error {
	if cmd.IsZero() {
		return domain.ErrEmptyCommand
	}

	w := stdout
	if w == nil {
		w = d.out
	}
	_, err := fmt.Fprintf(w, "+ %s\n", cmd)
	return err
}
