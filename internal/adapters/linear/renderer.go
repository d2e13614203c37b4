// Package linear provides a synchronous, line-buffered renderer for CI environments.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/cirun/internal/core/ports"
	"go.trai.ch/cirun/internal/ui/output"
	"go.trai.ch/cirun/internal/ui/style"
)

var _ ports.Renderer = (*Renderer)(nil)

// Grouper folds a block of log lines under a title.
type Grouper interface {
	Group(title string)
	EndGroup()
}

// Renderer implements ports.Renderer for CI/non-interactive environments.
// It outputs linear, chronological logs with step name prefixes.
//
// With a Grouper each step is folded into a group. Sequential steps stream
// their lines into a group opened when they start. Parallel steps are held
// back and printed as one group when they end, so they never interleave.
type Renderer struct {
	stdout  io.Writer
	stderr  io.Writer
	output  *termenv.Output
	grouper Grouper

	mu    sync.Mutex
	steps map[string]*stepState // spanID -> step state
	order []string
}

type stepState struct {
	name      string
	startTime time.Time
	held      bool // output waits for the step to end
	buf       bytes.Buffer
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithGrouper folds each step's output into a group.
func WithGrouper(g Grouper) Option {
	return func(r *Renderer) {
		r.grouper = g
	}
}

// NewRenderer creates a new Renderer. Nil writers default to os.Stdout and os.Stderr.
func NewRenderer(stdout, stderr io.Writer, opts ...Option) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	r := &Renderer{
		stdout: stdout,
		stderr: stderr,
		output: output.NewWithProfile(stderr, output.ColorProfileANSI),
		steps:  make(map[string]*stepState),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start is a no-op for the linear renderer.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop prints whatever is left of unfinished steps and closes their groups.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, spanID := range r.order {
		if step, ok := r.steps[spanID]; ok {
			r.finishLocked(step)
		}
	}
	clear(r.steps)
	r.order = nil
	return nil
}

// OnPlanEmit prints the planned steps.
func (r *Renderer) OnPlanEmit(steps []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.stderr, "Running %d step(s): %s\n",
		len(steps), strings.Join(steps, " "+style.Arrow+" "))
}

// OnStepStart registers the step and announces it, or opens its group.
func (r *Renderer) OnStepStart(spanID, name string, parallel bool, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	step := &stepState{name: name, startTime: startTime, held: r.grouper != nil && parallel}
	r.steps[spanID] = step
	r.order = append(r.order, spanID)

	switch {
	case step.held:
	case r.grouper != nil:
		r.grouper.Group(name)
	default:
		prefix := r.output.String(fmt.Sprintf("[%s]", name)).Faint().String()
		_, _ = fmt.Fprintf(r.stderr, "%s Starting...\n", prefix)
	}
}

// OnStepLog prints complete lines as they arrive. Held steps buffer until they end.
func (r *Renderer) OnStepLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	step, ok := r.steps[spanID]
	if !ok {
		return
	}

	step.buf.Write(data)
	if step.held {
		return
	}

	for {
		i := bytes.IndexByte(step.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		r.printLineLocked(step.name, step.buf.Next(i+1))
	}
}

// OnStepComplete prints the remaining output and the step status.
func (r *Renderer) OnStepComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	step, ok := r.steps[spanID]
	if !ok {
		return
	}
	r.finishLocked(step)

	duration := endTime.Sub(step.startTime).Round(time.Millisecond)
	prefix := fmt.Sprintf("[%s]", step.name)

	if err != nil {
		symbol := r.output.String(style.Cross).Foreground(r.output.Color(string(style.Red))).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v: %v\n", prefix, symbol, duration, err)
	} else {
		symbol := r.output.String(style.Check).Foreground(r.output.Color(string(style.Green))).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Completed in %v\n", prefix, symbol, duration)
	}

	delete(r.steps, spanID)
}

// finishLocked prints the rest of step's output and closes its group.
// Must be called with r.mu held.
func (r *Renderer) finishLocked(step *stepState) {
	if r.grouper == nil {
		if step.buf.Len() > 0 {
			r.printLineLocked(step.name, step.buf.Bytes())
			step.buf.Reset()
		}
		return
	}

	if step.held {
		r.grouper.Group(step.name)
		for line := range bytes.Lines(step.buf.Bytes()) {
			r.printLineLocked(step.name, line)
		}
	} else if step.buf.Len() > 0 {
		r.printLineLocked(step.name, step.buf.Bytes())
	}
	step.buf.Reset()
	r.grouper.EndGroup()
}

// printLineLocked prints a line, prefixed with the step name unless it sits in a group.
// Must be called with r.mu held.
func (r *Renderer) printLineLocked(name string, line []byte) {
	line = trimEOL(line)
	if r.grouper != nil {
		_, _ = r.stdout.Write(line)
		_, _ = io.WriteString(r.stdout, "\n")
		return
	}
	if len(line) == 0 {
		return
	}
	_, _ = fmt.Fprintf(r.stdout, "[%s] %s\n", name, line)
}

func trimEOL(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r"))
}
