// Package journal records pipeline steps on a progrock tape and publishes a
// step summary table when the run ends.
package journal

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/cirun/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultTailLines is how many output lines of a failed step the summary keeps.
const DefaultTailLines = 20

var (
	_ ports.Renderer = (*Journal)(nil)

	errInterrupted = zerr.New("interrupted")
)

// Publisher receives the rendered summary.
type Publisher interface {
	StepSummary(markdown string)
}

// Option configures a Journal.
type Option func(*Journal)

// WithTitle sets the summary heading.
func WithTitle(title string) Option {
	return func(j *Journal) {
		j.title = title
	}
}

// WithTailLines sets how many trailing lines of a failed step are shown.
func WithTailLines(n int) Option {
	return func(j *Journal) {
		j.tape.tailLines = n
	}
}

// Journal implements ports.Renderer by recording every step as a progrock
// vertex. Stop renders the recorded tape as Markdown and hands it to the publisher.
type Journal struct {
	publisher Publisher
	title     string
	tape      *tape
	rec       *progrock.Recorder

	mu       sync.Mutex
	planned  []string
	vertices map[string]*progrock.VertexRecorder // spanID -> vertex
}

// New creates a Journal publishing to p.
func New(p Publisher, opts ...Option) *Journal {
	t := newTape(DefaultTailLines)
	j := &Journal{
		publisher: p,
		title:     "cirun",
		tape:      t,
		rec:       progrock.NewRecorder(t),
		vertices:  make(map[string]*progrock.VertexRecorder),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Start is a no-op.
func (j *Journal) Start(_ context.Context) error {
	return nil
}

// OnPlanEmit remembers the planned steps so that unreached ones show up in the summary.
func (j *Journal) OnPlanEmit(steps []string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.planned = append(j.planned[:0], steps...)
}

// OnStepStart opens a vertex for the step.
func (j *Journal) OnStepStart(spanID, name string, _ bool, _ time.Time) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.vertices[spanID] = j.rec.Vertex(digest.FromString(spanID), name)
}

// OnStepLog records output on the step's vertex.
func (j *Journal) OnStepLog(spanID string, data []byte) {
	j.mu.Lock()
	v, ok := j.vertices[spanID]
	j.mu.Unlock()
	if ok {
		_, _ = v.Stdout().Write(data)
	}
}

// OnStepComplete closes the step's vertex.
func (j *Journal) OnStepComplete(spanID string, _ time.Time, err error) {
	j.mu.Lock()
	v, ok := j.vertices[spanID]
	delete(j.vertices, spanID)
	j.mu.Unlock()
	if ok {
		v.Done(err)
	}
}

// Stop marks unfinished steps as interrupted and publishes the summary.
func (j *Journal) Stop() error {
	j.mu.Lock()
	for id, v := range j.vertices {
		v.Done(errInterrupted)
		delete(j.vertices, id)
	}
	planned := j.planned
	j.mu.Unlock()

	md := j.render(planned)
	if j.publisher != nil {
		j.publisher.StepSummary(md)
	}
	return j.tape.Close()
}

// render formats the tape as a Markdown table followed by the tail of each failed step.
func (j *Journal) render(planned []string) string {
	steps := j.tape.Steps()

	var b strings.Builder
	fmt.Fprintf(&b, "### %s\n\n", j.title)
	b.WriteString("| Step | Result | Duration |\n| --- | --- | --- |\n")

	seen := make(map[string]bool, len(steps))
	for _, s := range steps {
		seen[s.Name] = true
		fmt.Fprintf(&b, "| %s | %s | %s |\n", cell(s.Name), s.result(), s.Duration().Round(time.Millisecond))
	}
	for _, name := range planned {
		if !seen[name] {
			fmt.Fprintf(&b, "| %s | ⏭️ not run | |\n", name)
		}
	}

	for _, s := range steps {
		if s.Error == "" || len(s.Tail) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n<details><summary>%s output (last %d lines)</summary>\n\n```text\n",
			s.Name, len(s.Tail))
		for _, line := range s.Tail {
			b.WriteString(line)
			b.WriteByte('\n')
		}
		b.WriteString("```\n\n</details>\n")
	}
	return b.String()
}
