package journal

import (
	"bytes"
	"strings"
	"sync"
	"time"

	"github.com/vito/progrock"
)

var _ progrock.Writer = (*tape)(nil)

// Step is the recorded state of one vertex.
type Step struct {
	Name      string
	Started   time.Time
	Completed time.Time
	Error     string
	Tail      []string
}

// Duration is zero until the step completes.
func (s Step) Duration() time.Duration {
	if s.Completed.IsZero() || s.Started.IsZero() {
		return 0
	}
	return s.Completed.Sub(s.Started)
}

func (s Step) result() string {
	switch {
	case s.Error != "":
		return "❌ " + cell(s.Error)
	case s.Completed.IsZero():
		return "⏳ running"
	default:
		return "✅ passed"
	}
}

// cell keeps text inside a single table cell.
func cell(text string) string {
	text = strings.ReplaceAll(text, "|", `\|`)
	return strings.Join(strings.Fields(text), " ")
}

// tape folds progrock status updates into per-vertex state.
type tape struct {
	tailLines int

	mu      sync.Mutex
	order   []string
	steps   map[string]*Step
	partial map[string][]byte
	closed  bool
}

func newTape(tailLines int) *tape {
	return &tape{
		tailLines: tailLines,
		steps:     make(map[string]*Step),
		partial:   make(map[string][]byte),
	}
}

// WriteStatus implements progrock.Writer.
func (t *tape) WriteStatus(u *progrock.StatusUpdate) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}

	for _, v := range u.GetVertexes() {
		s := t.stepLocked(v.GetId())
		if v.GetName() != "" {
			s.Name = v.GetName()
		}
		if ts := v.GetStarted(); ts != nil {
			s.Started = ts.AsTime()
		}
		if ts := v.GetCompleted(); ts != nil {
			s.Completed = ts.AsTime()
		}
		if msg := v.GetError(); msg != "" {
			s.Error = msg
		}
	}

	for _, l := range u.GetLogs() {
		t.appendLocked(l.GetVertex(), l.GetData())
	}
	return nil
}

// Close flushes partial lines into the tails. Later updates are ignored.
func (t *tape) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	for id, rest := range t.partial {
		if len(rest) > 0 {
			t.pushLocked(t.stepLocked(id), string(rest))
		}
	}
	clear(t.partial)
	return nil
}

// Steps returns the recorded steps in the order they started.
func (t *tape) Steps() []Step {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Step, 0, len(t.order))
	for _, id := range t.order {
		s := *t.steps[id]
		s.Tail = append([]string(nil), s.Tail...)
		if rest := t.partial[id]; len(rest) > 0 {
			s.Tail = append(s.Tail, string(rest))
		}
		out = append(out, s)
	}
	return out
}

func (t *tape) stepLocked(id string) *Step {
	s, ok := t.steps[id]
	if !ok {
		s = &Step{}
		t.steps[id] = s
		t.order = append(t.order, id)
	}
	return s
}

func (t *tape) appendLocked(id string, data []byte) {
	s := t.stepLocked(id)
	buf := append(t.partial[id], data...)
	for {
		i := bytes.IndexByte(buf, '\n')
		if i < 0 {
			break
		}
		t.pushLocked(s, strings.TrimSuffix(string(buf[:i]), "\r"))
		buf = buf[i+1:]
	}
	t.partial[id] = append([]byte(nil), buf...)
}

func (t *tape) pushLocked(s *Step, line string) {
	if t.tailLines <= 0 {
		return
	}
	s.Tail = append(s.Tail, line)
	if over := len(s.Tail) - t.tailLines; over > 0 {
		s.Tail = s.Tail[over:]
	}
}
