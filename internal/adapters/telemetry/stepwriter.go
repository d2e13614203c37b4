package telemetry

import (
	"bytes"
	"sync"
	"time"

	"go.trai.ch/zerr"
)

const (
	// DefaultMaxPending is the number of bytes a step may hold back before they are forced out.
	DefaultMaxPending = 4096
	// DefaultMaxDelay is how long complete lines wait before delivery.
	DefaultMaxDelay = 50 * time.Millisecond
)

var errStepWriterClosed = zerr.New("step output is closed")

// StepWriter forwards the output of one step to a sink in whole lines.
//
// Complete lines are delivered at most maxDelay after they were written, or
// at once when maxPending bytes are waiting. A trailing partial line stays
// back until it is completed, grows past maxPending, or the writer is closed.
// No goroutine runs while nothing is pending.
type StepWriter struct {
	maxPending int
	maxDelay   time.Duration
	sink       func([]byte)

	mu     sync.Mutex
	buf    []byte
	timer  *time.Timer
	closed bool
}

// NewStepWriter returns a StepWriter delivering to sink.
// Non-positive limits fall back to the defaults.
func NewStepWriter(maxPending int, maxDelay time.Duration, sink func([]byte)) *StepWriter {
	if maxPending <= 0 {
		maxPending = DefaultMaxPending
	}
	if maxDelay <= 0 {
		maxDelay = DefaultMaxDelay
	}
	return &StepWriter{maxPending: maxPending, maxDelay: maxDelay, sink: sink}
}

// Write queues p for delivery.
func (w *StepWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return 0, errStepWriterClosed
	}

	w.buf = append(w.buf, p...)
	if len(w.buf) >= w.maxPending {
		w.deliverLocked(false)
		return len(p), nil
	}
	if w.timer == nil && bytes.IndexByte(w.buf, '\n') >= 0 {
		w.timer = time.AfterFunc(w.maxDelay, w.tick)
	}
	return len(p), nil
}

// Close delivers everything still pending, including a partial line.
// Later writes fail.
func (w *StepWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	w.deliverLocked(true)
	return nil
}

func (w *StepWriter) tick() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.timer = nil
	if !w.closed {
		w.deliverLocked(false)
	}
}

// deliverLocked hands complete lines to the sink. With force, or when the
// partial tail alone exceeds maxPending, the tail goes too.
// Must be called with w.mu held; the sink runs under the lock to keep chunks in order.
func (w *StepWriter) deliverLocked(force bool) {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}

	n := len(w.buf)
	if !force {
		n = bytes.LastIndexByte(w.buf, '\n') + 1
	}
	if tail := len(w.buf) - n; tail >= w.maxPending {
		n = len(w.buf)
	}
	if n == 0 {
		return
	}

	chunk := make([]byte, n)
	copy(chunk, w.buf[:n])
	w.buf = append(w.buf[:0], w.buf[n:]...)

	if w.sink != nil {
		w.sink(chunk)
	}
}
