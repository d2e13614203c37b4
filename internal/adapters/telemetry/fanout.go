package telemetry

import (
	"context"
	"errors"
	"time"

	"go.trai.ch/cirun/internal/core/ports"
)

var _ ports.Renderer = Fanout(nil)

// Fanout forwards every event to each renderer in order.
type Fanout []ports.Renderer

// Start starts the renderers. The first failure stops the ones already started.
func (f Fanout) Start(ctx context.Context) error {
	for i, r := range f {
		if err := r.Start(ctx); err != nil {
			_ = f[:i].Stop()
			return err
		}
	}
	return nil
}

// Stop stops every renderer and joins their errors.
func (f Fanout) Stop() error {
	var errs []error
	for _, r := range f {
		errs = append(errs, r.Stop())
	}
	return errors.Join(errs...)
}

// OnPlanEmit implements ports.Renderer.
func (f Fanout) OnPlanEmit(steps []string) {
	for _, r := range f {
		r.OnPlanEmit(steps)
	}
}

// OnStepStart implements ports.Renderer.
func (f Fanout) OnStepStart(spanID, name string, parallel bool, startTime time.Time) {
	for _, r := range f {
		r.OnStepStart(spanID, name, parallel, startTime)
	}
}

// OnStepLog implements ports.Renderer.
func (f Fanout) OnStepLog(spanID string, data []byte) {
	for _, r := range f {
		r.OnStepLog(spanID, data)
	}
}

// OnStepComplete implements ports.Renderer.
func (f Fanout) OnStepComplete(spanID string, endTime time.Time, err error) {
	for _, r := range f {
		r.OnStepComplete(spanID, endTime, err)
	}
}
