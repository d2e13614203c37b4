package actions

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cirun/internal/core/ports"
)

// NodeID is the unique identifier for the workflow runtime Graft node.
const NodeID graft.ID = "adapter.actions"

func init() {
	graft.Register(graft.Node[ports.Workflow]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Workflow, error) {
			return New(), nil
		},
	})
}
