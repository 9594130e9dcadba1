package manifest

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sculpt/internal/core/ports"
)

// NodeID is the unique identifier for the workspace discoverer Graft node.
const NodeID graft.ID = "adapter.manifest"

func init() {
	graft.Register(graft.Node[ports.WorkspaceDiscoverer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.WorkspaceDiscoverer, error) {
			return New(), nil
		},
	})
}
