package metrics

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sculpt/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the metrics Graft node.
	NodeID graft.ID = "adapter.metrics"
	// PortNodeID exposes the same metrics through ports.Metrics.
	PortNodeID graft.ID = "adapter.metrics.port"
)

func init() {
	graft.Register(graft.Node[*Metrics]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Metrics, error) {
			return New(), nil
		},
	})

	graft.Register(graft.Node[ports.Metrics]{
		ID:        PortNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{NodeID},
		Run: func(ctx context.Context) (ports.Metrics, error) {
			m, err := graft.Dep[*Metrics](ctx)
			if err != nil {
				return nil, err
			}
			return m, nil
		},
	})
}
