package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sculpt/internal/adapters/config"
	"go.trai.ch/sculpt/internal/adapters/logger"
	"go.trai.ch/sculpt/internal/core/ports"
)

// NodeID is the unique identifier for the command resolver Graft node.
const NodeID graft.ID = "adapter.shell.resolver"

func init() {
	graft.Register(graft.Node[*CommandResolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*CommandResolver, error) {
			settings, err := graft.Dep[*config.Settings](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewCommandResolver(settings.Resolver.Command, log), nil
		},
	})
}
