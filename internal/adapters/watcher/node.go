package watcher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sculpt/internal/adapters/config"
	"go.trai.ch/sculpt/internal/adapters/logger"
	"go.trai.ch/sculpt/internal/core/ports"
)

// NodeID is the unique identifier for the file watcher Graft node.
const NodeID graft.ID = "adapter.watcher"

func init() {
	graft.Register(graft.Node[ports.Watcher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.Watcher, error) {
			settings, err := graft.Dep[*config.Settings](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewWatcher(log, settings.Watch.Ignore, settings.CacheDir), nil
		},
	})
}
