package cache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sculpt/internal/adapters/config"
	"go.trai.ch/sculpt/internal/core/ports"
)

// NodeID is the unique identifier for the cache store Graft node.
const NodeID graft.ID = "adapter.cache_store"

func init() {
	graft.Register(graft.Node[ports.CacheStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.CacheStore, error) {
			settings, err := graft.Dep[*config.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(settings.CacheDir), nil
		},
	})
}
