package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sculpt/internal/adapters/config"
	"go.trai.ch/sculpt/internal/adapters/logger"
	"go.trai.ch/sculpt/internal/core/ports"
)

const (
	// WalkerNodeID is the unique identifier for the walker Graft node.
	WalkerNodeID graft.ID = "adapter.fs.walker"
	// FingerprinterNodeID is the unique identifier for the fingerprinter Graft node.
	FingerprinterNodeID graft.ID = "adapter.fs.fingerprinter"
	// GlobResolverNodeID is the unique identifier for the glob resolver Graft node.
	GlobResolverNodeID graft.ID = "adapter.fs.glob_resolver"
)

func init() {
	graft.Register(graft.Node[*Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (*Walker, error) {
			settings, err := graft.Dep[*config.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return NewWalker(settings.CacheDir), nil
		},
	})

	graft.Register(graft.Node[ports.Fingerprinter]{
		ID:        FingerprinterNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Fingerprinter, error) {
			return NewFingerprinter(), nil
		},
	})

	graft.Register(graft.Node[*GlobResolver]{
		ID:        GlobResolverNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, WalkerNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*GlobResolver, error) {
			settings, err := graft.Dep[*config.Settings](ctx)
			if err != nil {
				return nil, err
			}
			walker, err := graft.Dep[*Walker](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewGlobResolver(GlobOptions{
				Include:  settings.Resolver.Include,
				Exclude:  settings.Resolver.Exclude,
				TSConfig: settings.Resolver.TSConfig,
			}, walker, log), nil
		},
	})
}
