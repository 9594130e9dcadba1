package orchestrator

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sculpt/internal/adapters/cache"
	"go.trai.ch/sculpt/internal/adapters/config"
	"go.trai.ch/sculpt/internal/adapters/fs"
	"go.trai.ch/sculpt/internal/adapters/logger"
	"go.trai.ch/sculpt/internal/adapters/manifest"
	"go.trai.ch/sculpt/internal/adapters/metrics"
	"go.trai.ch/sculpt/internal/adapters/shell"
	"go.trai.ch/sculpt/internal/adapters/telemetry/progrock"
	"go.trai.ch/sculpt/internal/core/ports"
)

// NodeID is the unique identifier for the orchestrator Graft node.
const NodeID graft.ID = "engine.orchestrator"

func init() {
	graft.Register(graft.Node[*Orchestrator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			manifest.NodeID,
			fs.GlobResolverNodeID,
			fs.FingerprinterNodeID,
			shell.NodeID,
			cache.NodeID,
			logger.NodeID,
			progrock.NodeID,
			metrics.PortNodeID,
		},
		Run: func(ctx context.Context) (*Orchestrator, error) {
			settings, err := graft.Dep[*config.Settings](ctx)
			if err != nil {
				return nil, err
			}
			discoverer, err := graft.Dep[ports.WorkspaceDiscoverer](ctx)
			if err != nil {
				return nil, err
			}
			globResolver, err := graft.Dep[*fs.GlobResolver](ctx)
			if err != nil {
				return nil, err
			}
			commandResolver, err := graft.Dep[*shell.CommandResolver](ctx)
			if err != nil {
				return nil, err
			}
			probe, err := graft.Dep[ports.Fingerprinter](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.CacheStore](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}
			m, err := graft.Dep[ports.Metrics](ctx)
			if err != nil {
				return nil, err
			}

			var resolver ports.InputResolver = globResolver
			if len(settings.Resolver.Command) > 0 {
				resolver = commandResolver
			}

			return New(Options{
				Root:              settings.Root,
				SnapshotKey:       settings.SnapshotKey,
				ResolutionTimeout: settings.ResolutionTimeout,
				Concurrency:       settings.Concurrency,
			}, discoverer, resolver, probe, store, log, telemetry, m), nil
		},
	})
}
