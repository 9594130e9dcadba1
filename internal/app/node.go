package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sculpt/internal/adapters/cache"              //nolint:depguard // Wired in app layer
	"go.trai.ch/sculpt/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/sculpt/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/sculpt/internal/adapters/metrics"            //nolint:depguard // Wired in app layer
	"go.trai.ch/sculpt/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/sculpt/internal/adapters/watcher"            //nolint:depguard // Wired in app layer
	"go.trai.ch/sculpt/internal/core/ports"
	"go.trai.ch/sculpt/internal/engine/orchestrator"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			orchestrator.NodeID,
			watcher.NodeID,
			cache.NodeID,
			logger.NodeID,
			metrics.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	settings, err := graft.Dep[*config.Settings](ctx)
	if err != nil {
		return nil, err
	}

	engine, err := graft.Dep[*orchestrator.Orchestrator](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
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

	m, err := graft.Dep[*metrics.Metrics](ctx)
	if err != nil {
		return nil, err
	}

	return New(Options{
		Root:        settings.Root,
		SnapshotKey: settings.SnapshotKey,
		Watch: WatchOptions{
			Debounce:    settings.Watch.Debounce,
			MetricsAddr: settings.Watch.MetricsAddr,
		},
	}, engine, w, store, log, m.Handler()), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
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

	return &Components{
		App:       app,
		Logger:    log,
		Telemetry: telemetry,
	}, nil
}
