// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/sculpt/internal/adapters/cache"
	_ "go.trai.ch/sculpt/internal/adapters/config"
	_ "go.trai.ch/sculpt/internal/adapters/fs"
	_ "go.trai.ch/sculpt/internal/adapters/logger"
	_ "go.trai.ch/sculpt/internal/adapters/manifest"
	_ "go.trai.ch/sculpt/internal/adapters/metrics"
	_ "go.trai.ch/sculpt/internal/adapters/shell"
	_ "go.trai.ch/sculpt/internal/adapters/telemetry/progrock"
	_ "go.trai.ch/sculpt/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/sculpt/internal/app"
	_ "go.trai.ch/sculpt/internal/engine/orchestrator"
)
