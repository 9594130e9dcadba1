// Package app implements the application layer for sculpt.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"go.trai.ch/sculpt/internal/core/domain"
	"go.trai.ch/sculpt/internal/core/ports"
	"go.trai.ch/sculpt/internal/engine/orchestrator"
	"go.trai.ch/zerr"
)

// Options configures an App.
type Options struct {
	Root        string
	SnapshotKey string
	// Watch holds the defaults used when WatchOptions leaves a field empty.
	Watch WatchOptions
}

// App represents the main application logic.
type App struct {
	opts           Options
	engine         *orchestrator.Orchestrator
	watcher        ports.Watcher
	store          ports.CacheStore
	logger         ports.Logger
	metricsHandler http.Handler
	out            io.Writer
}

// New creates a new App instance.
func New(
	opts Options,
	engine *orchestrator.Orchestrator,
	watcher ports.Watcher,
	store ports.CacheStore,
	log ports.Logger,
	metricsHandler http.Handler,
) *App {
	return &App{
		opts:           opts,
		engine:         engine,
		watcher:        watcher,
		store:          store,
		logger:         log,
		metricsHandler: metricsHandler,
		out:            os.Stdout,
	}
}

// WithOutput redirects reports to w.
// This is primarily used for testing.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	// Strict turns workspace failures into an error.
	Strict bool
	// NoAffected skips computing the workspaces affected by the dirty set.
	NoAffected bool
}

// Run executes one invalidation pass and reports its outcome.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	outcome, err := a.engine.RunPass(ctx)
	if err != nil {
		return zerr.Wrap(err, "invalidation pass failed")
	}

	var affected []string
	if !opts.NoAffected && len(outcome.Dirty) > 0 {
		affected, err = a.engine.Project().Graph().Affected(outcome.Dirty)
		if err != nil {
			return zerr.Wrap(err, "failed to compute affected workspaces")
		}
	}

	newReporter(a.out).pass(outcome, affected)

	if opts.Strict && outcome.HasFailures() {
		err := zerr.Wrap(domain.ErrPassFailed, "workspaces could not be invalidated")
		return zerr.With(err, "failed", strings.Join(outcome.Failed(), ","))
	}
	return nil
}

// AffectedOptions configuration for the Affected method.
type AffectedOptions struct {
	// Unordered skips the topological ordering, which also tolerates cycles.
	Unordered bool
}

// Affected prints the workspaces affected by a change to names, dependencies first.
// Without names an invalidation pass runs and its dirty workspaces are used.
func (a *App) Affected(ctx context.Context, names []string, opts AffectedOptions) error {
	project, err := a.engine.Open(ctx)
	if err != nil {
		return zerr.Wrap(err, "failed to open project")
	}

	if len(names) == 0 {
		outcome, err := a.engine.RunPass(ctx)
		if err != nil {
			return zerr.Wrap(err, "invalidation pass failed")
		}
		for _, failure := range outcome.Failures {
			a.logger.Warn(fmt.Sprintf("workspace %s: %v", failure.Workspace, failure.Err))
		}
		project = a.engine.Project()
		names = outcome.Dirty
	}

	for _, name := range names {
		if _, ok := project.Workspace(name); !ok {
			return zerr.With(zerr.Wrap(domain.ErrWorkspaceNotFound, "unknown workspace"), "workspace", name)
		}
	}

	graph := project.Graph()
	var affected []string
	if opts.Unordered {
		affected = graph.AffectedSet(names)
	} else {
		affected, err = graph.Affected(names)
		if err != nil {
			return zerr.Wrap(err, "failed to order affected workspaces")
		}
	}

	newReporter(a.out).list(affected)
	return nil
}

// Validate checks the dependency graph for cycles and unsatisfied version ranges.
func (a *App) Validate(ctx context.Context) error {
	project, err := a.engine.Open(ctx)
	if err != nil {
		return zerr.Wrap(err, "failed to open project")
	}

	if err := project.Graph().Validate(); err != nil {
		return zerr.Wrap(err, "dependency graph is invalid")
	}

	newReporter(a.out).valid(len(project.Workspaces))
	return nil
}

// Order prints every workspace with its dependencies first.
func (a *App) Order(ctx context.Context) error {
	project, err := a.engine.Open(ctx)
	if err != nil {
		return zerr.Wrap(err, "failed to open project")
	}

	graph := project.Graph()
	order, err := graph.TopologicalOrder(graph.Names())
	if err != nil {
		return zerr.Wrap(err, "failed to order workspaces")
	}

	newReporter(a.out).list(order)
	return nil
}

// Clean removes the persisted project snapshot.
func (a *App) Clean(_ context.Context) error {
	a.logger.Info("removing project snapshot...")
	if err := a.store.Delete(a.opts.SnapshotKey); err != nil {
		return zerr.Wrap(err, "failed to remove project snapshot")
	}
	a.logger.Info("removed project snapshot")
	return nil
}
