// Package orchestrator runs invalidation passes over the workspaces of a project.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.trai.ch/sculpt/internal/core/domain"
	"go.trai.ch/sculpt/internal/core/ports"
	"go.trai.ch/sculpt/internal/engine/resolution"
	"go.trai.ch/zerr"
)

// Pass statuses reported to metrics.
const (
	StatusOK      = "ok"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

var _ ports.ResolutionCompleter = (*Orchestrator)(nil)

// Options configures an Orchestrator.
type Options struct {
	// Root is the absolute project root containing the root manifest.
	Root string
	// SnapshotKey is the cache key of the project snapshot.
	SnapshotKey string
	// ResolutionTimeout bounds the wait for one workspace's inputs. Zero waits forever.
	ResolutionTimeout time.Duration
	// Concurrency limits parallel fingerprinting within one workspace.
	Concurrency int
}

// Result is delivered once per triggered pass.
type Result struct {
	Outcome *domain.PassOutcome
	Err     error
}

// Orchestrator owns the current project snapshot and the resolution registry.
// Passes are serialized; readers may call Project at any time.
type Orchestrator struct {
	opts       Options
	discoverer ports.WorkspaceDiscoverer
	resolver   ports.InputResolver
	probe      ports.Fingerprinter
	store      ports.CacheStore
	logger     ports.Logger
	telemetry  ports.Telemetry
	metrics    ports.Metrics
	registry   *resolution.Registry

	passMu sync.Mutex
	passes atomic.Uint64

	mu      sync.RWMutex
	project *domain.Project
}

// New creates a new Orchestrator.
func New(
	opts Options,
	discoverer ports.WorkspaceDiscoverer,
	resolver ports.InputResolver,
	probe ports.Fingerprinter,
	store ports.CacheStore,
	logger ports.Logger,
	telemetry ports.Telemetry,
	metrics ports.Metrics,
) *Orchestrator {
	return &Orchestrator{
		opts:       opts,
		discoverer: discoverer,
		resolver:   resolver,
		probe:      probe,
		store:      store,
		logger:     logger,
		telemetry:  telemetry,
		metrics:    metrics,
		registry:   resolution.NewRegistry(),
	}
}

// Project returns the current project snapshot, or nil before Open.
func (o *Orchestrator) Project() *domain.Project {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.project
}

// CompleteResolution delivers a resolver payload. Unknown or stale ids are ignored.
func (o *Orchestrator) CompleteResolution(taskID, payload string) bool {
	return o.registry.Complete(taskID, payload)
}

// FailResolution reports a resolver failure. Unknown or stale ids are ignored.
func (o *Orchestrator) FailResolution(taskID string, err error) bool {
	return o.registry.Fail(taskID, err)
}

// Trigger runs one pass on its own goroutine and returns immediately.
// The returned channel delivers exactly one Result and is then closed.
func (o *Orchestrator) Trigger(ctx context.Context) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		outcome, err := o.RunPass(ctx)
		ch <- Result{Outcome: outcome, Err: err}
	}()
	return ch
}

// RunPass re-enumerates the workspaces, resolves and fingerprints their inputs, swaps in
// the new project snapshot and persists it. Per-workspace failures are reported in the
// outcome; project root and cache failures abort the pass.
func (o *Orchestrator) RunPass(ctx context.Context) (*domain.PassOutcome, error) {
	o.passMu.Lock()
	defer o.passMu.Unlock()

	n := o.passes.Add(1)
	start := time.Now()

	ctx, vertex := o.telemetry.Record(ctx, fmt.Sprintf("pass %d", n))
	outcome, err := o.runPass(ctx, n)
	vertex.Complete(err)

	duration := time.Since(start)
	o.metrics.SetPendingResolutions(o.registry.Pending())
	if err != nil {
		o.metrics.ObservePass(StatusFailed, duration)
		return nil, zerr.With(err, "pass", n)
	}

	outcome.Duration = duration
	status := StatusOK
	if outcome.HasFailures() {
		status = StatusPartial
	}
	o.metrics.ObservePass(status, duration)
	o.metrics.AddDirty(len(outcome.Dirty))
	o.metrics.AddWorkspaceFailures(len(outcome.Failures))
	o.metrics.SetWorkspaces(outcome.Workspaces)

	o.logger.Debug(fmt.Sprintf("pass %d finished in %s: %d dirty, %d failed", n, duration, len(outcome.Dirty), len(outcome.Failures)))
	return outcome, nil
}

// workspaceResult is the outcome of one workspace within a pass.
type workspaceResult struct {
	workspace    domain.Workspace
	invalidation domain.Invalidation
	err          error
}

func (o *Orchestrator) runPass(ctx context.Context, n uint64) (*domain.PassOutcome, error) {
	current, err := o.Open(ctx)
	if err != nil {
		return nil, err
	}

	meta, found, err := o.enumerate()
	if err != nil {
		return nil, err
	}

	results := make([]workspaceResult, len(found.Workspaces))
	var wg sync.WaitGroup
	for i, ws := range found.Workspaces {
		if prior, ok := current.Workspace(ws.Name); ok {
			ws.Files = prior.Files
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = o.invalidateWorkspace(ctx, n, ws)
		}()
	}
	o.metrics.SetPendingResolutions(o.registry.Pending())
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, zerr.Wrap(fmt.Errorf("%w: %w", domain.ErrPassFailed, err), "pass cancelled")
	}

	outcome := &domain.PassOutcome{}
	next := make(map[string]domain.Workspace, len(results))
	rehashed, reused := 0, 0
	for _, res := range results {
		ws := res.workspace
		if res.err != nil {
			outcome.Failures = append(outcome.Failures, domain.WorkspaceFailure{Workspace: ws.Name, Err: res.err})
			next[ws.Name] = ws
			continue
		}

		inv := res.invalidation
		rehashed += inv.Rehashed
		reused += inv.Reused
		ws.Files = inv.Files
		next[ws.Name] = ws
		if inv.Dirty || len(inv.Dropped) > 0 {
			outcome.Dirty = append(outcome.Dirty, ws.Name)
		}
	}
	o.metrics.AddFiles(rehashed, reused)
	outcome.Failures = append(outcome.Failures, o.isolateManifests(current, found.Failures, next)...)

	for name := range next {
		if _, ok := current.Workspace(name); !ok {
			outcome.Added = append(outcome.Added, name)
		}
	}
	for _, name := range current.Names() {
		if _, ok := next[name]; !ok {
			outcome.Removed = append(outcome.Removed, name)
		}
	}
	slices.Sort(outcome.Dirty)
	slices.Sort(outcome.Added)
	slices.SortFunc(outcome.Failures, func(a, b domain.WorkspaceFailure) int {
		return strings.Compare(a.Workspace, b.Workspace)
	})
	outcome.Workspaces = len(next)

	updated := current.WithWorkspaces(meta, next)
	if err := o.persist(updated); err != nil {
		return nil, err
	}

	o.mu.Lock()
	o.project = updated
	o.mu.Unlock()

	return outcome, nil
}

// enumerate reloads the root manifest and discovers the current workspace set.
func (o *Orchestrator) enumerate() (domain.PackageMetadata, domain.Discovery, error) {
	manifest := filepath.Join(o.opts.Root, domain.ManifestFileName)
	meta, err := o.discoverer.LoadManifest(manifest)
	if err != nil {
		err = zerr.Wrap(fmt.Errorf("%w: %w", domain.ErrProjectRoot, err), "failed to read root manifest")
		return domain.PackageMetadata{}, domain.Discovery{}, zerr.With(err, "path", manifest)
	}

	found, err := o.discoverer.Discover(o.opts.Root, meta.WorkspaceGlobs)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateWorkspaceName) {
			return domain.PackageMetadata{}, domain.Discovery{}, err
		}
		err = zerr.Wrap(fmt.Errorf("%w: %w", domain.ErrProjectRoot, err), "failed to discover workspaces")
		return domain.PackageMetadata{}, domain.Discovery{}, zerr.With(err, "root", o.opts.Root)
	}
	return meta, found, nil
}

// isolateManifests turns workspace manifests that failed to load into workspace failures.
// A workspace known from current keeps its prior state in next under its prior name;
// an unknown one is reported by its directory relative to the project root.
func (o *Orchestrator) isolateManifests(
	current *domain.Project,
	failures []domain.ManifestFailure,
	next map[string]domain.Workspace,
) []domain.WorkspaceFailure {
	isolated := make([]domain.WorkspaceFailure, 0, len(failures))
	for _, f := range failures {
		name := filepath.Dir(f.Path)
		if rel, err := filepath.Rel(o.opts.Root, name); err == nil {
			name = filepath.ToSlash(rel)
		}
		for _, prior := range current.WorkspaceList() {
			if prior.ManifestPath() != f.Path {
				continue
			}
			if _, taken := next[prior.Name]; !taken {
				next[prior.Name] = prior
				name = prior.Name
			}
			break
		}

		o.logger.Warn(fmt.Sprintf("workspace %s: %v", name, f.Err))
		isolated = append(isolated, domain.WorkspaceFailure{
			Workspace: name,
			Err:       zerr.With(f.Err, "manifest", f.Path),
		})
	}
	return isolated
}

// invalidateWorkspace resolves the inputs of ws and fingerprints them.
// On failure the returned workspace keeps its prior files.
func (o *Orchestrator) invalidateWorkspace(ctx context.Context, n uint64, ws domain.Workspace) workspaceResult {
	ctx, vertex := o.telemetry.Record(ctx, ws.Name, ports.WithGroup(fmt.Sprintf("pass %d", n)))

	resolveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	task := o.registry.Register(ws.Name)
	o.resolver.RequestResolvedInputs(resolveCtx, ports.ResolutionRequest{
		TaskID:    task.ID,
		Workspace: ws.Name,
		Root:      ws.Root,
	}, o)

	payload, err := o.registry.Await(ctx, task, o.opts.ResolutionTimeout)
	if err != nil {
		return o.fail(vertex, ws, err)
	}

	inputs, err := resolution.DecodePayload(payload)
	if err != nil {
		return o.fail(vertex, ws, zerr.With(err, "workspace", ws.Name))
	}

	inv, err := ws.Invalidate(ctx, inputs, o.probe, o.opts.Concurrency)
	if err != nil {
		return o.fail(vertex, ws, err)
	}

	vertex.Invalidated(inv)
	if !inv.Dirty && len(inv.Dropped) == 0 {
		vertex.Cached()
	}
	vertex.Complete(nil)
	return workspaceResult{workspace: ws, invalidation: inv}
}

func (o *Orchestrator) fail(vertex ports.Vertex, ws domain.Workspace, err error) workspaceResult {
	o.logger.Warn(fmt.Sprintf("workspace %s: %v", ws.Name, err))
	vertex.Complete(err)
	return workspaceResult{workspace: ws, err: err}
}
