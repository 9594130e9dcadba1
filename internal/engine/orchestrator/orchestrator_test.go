package orchestrator_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sculpt/internal/adapters/cache"
	"go.trai.ch/sculpt/internal/adapters/fs"
	"go.trai.ch/sculpt/internal/adapters/manifest"
	"go.trai.ch/sculpt/internal/adapters/metrics"
	"go.trai.ch/sculpt/internal/adapters/telemetry/progrock"
	"go.trai.ch/sculpt/internal/core/domain"
	"go.trai.ch/sculpt/internal/core/ports"
	"go.trai.ch/sculpt/internal/core/ports/mocks"
	"go.trai.ch/sculpt/internal/engine/orchestrator"
	"go.uber.org/mock/gomock"
)

const snapshotKey = "project.json"

// stubResolver answers every request on its own goroutine from a fixed table.
type stubResolver struct {
	mu     sync.Mutex
	inputs map[string][]string
	errs   map[string]error
	silent map[string]bool
	calls  map[string]int
}

func newStubResolver() *stubResolver {
	return &stubResolver{
		inputs: map[string][]string{},
		errs:   map[string]error{},
		silent: map[string]bool{},
		calls:  map[string]int{},
	}
}

func (r *stubResolver) set(workspace string, inputs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inputs[workspace] = inputs
	delete(r.errs, workspace)
}

func (r *stubResolver) fail(workspace string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs[workspace] = err
}

func (r *stubResolver) RequestResolvedInputs(
	_ context.Context,
	req ports.ResolutionRequest,
	completer ports.ResolutionCompleter,
) {
	r.mu.Lock()
	r.calls[req.Workspace]++
	inputs := append([]string{}, r.inputs[req.Workspace]...)
	err := r.errs[req.Workspace]
	silent := r.silent[req.Workspace]
	r.mu.Unlock()

	if silent {
		return
	}
	go func() {
		if err != nil {
			completer.FailResolution(req.TaskID, err)
			return
		}
		payload, _ := json.Marshal(inputs)
		completer.CompleteResolution(req.TaskID, string(payload))
	}()
}

type fixture struct {
	root     string
	store    *cache.Store
	resolver *stubResolver
	metrics  *metrics.Metrics
	logger   *mocks.MockLogger
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// touch rewrites path and moves its mtime forward so the change is visible
// regardless of the file system timestamp granularity.
func touch(t *testing.T, path, content string, offset time.Duration) {
	t.Helper()
	writeFile(t, path, content)
	stamp := time.Now().Add(offset)
	require.NoError(t, os.Chtimes(path, stamp, stamp))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "package.json"), `{"name": "root", "workspaces": ["packages/*"]}`)
	writeFile(t, filepath.Join(root, "packages/a/package.json"), `{"name": "pkg-a", "version": "1.2.0"}`)
	writeFile(t, filepath.Join(root, "packages/a/index.ts"), `export const a = 1`)
	writeFile(t, filepath.Join(root, "packages/b/package.json"),
		`{"name": "pkg-b", "version": "1.0.0", "dependencies": {"pkg-a": "^1.0.0"}}`)
	writeFile(t, filepath.Join(root, "packages/b/index.ts"), `export const b = 1`)

	resolver := newStubResolver()
	resolver.set("pkg-a", "index.ts")
	resolver.set("pkg-b", "index.ts")

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	return &fixture{
		root:     root,
		store:    cache.NewStore(filepath.Join(root, ".cache")),
		resolver: resolver,
		metrics:  metrics.New(),
		logger:   log,
	}
}

func (f *fixture) orchestrator(store ports.CacheStore) *orchestrator.Orchestrator {
	if store == nil {
		store = f.store
	}
	return orchestrator.New(orchestrator.Options{
		Root:              f.root,
		SnapshotKey:       snapshotKey,
		ResolutionTimeout: 5 * time.Second,
		Concurrency:       2,
	}, manifest.New(), f.resolver, fs.NewFingerprinter(), store, f.logger, progrock.New(), f.metrics)
}

func TestRunPass_FirstPassMarksEveryWorkspaceDirty(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(nil)

	outcome, err := o.RunPass(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"pkg-a", "pkg-b"}, outcome.Dirty)
	assert.Empty(t, outcome.Failures)
	assert.Empty(t, outcome.Removed)
	assert.Equal(t, 2, outcome.Workspaces)

	project := o.Project()
	require.NotNil(t, project)
	a, ok := project.Workspace("pkg-a")
	require.True(t, ok)
	assert.Contains(t, a.Files, filepath.Join(f.root, "packages/a/package.json"))
	assert.Contains(t, a.Files, filepath.Join(f.root, "packages/a/index.ts"))

	assert.True(t, f.store.Has(snapshotKey), "the pass persists the project snapshot")
	content, err := f.store.Read(snapshotKey)
	require.NoError(t, err)
	decoded, err := domain.DecodeProject(content)
	require.NoError(t, err)
	assert.Equal(t, project, decoded)

	assert.InDelta(t, 2, testutil.ToFloat64(f.metrics.DirtyTotal), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.PassesTotal.WithLabelValues(orchestrator.StatusOK)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(f.metrics.WorkspacesTotal), 0)
}

func TestRunPass_Idempotent(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(nil)

	_, err := o.RunPass(context.Background())
	require.NoError(t, err)
	first := o.Project()

	outcome, err := o.RunPass(context.Background())
	require.NoError(t, err)

	assert.Empty(t, outcome.Dirty)
	assert.Empty(t, outcome.Added)
	assert.Equal(t, first.Workspaces, o.Project().Workspaces)
}

func TestRunPass_ContentChangeDirtiesOnlyOwner(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(nil)

	_, err := o.RunPass(context.Background())
	require.NoError(t, err)

	touch(t, filepath.Join(f.root, "packages/b/index.ts"), `export const b = 2`, time.Hour)

	outcome, err := o.RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg-b"}, outcome.Dirty)

	affected, err := o.Project().Graph().Affected(outcome.Dirty)
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg-b"}, affected)
}

func TestRunPass_DependencyChangePropagates(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(nil)

	_, err := o.RunPass(context.Background())
	require.NoError(t, err)

	touch(t, filepath.Join(f.root, "packages/a/index.ts"), `export const a = 2`, time.Hour)

	outcome, err := o.RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg-a"}, outcome.Dirty)

	affected, err := o.Project().Graph().Affected(outcome.Dirty)
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg-a", "pkg-b"}, affected)
}

func TestRunPass_DroppedInputDirtiesWorkspace(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(nil)

	_, err := o.RunPass(context.Background())
	require.NoError(t, err)

	f.resolver.set("pkg-a")
	outcome, err := o.RunPass(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"pkg-a"}, outcome.Dirty)
	a, _ := o.Project().Workspace("pkg-a")
	assert.NotContains(t, a.Files, filepath.Join(f.root, "packages/a/index.ts"))
}

func TestRunPass_ResolverFailureIsPartial(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(nil)

	_, err := o.RunPass(context.Background())
	require.NoError(t, err)
	before, _ := o.Project().Workspace("pkg-a")

	f.resolver.fail("pkg-a", errors.New("tsc exited with status 2"))
	touch(t, filepath.Join(f.root, "packages/b/index.ts"), `export const b = 3`, time.Hour)

	outcome, err := o.RunPass(context.Background())
	require.NoError(t, err)

	require.Len(t, outcome.Failures, 1)
	assert.Equal(t, "pkg-a", outcome.Failures[0].Workspace)
	assert.ErrorIs(t, outcome.Failures[0].Err, domain.ErrResolverFailed)
	assert.Equal(t, []string{"pkg-b"}, outcome.Dirty)

	after, ok := o.Project().Workspace("pkg-a")
	require.True(t, ok, "a failed workspace stays in the project")
	assert.Equal(t, before.Files, after.Files, "a failed workspace keeps its prior fingerprints")

	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.PassesTotal.WithLabelValues(orchestrator.StatusPartial)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.FailuresTotal), 0)
}

func TestRunPass_MalformedWorkspaceManifestIsIsolated(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(nil)

	_, err := o.RunPass(context.Background())
	require.NoError(t, err)
	before, _ := o.Project().Workspace("pkg-b")

	touch(t, filepath.Join(f.root, "packages/b/package.json"), `{"name": "pkg-b", `, time.Hour)
	touch(t, filepath.Join(f.root, "packages/a/index.ts"), `export const a = 2`, time.Hour)

	outcome, err := o.RunPass(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"pkg-a"}, outcome.Dirty)
	assert.Empty(t, outcome.Removed)
	require.Len(t, outcome.Failures, 1)
	assert.Equal(t, "pkg-b", outcome.Failures[0].Workspace)
	assert.ErrorIs(t, outcome.Failures[0].Err, domain.ErrManifestInvalid)

	after, ok := o.Project().Workspace("pkg-b")
	require.True(t, ok, "a workspace with a broken manifest stays in the project")
	assert.Equal(t, before, after)

	content, err := f.store.Read(snapshotKey)
	require.NoError(t, err)
	decoded, err := domain.DecodeProject(content)
	require.NoError(t, err)
	assert.Equal(t, o.Project(), decoded, "the pass persists the other workspaces")

	writeFile(t, filepath.Join(f.root, "packages/c/package.json"), `{"version": "1.0.0"}`)
	outcome, err = o.RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"packages/c", "pkg-b"}, outcome.Failed(), "an unknown workspace is named by its directory")
	_, ok = o.Project().Workspace("packages/c")
	assert.False(t, ok)
}

func TestRunPass_MissingInputIsWorkspaceFailure(t *testing.T) {
	f := newFixture(t)
	f.resolver.set("pkg-b", "missing.ts")
	o := f.orchestrator(nil)

	outcome, err := o.RunPass(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"pkg-b"}, outcome.Failed())
	assert.ErrorIs(t, outcome.Failures[0].Err, domain.ErrFileIO)
	assert.Equal(t, []string{"pkg-a"}, outcome.Dirty)
}

func TestRunPass_ResolutionTimeout(t *testing.T) {
	f := newFixture(t)
	f.resolver.silent["pkg-a"] = true
	o := orchestrator.New(orchestrator.Options{
		Root:              f.root,
		SnapshotKey:       snapshotKey,
		ResolutionTimeout: 20 * time.Millisecond,
	}, manifest.New(), f.resolver, fs.NewFingerprinter(), f.store, f.logger, progrock.New(), f.metrics)

	outcome, err := o.RunPass(context.Background())
	require.NoError(t, err)

	require.Equal(t, []string{"pkg-a"}, outcome.Failed())
	assert.ErrorIs(t, outcome.Failures[0].Err, domain.ErrResolutionTimeout)
	assert.InDelta(t, 0, testutil.ToFloat64(f.metrics.PendingResolutions), 0)
}

func TestRunPass_RemovedWorkspace(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(nil)

	_, err := o.RunPass(context.Background())
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(filepath.Join(f.root, "packages/b")))

	outcome, err := o.RunPass(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"pkg-b"}, outcome.Removed)
	assert.Equal(t, 1, outcome.Workspaces)
	_, ok := o.Project().Workspace("pkg-b")
	assert.False(t, ok)
}

func TestRunPass_AddedWorkspace(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(nil)

	_, err := o.RunPass(context.Background())
	require.NoError(t, err)

	writeFile(t, filepath.Join(f.root, "packages/c/package.json"), `{"name": "pkg-c"}`)
	outcome, err := o.RunPass(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"pkg-c"}, outcome.Added)
	assert.Equal(t, []string{"pkg-c"}, outcome.Dirty)
	c, ok := o.Project().Workspace("pkg-c")
	require.True(t, ok)
	assert.Equal(t, domain.DefaultVersion, c.Metadata.Version)
}

func TestRunPass_DuplicateWorkspaceName(t *testing.T) {
	f := newFixture(t)
	writeFile(t, filepath.Join(f.root, "packages/c/package.json"), `{"name": "pkg-a"}`)
	o := f.orchestrator(nil)

	_, err := o.RunPass(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicateWorkspaceName)
	assert.False(t, f.store.Has(snapshotKey))
}

func TestRunPass_MissingRootManifest(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Remove(filepath.Join(f.root, "package.json")))
	o := f.orchestrator(nil)

	_, err := o.RunPass(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProjectRoot)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.PassesTotal.WithLabelValues(orchestrator.StatusFailed)), 0)
}

func TestRunPass_CacheWriteFailureKeepsProject(t *testing.T) {
	f := newFixture(t)

	ctrl := gomock.NewController(t)
	store := mocks.NewMockCacheStore(ctrl)
	store.EXPECT().Has(snapshotKey).Return(false).AnyTimes()
	store.EXPECT().Write(snapshotKey, gomock.Any()).Return(errors.New("disk full"))

	o := f.orchestrator(store)

	_, err := o.RunPass(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCacheIO)

	a, ok := o.Project().Workspace("pkg-a")
	require.True(t, ok)
	assert.Empty(t, a.Files, "an unpersisted pass is not swapped in")
}

func TestOpen_RestoresSnapshot(t *testing.T) {
	f := newFixture(t)

	_, err := f.orchestrator(nil).RunPass(context.Background())
	require.NoError(t, err)

	restored := f.orchestrator(nil)
	project, err := restored.Open(context.Background())
	require.NoError(t, err)
	a, ok := project.Workspace("pkg-a")
	require.True(t, ok)
	assert.Len(t, a.Files, 2)

	outcome, err := restored.RunPass(context.Background())
	require.NoError(t, err)
	assert.Empty(t, outcome.Dirty, "a restored project carries its fingerprints")
}

func TestOpen_IgnoresUnusableSnapshot(t *testing.T) {
	tests := []struct {
		name     string
		snapshot string
	}{
		{name: "corrupt", snapshot: "{not json"},
		{name: "version", snapshot: `{"version": 99, "root": "/repo"}`},
		{name: "foreign root", snapshot: `{"version": 1, "root": "/elsewhere", "workspaces": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			require.NoError(t, f.store.Write(snapshotKey, tt.snapshot))

			project, err := f.orchestrator(nil).Open(context.Background())
			require.NoError(t, err)
			assert.Equal(t, f.root, project.Root)
			assert.Equal(t, []string{"pkg-a", "pkg-b"}, project.Names())
		})
	}
}

func TestTrigger(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(nil)

	results := o.Trigger(context.Background())
	res, ok := <-results
	require.True(t, ok)
	require.NoError(t, res.Err)
	assert.Equal(t, []string{"pkg-a", "pkg-b"}, res.Outcome.Dirty)

	_, ok = <-results
	assert.False(t, ok, "the channel is closed after the result")
}

func TestRunPass_Cancelled(t *testing.T) {
	f := newFixture(t)
	f.resolver.silent["pkg-a"] = true
	o := f.orchestrator(nil)

	_, err := o.Open(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err = o.RunPass(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPassFailed)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, f.store.Has(snapshotKey))
}

func TestCompleteResolution_StaleTaskIgnored(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(nil)

	assert.False(t, o.CompleteResolution("pkg-a:resolve_inputs:stale", `["index.ts"]`))
	assert.False(t, o.FailResolution("pkg-a:resolve_inputs:stale", errors.New("late")))
}

func TestRunPass_LateCompletionIsIgnored(t *testing.T) {
	f := newFixture(t)

	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockInputResolver(ctrl)

	var (
		mu    sync.Mutex
		stale []string
	)
	resolver.EXPECT().RequestResolvedInputs(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req ports.ResolutionRequest, c ports.ResolutionCompleter) {
			mu.Lock()
			stale = append(stale, req.TaskID)
			mu.Unlock()
			go c.CompleteResolution(req.TaskID, `["index.ts"]`)
		}).Times(2)

	o := orchestrator.New(orchestrator.Options{Root: f.root, SnapshotKey: snapshotKey},
		manifest.New(), resolver, fs.NewFingerprinter(), f.store, f.logger, progrock.New(), f.metrics)

	_, err := o.RunPass(context.Background())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	for _, id := range stale {
		assert.False(t, o.CompleteResolution(id, `[]`), "completed task %s must not be accepted twice", id)
	}
}
