package shell_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sculpt/internal/adapters/shell"
	"go.trai.ch/sculpt/internal/core/domain"
	"go.trai.ch/sculpt/internal/core/ports"
	"go.trai.ch/sculpt/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type outcome struct {
	payload string
	err     error
}

func expectOutcome(ctrl *gomock.Controller, taskID string) (*mocks.MockResolutionCompleter, <-chan outcome) {
	completer := mocks.NewMockResolutionCompleter(ctrl)
	done := make(chan outcome, 1)
	completer.EXPECT().CompleteResolution(taskID, gomock.Any()).DoAndReturn(func(_, payload string) bool {
		done <- outcome{payload: payload}
		return true
	}).MaxTimes(1)
	completer.EXPECT().FailResolution(taskID, gomock.Any()).DoAndReturn(func(_ string, err error) bool {
		done <- outcome{err: err}
		return true
	}).MaxTimes(1)
	return completer, done
}

func wait(t *testing.T, done <-chan outcome) outcome {
	t.Helper()
	select {
	case o := <-done:
		return o
	case <-time.After(10 * time.Second):
		t.Fatal("resolver did not report")
		return outcome{}
	}
}

func TestCommandResolver_Payload(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	root := t.TempDir()
	resolver := shell.NewCommandResolver([]string{"sh", "-c", `printf '["%s/index.ts"]\n' "$PWD"`}, mockLogger)
	completer, done := expectOutcome(ctrl, "pkg-a:resolve_inputs:1")

	resolver.RequestResolvedInputs(context.Background(), ports.ResolutionRequest{
		TaskID: "pkg-a:resolve_inputs:1", Workspace: "pkg-a", Root: root,
	}, completer)

	o := wait(t, done)
	require.NoError(t, o.err)
	resolvedRoot, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Contains(t, []string{
		`["` + root + `/index.ts"]`,
		`["` + resolvedRoot + `/index.ts"]`,
	}, o.payload)
}

func TestCommandResolver_Environment(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	resolver := shell.NewCommandResolver([]string{"sh", "-c", `printf '["%s","%s"]' "$SCULPT_TASK_ID" "$SCULPT_WORKSPACE"`}, mockLogger)
	completer, done := expectOutcome(ctrl, "task-7")

	resolver.RequestResolvedInputs(context.Background(), ports.ResolutionRequest{
		TaskID: "task-7", Workspace: "pkg-b", Root: t.TempDir(),
	}, completer)

	o := wait(t, done)
	require.NoError(t, o.err)
	assert.Equal(t, `["task-7","pkg-b"]`, o.payload)
}

func TestCommandResolver_StderrIsLogged(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn("pkg-a: first").Times(1)
	mockLogger.EXPECT().Warn("pkg-a: second").Times(1)

	resolver := shell.NewCommandResolver([]string{"sh", "-c", "printf 'first\\nsec' >&2; printf 'ond' >&2; echo '[]'"}, mockLogger)
	completer, done := expectOutcome(ctrl, "t")

	resolver.RequestResolvedInputs(context.Background(), ports.ResolutionRequest{TaskID: "t", Workspace: "pkg-a", Root: t.TempDir()}, completer)

	o := wait(t, done)
	require.NoError(t, o.err)
	assert.Equal(t, "[]", o.payload)
}

func TestCommandResolver_StderrGoesToVertex(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()

	var stderr bytes.Buffer
	mockVertex := mocks.NewMockVertex(ctrl)
	mockVertex.EXPECT().Stderr().Return(&stderr).AnyTimes()

	resolver := shell.NewCommandResolver([]string{"sh", "-c", "echo warming up >&2; echo '[]'"}, mockLogger)
	completer, done := expectOutcome(ctrl, "t")

	ctx := ports.ContextWithVertex(context.Background(), mockVertex)
	resolver.RequestResolvedInputs(ctx, ports.ResolutionRequest{TaskID: "t", Workspace: "pkg-a", Root: t.TempDir()}, completer)

	o := wait(t, done)
	require.NoError(t, o.err)
	assert.Contains(t, stderr.String(), "warming up")
}

func TestCommandResolver_CommandFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	resolver := shell.NewCommandResolver([]string{"sh", "-c", "exit 3"}, mockLogger)
	completer, done := expectOutcome(ctrl, "t")

	resolver.RequestResolvedInputs(context.Background(), ports.ResolutionRequest{TaskID: "t", Workspace: "pkg-a", Root: t.TempDir()}, completer)

	o := wait(t, done)
	require.Error(t, o.err)
	assert.ErrorIs(t, o.err, domain.ErrResolverFailed)

	zErr, ok := o.err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", o.err)
	assert.Equal(t, 3, zErr.Metadata()["exit_code"])
	assert.Equal(t, "pkg-a", zErr.Metadata()["workspace"])
}

func TestCommandResolver_InvalidCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	resolver := shell.NewCommandResolver([]string{"non-existent-command-xyz"}, mockLogger)
	completer, done := expectOutcome(ctrl, "t")

	resolver.RequestResolvedInputs(context.Background(), ports.ResolutionRequest{TaskID: "t", Workspace: "pkg-a", Root: t.TempDir()}, completer)

	o := wait(t, done)
	assert.ErrorIs(t, o.err, domain.ErrResolverFailed)
}

func TestCommandResolver_EmptyCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	resolver := shell.NewCommandResolver(nil, mockLogger)
	completer, done := expectOutcome(ctrl, "t")

	resolver.RequestResolvedInputs(context.Background(), ports.ResolutionRequest{TaskID: "t", Workspace: "pkg-a", Root: t.TempDir()}, completer)

	o := wait(t, done)
	assert.ErrorIs(t, o.err, domain.ErrResolverFailed)
}
