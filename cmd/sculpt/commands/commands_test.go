package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sculpt/cmd/sculpt/commands"
	"go.trai.ch/sculpt/internal/app"
	"go.trai.ch/sculpt/internal/build"
)

type mockApp struct {
	runOpts      *app.RunOptions
	affected     []string
	affectedOpts *app.AffectedOptions
	watchOpts    *app.WatchOptions
	calls        []string
	err          error
}

func (m *mockApp) Run(_ context.Context, opts app.RunOptions) error {
	m.calls = append(m.calls, "run")
	m.runOpts = &opts
	return m.err
}

func (m *mockApp) Affected(_ context.Context, names []string, opts app.AffectedOptions) error {
	m.calls = append(m.calls, "affected")
	m.affected = names
	m.affectedOpts = &opts
	return m.err
}

func (m *mockApp) Validate(context.Context) error {
	m.calls = append(m.calls, "validate")
	return m.err
}

func (m *mockApp) Order(context.Context) error {
	m.calls = append(m.calls, "order")
	return m.err
}

func (m *mockApp) Watch(_ context.Context, opts app.WatchOptions) error {
	m.calls = append(m.calls, "watch")
	m.watchOpts = &opts
	return m.err
}

func (m *mockApp) Clean(context.Context) error {
	m.calls = append(m.calls, "clean")
	return m.err
}

func execute(t *testing.T, m *mockApp, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(m)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Run(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "run", "--strict", "--no-affected")
		require.NoError(t, err)
		require.NotNil(t, m.runOpts)
		assert.True(t, m.runOpts.Strict)
		assert.True(t, m.runOpts.NoAffected)
	})

	t.Run("returns error on run failure", func(t *testing.T) {
		m := &mockApp{err: errors.New("simulated error")}
		_, err := execute(t, m, "run")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})

	t.Run("rejects arguments", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "run", "pkg-a")
		require.Error(t, err)
		assert.Empty(t, m.calls)
	})
}

func TestCommands_Affected(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "affected", "pkg-a", "pkg-b", "-u")
	require.NoError(t, err)

	assert.Equal(t, []string{"pkg-a", "pkg-b"}, m.affected)
	require.NotNil(t, m.affectedOpts)
	assert.True(t, m.affectedOpts.Unordered)
}

func TestCommands_Watch(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "watch", "--debounce", "500ms", "--metrics-addr", ":9464")
	require.NoError(t, err)

	require.NotNil(t, m.watchOpts)
	assert.Equal(t, 500*time.Millisecond, m.watchOpts.Debounce)
	assert.Equal(t, ":9464", m.watchOpts.MetricsAddr)
}

func TestCommands_Simple(t *testing.T) {
	for _, name := range []string{"validate", "order", "clean"} {
		t.Run(name, func(t *testing.T) {
			m := &mockApp{}
			_, err := execute(t, m, name)
			require.NoError(t, err)
			assert.Equal(t, []string{name}, m.calls)
		})
	}
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "sculpt version "+build.Version)
}
