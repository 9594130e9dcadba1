// Package shell provides an input resolver backed by an external command.
package shell

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.trai.ch/sculpt/internal/core/domain"
	"go.trai.ch/sculpt/internal/core/ports"
	"go.trai.ch/zerr"
)

// Environment variables passed to the resolver command.
const (
	EnvTaskID        = "SCULPT_TASK_ID"
	EnvWorkspace     = "SCULPT_WORKSPACE"
	EnvWorkspaceRoot = "SCULPT_WORKSPACE_ROOT"
)

var _ ports.InputResolver = (*CommandResolver)(nil)

// CommandResolver resolves workspace inputs by running a command in the workspace root.
// The command prints a JSON array of input paths on stdout.
type CommandResolver struct {
	command []string
	logger  ports.Logger
}

// NewCommandResolver creates a new CommandResolver.
func NewCommandResolver(command []string, logger ports.Logger) *CommandResolver {
	return &CommandResolver{
		command: command,
		logger:  logger,
	}
}

// RequestResolvedInputs starts the command and returns immediately. Its stdout is
// delivered to completer once the command exits successfully.
func (r *CommandResolver) RequestResolvedInputs(ctx context.Context, req ports.ResolutionRequest, completer ports.ResolutionCompleter) {
	go func() {
		payload, err := r.run(ctx, req)
		if err != nil {
			completer.FailResolution(req.TaskID, err)
			return
		}
		completer.CompleteResolution(req.TaskID, payload)
	}()
}

func (r *CommandResolver) run(ctx context.Context, req ports.ResolutionRequest) (string, error) {
	if len(r.command) == 0 {
		return "", zerr.With(zerr.Wrap(domain.ErrResolverFailed, "no resolver command configured"), "workspace", req.Workspace)
	}

	cmd := exec.CommandContext(ctx, r.command[0], r.command[1:]...) //nolint:gosec // user provided command
	cmd.Dir = req.Root
	cmd.Env = append(os.Environ(),
		EnvTaskID+"="+req.TaskID,
		EnvWorkspace+"="+req.Workspace,
		EnvWorkspaceRoot+"="+req.Root,
	)

	var stdout bytes.Buffer
	stderrLog := &logWriter{logger: r.logger, prefix: req.Workspace + ": "}
	cmd.Stdout = &stdout
	cmd.Stderr = stderrLog
	if v, ok := ports.VertexFromContext(ctx); ok {
		cmd.Stderr = io.MultiWriter(stderrLog, v.Stderr())
	}

	err := cmd.Run()
	_ = stderrLog.Close()
	if err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		wrapped := zerr.Wrap(domain.ErrResolverFailed, "resolver command failed")
		wrapped = zerr.With(wrapped, "workspace", req.Workspace)
		wrapped = zerr.With(wrapped, "exit_code", exitCode)
		return "", zerr.With(wrapped, "cause", err.Error())
	}

	return strings.TrimSpace(stdout.String()), nil
}

// logWriter forwards complete lines to the logger as warnings.
type logWriter struct {
	logger ports.Logger
	prefix string
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")
	if msg == "" {
		return
	}
	w.logger.Warn(w.prefix + msg)
}
