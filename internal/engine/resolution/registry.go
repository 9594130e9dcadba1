// Package resolution implements the registry of pending input resolutions.
//
// Every workspace of a pass registers a one-shot task, hands its id to an input resolver
// and suspends in Await until the resolver reports back through Complete or Fail.
package resolution

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/sculpt/internal/core/domain"
	"go.trai.ch/zerr"
)

// Task is a single pending resolution.
type Task struct {
	ID        string
	Workspace string

	done    chan struct{}
	once    sync.Once
	payload string
	err     error
}

// resolve stores the result and wakes the awaiting pass. It reports false when the
// task was already resolved.
func (t *Task) resolve(payload string, err error) bool {
	resolved := false
	t.once.Do(func() {
		t.payload = payload
		t.err = err
		resolved = true
		close(t.done)
	})
	return resolved
}

// Registry tracks pending tasks by id. It is safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	tasks map[string]*Task
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{tasks: make(map[string]*Task)}
}

// Register creates a task for workspace under a fresh id.
func (r *Registry) Register(workspace string) *Task {
	task := &Task{
		ID:        workspace + ":resolve_inputs:" + uuid.NewString(),
		Workspace: workspace,
		done:      make(chan struct{}),
	}

	r.mu.Lock()
	r.tasks[task.ID] = task
	r.mu.Unlock()
	return task
}

// Complete delivers payload to the task with the given id. Unknown, awaited or already
// completed ids are ignored and reported as false.
func (r *Registry) Complete(id, payload string) bool {
	return r.settle(id, payload, nil)
}

// Fail resolves the task with the given id with an error, with the same one-shot
// semantics as Complete.
func (r *Registry) Fail(id string, err error) bool {
	if err == nil {
		err = errors.New("resolver reported no cause")
	}
	if !errors.Is(err, domain.ErrResolverFailed) {
		err = fmt.Errorf("%w: %w", domain.ErrResolverFailed, err)
	}
	return r.settle(id, "", err)
}

// Await suspends until the task is resolved, ctx is done or timeout elapses.
// A zero timeout waits without limit. The task is removed from the registry on return,
// so later completions for it are ignored. A completion accepted before the removal
// is always returned, even when ctx or the timeout fired at the same time.
func (r *Registry) Await(ctx context.Context, task *Task, timeout time.Duration) (string, error) {
	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case <-task.done:
		r.abandon(task)
	case <-ctx.Done():
		if !r.abandon(task) {
			err := zerr.Wrap(fmt.Errorf("%w: %w", domain.ErrResolutionCancelled, ctx.Err()), "input resolution cancelled")
			return "", zerr.With(err, "workspace", task.Workspace)
		}
	case <-expired:
		if !r.abandon(task) {
			err := zerr.Wrap(domain.ErrResolutionTimeout, "input resolution timed out")
			err = zerr.With(err, "workspace", task.Workspace)
			err = zerr.With(err, "task", task.ID)
			return "", zerr.With(err, "timeout", timeout.String())
		}
	}

	if task.err != nil {
		return "", zerr.With(zerr.Wrap(task.err, "input resolution failed"), "workspace", task.Workspace)
	}
	return task.payload, nil
}

// Pending returns the number of registered tasks that have not been awaited yet.
func (r *Registry) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

// settle resolves a registered task. Resolution and removal share r.mu, so a true
// result always reaches Await.
func (r *Registry) settle(id, payload string, err error) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return false
	}
	return task.resolve(payload, err)
}

// abandon removes task and reports whether it was resolved before the removal.
func (r *Registry) abandon(task *Task) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tasks, task.ID)
	select {
	case <-task.done:
		return true
	default:
		return false
	}
}
