package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/sculpt/internal/core/domain"
	"go.trai.ch/zerr"
)

// Open loads the project once: from the cached snapshot when it is present and valid,
// otherwise from a fresh scan of the project root. Later calls return the current project.
func (o *Orchestrator) Open(ctx context.Context) (*domain.Project, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.project != nil {
		return o.project, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	project, err := o.restore()
	if err != nil {
		return nil, err
	}
	if project == nil {
		project, err = o.scan()
		if err != nil {
			return nil, err
		}
	}

	o.project = project
	o.metrics.SetWorkspaces(len(project.Workspaces))
	return project, nil
}

// restore returns nil without error when there is no usable snapshot.
func (o *Orchestrator) restore() (*domain.Project, error) {
	if !o.store.Has(o.opts.SnapshotKey) {
		return nil, nil
	}

	content, err := o.store.Read(o.opts.SnapshotKey)
	if err != nil {
		return nil, zerr.Wrap(cacheError(err), "failed to read project snapshot")
	}

	project, err := domain.DecodeProject(content)
	if err != nil {
		o.logger.Warn(fmt.Sprintf("ignoring project snapshot: %v", err))
		return nil, nil
	}
	if project.Root != o.opts.Root {
		o.logger.Warn(fmt.Sprintf("ignoring project snapshot recorded for %s", project.Root))
		return nil, nil
	}

	o.logger.Info("project restored from cache")
	return project, nil
}

// scan builds the project from the root manifest and its workspace globs.
func (o *Orchestrator) scan() (*domain.Project, error) {
	meta, workspaces, err := o.enumerate()
	if err != nil {
		return nil, err
	}
	return domain.NewProject(o.opts.Root, meta, workspaces)
}

func (o *Orchestrator) persist(project *domain.Project) error {
	snapshot, err := project.Snapshot()
	if err != nil {
		return zerr.Wrap(cacheError(err), "failed to serialize project snapshot")
	}
	if err := o.store.Write(o.opts.SnapshotKey, snapshot); err != nil {
		return zerr.With(zerr.Wrap(cacheError(err), "failed to persist project snapshot"), "key", o.opts.SnapshotKey)
	}
	return nil
}

func cacheError(err error) error {
	if errors.Is(err, domain.ErrCacheIO) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrCacheIO, err)
}
