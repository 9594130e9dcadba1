package domain

import (
	"slices"
	"time"
)

// WorkspaceFailure records why one workspace could not be invalidated during a pass.
type WorkspaceFailure struct {
	Workspace string
	Err       error
}

// PassOutcome is reported once an invalidation pass has completed.
// Failed workspaces keep their prior state and are not part of Dirty.
type PassOutcome struct {
	// Dirty lists the workspaces whose inputs changed, sorted by name.
	Dirty []string
	// Added lists workspaces discovered for the first time.
	Added []string
	// Removed lists workspaces that no longer match the workspace globs.
	Removed []string
	// Failures lists workspaces whose resolution or invalidation failed.
	Failures []WorkspaceFailure
	// Workspaces is the number of workspaces in the new snapshot.
	Workspaces int
	Duration   time.Duration
}

// HasFailures reports whether any workspace failed.
func (o *PassOutcome) HasFailures() bool {
	return len(o.Failures) > 0
}

// Failed returns the names of the failed workspaces.
func (o *PassOutcome) Failed() []string {
	names := make([]string, len(o.Failures))
	for i, f := range o.Failures {
		names[i] = f.Workspace
	}
	return names
}

// IsDirty reports whether name is part of the dirty set.
func (o *PassOutcome) IsDirty(name string) bool {
	_, found := slices.BinarySearch(o.Dirty, name)
	return found
}

// Succeeded returns the sorted names of the workspaces that were invalidated without error.
func (o *PassOutcome) Succeeded(all []string) []string {
	failed := o.Failed()
	names := make([]string, 0, len(all))
	for _, name := range all {
		if !slices.Contains(failed, name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
