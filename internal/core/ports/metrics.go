package ports

import "time"

// Metrics records statistics about invalidation passes.
//
//go:generate mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	// ObservePass records a finished pass with its status ("ok", "partial" or "failed").
	ObservePass(status string, duration time.Duration)
	// AddFiles records how many inputs were rehashed and how many fingerprints were reused.
	AddFiles(rehashed, reused int)
	// AddDirty records the number of dirty workspaces of a pass.
	AddDirty(n int)
	// AddWorkspaceFailures records the number of failed workspaces of a pass.
	AddWorkspaceFailures(n int)
	// SetPendingResolutions reports the number of resolutions currently awaited.
	SetPendingResolutions(n int)
	// SetWorkspaces reports the number of workspaces in the project.
	SetWorkspaces(n int)
}
