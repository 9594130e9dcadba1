package ports

import "context"

//go:generate mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks

// ResolutionRequest asks for the input files of one workspace.
type ResolutionRequest struct {
	// TaskID identifies the pending resolution; it must be passed back on completion.
	TaskID string
	// Workspace is the name of the workspace.
	Workspace string
	// Root is the absolute root directory of the workspace.
	Root string
}

// ResolutionCompleter receives the result of a resolution request.
// Completing an unknown or already completed task is a no-op and returns false.
type ResolutionCompleter interface {
	// CompleteResolution delivers a JSON array of input paths for the task.
	CompleteResolution(taskID string, payload string) bool
	// FailResolution reports that the inputs of the task could not be resolved.
	FailResolution(taskID string, err error) bool
}

// InputResolver resolves the input files of a workspace.
// RequestResolvedInputs must not block: the answer is delivered later through the completer.
type InputResolver interface {
	RequestResolvedInputs(ctx context.Context, req ResolutionRequest, completer ResolutionCompleter)
}
