package domain

import "go.trai.ch/zerr"

var (
	// ErrDuplicateWorkspaceName is returned when two discovered workspaces share a name.
	ErrDuplicateWorkspaceName = zerr.New("duplicate workspace name")

	// ErrCycleDetected is returned when a cycle is detected in the workspace dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrVersionConflict is returned when a declared dependency range is not satisfied
	// by the version resolved for that dependency name.
	ErrVersionConflict = zerr.New("version conflict")

	// ErrInvalidVersion is returned when a version or a version range cannot be parsed.
	ErrInvalidVersion = zerr.New("invalid version")

	// ErrFileIO is returned when a tracked input file cannot be read or hashed.
	ErrFileIO = zerr.New("file io error")

	// ErrCacheIO is returned when the cache store cannot be read or written.
	ErrCacheIO = zerr.New("cache io error")

	// ErrProjectRoot is returned when the project root manifest cannot be loaded.
	ErrProjectRoot = zerr.New("project root unreadable")

	// ErrManifestInvalid is returned when a package manifest is malformed.
	ErrManifestInvalid = zerr.New("invalid package manifest")

	// ErrResolutionTimeout is returned when an input resolution is not completed in time.
	ErrResolutionTimeout = zerr.New("input resolution timed out")

	// ErrResolutionCancelled is returned when the pass is cancelled while awaiting a resolution.
	ErrResolutionCancelled = zerr.New("input resolution cancelled")

	// ErrResolutionPayload is returned when a resolution payload is not a list of paths.
	ErrResolutionPayload = zerr.New("invalid resolution payload")

	// ErrResolverFailed is returned when the input resolver reports a failure.
	ErrResolverFailed = zerr.New("input resolver failed")

	// ErrWorkspaceNotFound is returned when a requested workspace is not part of the project.
	ErrWorkspaceNotFound = zerr.New("workspace not found")

	// ErrPassFailed is returned when an invalidation pass finished with failed workspaces
	// and the caller asked for strict handling.
	ErrPassFailed = zerr.New("invalidation pass finished with failures")

	// ErrSnapshotVersion is returned when a cached snapshot was written by an incompatible format.
	ErrSnapshotVersion = zerr.New("unsupported snapshot version")
)
