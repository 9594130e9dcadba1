package ports

import "go.trai.ch/sculpt/internal/core/domain"

// WorkspaceDiscoverer loads package manifests and enumerates the workspaces of a project.
//
//go:generate mockgen -source=discoverer.go -destination=mocks/mock_discoverer.go -package=mocks
type WorkspaceDiscoverer interface {
	// LoadManifest parses the package manifest at path.
	LoadManifest(path string) (domain.PackageMetadata, error)

	// Discover scans root for workspaces matching globs. Every returned workspace has
	// an empty fingerprint map. Manifests that fail to load are listed in the discovery
	// failures. Duplicate names fail with domain.ErrDuplicateWorkspaceName.
	Discover(root string, globs []string) (domain.Discovery, error)
}
