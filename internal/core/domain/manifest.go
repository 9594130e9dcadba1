package domain

import (
	"maps"
	"path/filepath"
	"slices"
)

const (
	// ManifestFileName is the package descriptor every workspace and the project root carry.
	ManifestFileName = "package.json"

	// DefaultVersion is assumed for manifests that do not declare a version.
	DefaultVersion = "0.0.0"
)

// PackageMetadata is the parsed package descriptor of a workspace or of the project root.
// It is immutable after load.
type PackageMetadata struct {
	Path           string            `json:"path"`
	Name           string            `json:"name"`
	Version        string            `json:"version"`
	WorkspaceGlobs []string          `json:"workspaces"`
	Dependencies   map[string]string `json:"dependencies"`
}

// Dir returns the directory containing the manifest.
func (m PackageMetadata) Dir() string {
	return filepath.Dir(m.Path)
}

// DependencyNames returns the declared dependency names in sorted order.
func (m PackageMetadata) DependencyNames() []string {
	return slices.Sorted(maps.Keys(m.Dependencies))
}

// ManifestFailure records a workspace manifest that matched the workspace globs but
// could not be loaded.
type ManifestFailure struct {
	Path string
	Err  error
}

// Discovery is the workspace set found under a project root.
type Discovery struct {
	Workspaces []Workspace
	Failures   []ManifestFailure
}
