// Package manifest loads package.json manifests and discovers project workspaces.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/sculpt/internal/core/domain"
	"go.trai.ch/zerr"
)

// packageJSON is the subset of package.json that sculpt reads.
type packageJSON struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Workspaces   json.RawMessage   `json:"workspaces,omitempty"`
	Dependencies map[string]string `json:"dependencies"`
}

// workspacesObject is the yarn classic form: {"packages": [...], "nohoist": [...]}.
type workspacesObject struct {
	Packages []string `json:"packages"`
}

// Loader implements ports.WorkspaceDiscoverer over the local filesystem.
type Loader struct{}

// New creates a new manifest Loader.
func New() *Loader {
	return &Loader{}
}

// LoadManifest parses the package.json at path, applying defaults for missing fields.
func (l *Loader) LoadManifest(path string) (domain.PackageMetadata, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return domain.PackageMetadata{}, zerr.With(zerr.Wrap(err, "failed to resolve manifest path"), "path", path)
	}

	data, err := os.ReadFile(abs) //nolint:gosec // manifest paths come from discovery
	if err != nil {
		return domain.PackageMetadata{}, zerr.With(zerr.Wrap(fmt.Errorf("%w: %w", domain.ErrFileIO, err), "failed to read manifest"), "path", abs)
	}
	return Parse(abs, data)
}

// Parse decodes package.json content read from path.
func Parse(path string, data []byte) (domain.PackageMetadata, error) {
	var raw packageJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.PackageMetadata{}, invalid(path, "malformed package.json", err)
	}
	if raw.Name == "" {
		return domain.PackageMetadata{}, invalid(path, "package.json has no name", nil)
	}

	globs, err := workspacePatterns(raw.Workspaces)
	if err != nil {
		return domain.PackageMetadata{}, invalid(path, "unsupported workspaces field", err)
	}

	meta := domain.PackageMetadata{
		Path:           path,
		Name:           raw.Name,
		Version:        raw.Version,
		WorkspaceGlobs: globs,
		Dependencies:   raw.Dependencies,
	}
	if meta.Version == "" {
		meta.Version = domain.DefaultVersion
	}
	if meta.WorkspaceGlobs == nil {
		meta.WorkspaceGlobs = []string{}
	}
	if meta.Dependencies == nil {
		meta.Dependencies = map[string]string{}
	}
	return meta, nil
}

func workspacePatterns(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var patterns []string
	if err := json.Unmarshal(raw, &patterns); err == nil {
		return patterns, nil
	}

	var obj workspacesObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	return obj.Packages, nil
}

func invalid(path, msg string, cause error) error {
	err := zerr.Wrap(domain.ErrManifestInvalid, msg)
	if cause != nil {
		err = zerr.With(err, "cause", cause.Error())
	}
	return zerr.With(err, "path", path)
}
