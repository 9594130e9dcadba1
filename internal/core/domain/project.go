package domain

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// SnapshotVersion is the format version written into persisted project snapshots.
const SnapshotVersion = 1

// Project is the root aggregate. It is treated as an immutable value: a pass produces a new
// Project through WithWorkspaces and the owner swaps it in as a whole.
type Project struct {
	Version    int                  `json:"version"`
	Root       string               `json:"root"`
	Metadata   PackageMetadata      `json:"metadata"`
	Workspaces map[string]Workspace `json:"workspaces"`
}

// NewProject creates a project from freshly discovered workspaces.
func NewProject(root string, meta PackageMetadata, workspaces []Workspace) (*Project, error) {
	index, err := IndexWorkspaces(workspaces)
	if err != nil {
		return nil, err
	}
	return &Project{
		Version:    SnapshotVersion,
		Root:       root,
		Metadata:   meta,
		Workspaces: index,
	}, nil
}

// IndexWorkspaces keys workspaces by name, failing on the first duplicate name.
func IndexWorkspaces(workspaces []Workspace) (map[string]Workspace, error) {
	index := make(map[string]Workspace, len(workspaces))
	for _, ws := range workspaces {
		if prior, exists := index[ws.Name]; exists {
			err := zerr.Wrap(ErrDuplicateWorkspaceName, "two workspaces share a name")
			err = zerr.With(err, "workspace", ws.Name)
			err = zerr.With(err, "first", prior.Root)
			return nil, zerr.With(err, "second", ws.Root)
		}
		index[ws.Name] = ws
	}
	return index, nil
}

// WithWorkspaces returns a copy of the project with its metadata and workspace map replaced.
func (p *Project) WithWorkspaces(meta PackageMetadata, workspaces map[string]Workspace) *Project {
	return &Project{
		Version:    p.Version,
		Root:       p.Root,
		Metadata:   meta,
		Workspaces: workspaces,
	}
}

// Workspace returns the workspace with the given name.
func (p *Project) Workspace(name string) (Workspace, bool) {
	ws, ok := p.Workspaces[name]
	return ws, ok
}

// Names returns the workspace names in sorted order.
func (p *Project) Names() []string {
	return slices.Sorted(maps.Keys(p.Workspaces))
}

// WorkspaceList returns the workspaces sorted by name.
func (p *Project) WorkspaceList() []Workspace {
	list := slices.Collect(maps.Values(p.Workspaces))
	slices.SortFunc(list, func(a, b Workspace) int { return strings.Compare(a.Name, b.Name) })
	return list
}

// Graph builds the dependency graph of the current workspace set.
func (p *Project) Graph() *DependencyGraph {
	return NewDependencyGraph(p.WorkspaceList())
}

// Snapshot serializes the project for the cache.
func (p *Project) Snapshot() (string, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", zerr.Wrap(err, "failed to marshal project snapshot")
	}
	return string(data), nil
}

// DecodeProject parses a snapshot written by Snapshot.
func DecodeProject(snapshot string) (*Project, error) {
	var p Project
	if err := json.Unmarshal([]byte(snapshot), &p); err != nil {
		return nil, zerr.Wrap(err, "failed to unmarshal project snapshot")
	}
	if p.Version != SnapshotVersion {
		return nil, zerr.With(zerr.Wrap(ErrSnapshotVersion, "cannot decode project snapshot"), "version", p.Version)
	}
	for name, ws := range p.Workspaces {
		if ws.Files == nil {
			ws.Files = make(map[string]FileFingerprint)
			p.Workspaces[name] = ws
		}
	}
	if p.Workspaces == nil {
		p.Workspaces = make(map[string]Workspace)
	}
	return &p, nil
}
