package manifest

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/sculpt/internal/core/domain"
	"go.trai.ch/zerr"
)

const nodeModules = "node_modules"

// Discover expands globs against root and loads every matching workspace manifest.
// Globs prefixed with "!" remove matches of earlier globs. Manifests under node_modules
// are never workspaces. A manifest that cannot be loaded is reported in the failures
// of the discovery and does not stop the scan.
func (l *Loader) Discover(root string, globs []string) (domain.Discovery, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return domain.Discovery{}, zerr.With(zerr.Wrap(err, "failed to resolve project root"), "root", root)
	}

	var include, exclude []string
	for _, g := range globs {
		g = strings.TrimSuffix(strings.TrimPrefix(filepath.ToSlash(g), "./"), "/")
		if negated, ok := strings.CutPrefix(g, "!"); ok {
			exclude = append(exclude, strings.TrimPrefix(negated, "./"))
			continue
		}
		if g != "" {
			include = append(include, g)
		}
	}

	seen := make(map[string]struct{})
	var manifests []string
	for _, g := range include {
		pattern := filepath.Join(root, filepath.FromSlash(g), domain.ManifestFileName)
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			err = zerr.Wrap(domain.ErrManifestInvalid, "invalid workspace glob")
			return domain.Discovery{}, zerr.With(err, "glob", g)
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok || skipManifest(root, m, exclude) {
				continue
			}
			seen[m] = struct{}{}
			manifests = append(manifests, m)
		}
	}
	slices.Sort(manifests)

	found := domain.Discovery{Workspaces: make([]domain.Workspace, 0, len(manifests))}
	for _, m := range manifests {
		meta, err := l.LoadManifest(m)
		if err != nil {
			found.Failures = append(found.Failures, domain.ManifestFailure{Path: m, Err: err})
			continue
		}
		found.Workspaces = append(found.Workspaces, domain.NewWorkspace(meta))
	}

	if _, err := domain.IndexWorkspaces(found.Workspaces); err != nil {
		return domain.Discovery{}, err
	}
	return found, nil
}

func skipManifest(root, manifest string, exclude []string) bool {
	rel, err := filepath.Rel(root, filepath.Dir(manifest))
	if err != nil {
		return true
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return true
	}
	if slices.Contains(strings.Split(rel, "/"), nodeModules) {
		return true
	}
	for _, pattern := range exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
