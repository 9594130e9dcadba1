package domain

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Workspace is one package of the project.
// Files is replaced wholesale after every successful invalidation.
type Workspace struct {
	Name     string                     `json:"name"`
	Root     string                     `json:"root"`
	Metadata PackageMetadata            `json:"metadata"`
	Files    map[string]FileFingerprint `json:"files"`
}

// NewWorkspace creates a workspace with no tracked files from its manifest.
func NewWorkspace(meta PackageMetadata) Workspace {
	return Workspace{
		Name:     meta.Name,
		Root:     meta.Dir(),
		Metadata: meta,
		Files:    make(map[string]FileFingerprint),
	}
}

// ManifestPath returns the path of the workspace manifest, which is always an input.
func (w Workspace) ManifestPath() string {
	return filepath.Join(w.Root, ManifestFileName)
}

// Invalidation is the result of comparing a workspace's resolved inputs with its tracked files.
type Invalidation struct {
	// Dirty is true when at least one input is new or has different content.
	Dirty bool
	// Files is the new, authoritative fingerprint map.
	Files map[string]FileFingerprint
	// Added lists inputs that were not tracked before.
	Added []string
	// Changed lists tracked inputs whose content hash differs.
	Changed []string
	// Dropped lists tracked files that are no longer inputs.
	Dropped []string
	// Rehashed counts inputs whose content was hashed during this invalidation.
	Rehashed int
	// Reused counts inputs whose stored fingerprint was kept because the mtime did not move.
	Reused int
}

type fileState int

const (
	fileReused fileState = iota
	fileUnchanged
	fileChanged
	fileAdded
)

type fileVerdict struct {
	fingerprint FileFingerprint
	state       fileState
}

// Invalidate fingerprints the resolved inputs of the workspace and reports whether any changed.
// The manifest is appended as an implicit input. Relative inputs are resolved against the
// workspace root. Inputs are probed concurrently, at most concurrency at a time (no limit if <= 0).
func (w Workspace) Invalidate(
	ctx context.Context,
	inputs []string,
	probe FileProbe,
	concurrency int,
) (Invalidation, error) {
	paths := w.normalizeInputs(inputs)
	verdicts := make([]fileVerdict, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := w.probeFile(path, probe)
			if err != nil {
				return err
			}
			verdicts[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Invalidation{}, zerr.With(err, "workspace", w.Name)
	}

	result := Invalidation{Files: make(map[string]FileFingerprint, len(paths))}
	for i, v := range verdicts {
		result.Files[paths[i]] = v.fingerprint
		switch v.state {
		case fileReused:
			result.Reused++
		case fileUnchanged:
			result.Rehashed++
		case fileChanged:
			result.Rehashed++
			result.Changed = append(result.Changed, paths[i])
			result.Dirty = true
		case fileAdded:
			result.Rehashed++
			result.Added = append(result.Added, paths[i])
			result.Dirty = true
		}
	}

	for path := range w.Files {
		if _, ok := result.Files[path]; !ok {
			result.Dropped = append(result.Dropped, path)
		}
	}
	slices.Sort(result.Dropped)

	return result, nil
}

func (w Workspace) probeFile(path string, probe FileProbe) (fileVerdict, error) {
	prior, tracked := w.Files[path]
	if !tracked {
		fp, err := probe.Fingerprint(path)
		if err != nil {
			return fileVerdict{}, fileIOError(err, path)
		}
		return fileVerdict{fingerprint: fp, state: fileAdded}, nil
	}

	modTime, err := probe.ModTime(path)
	if err != nil {
		return fileVerdict{}, fileIOError(err, path)
	}
	if modTime == prior.ModifiedAt {
		return fileVerdict{fingerprint: prior, state: fileReused}, nil
	}

	fp, err := probe.Fingerprint(path)
	if err != nil {
		return fileVerdict{}, fileIOError(err, path)
	}
	if fp.Hash == prior.Hash {
		return fileVerdict{fingerprint: fp, state: fileUnchanged}, nil
	}
	return fileVerdict{fingerprint: fp, state: fileChanged}, nil
}

// normalizeInputs returns the cleaned, absolute, de-duplicated inputs with the manifest appended.
func (w Workspace) normalizeInputs(inputs []string) []string {
	seen := make(map[string]struct{}, len(inputs)+1)
	paths := make([]string, 0, len(inputs)+1)
	for _, in := range append(slices.Clone(inputs), w.ManifestPath()) {
		if in == "" {
			continue
		}
		if !filepath.IsAbs(in) {
			in = filepath.Join(w.Root, in)
		}
		in = filepath.Clean(in)
		if _, ok := seen[in]; ok {
			continue
		}
		seen[in] = struct{}{}
		paths = append(paths, in)
	}
	return paths
}

func fileIOError(err error, path string) error {
	if !errors.Is(err, ErrFileIO) {
		err = fmt.Errorf("%w: %w", ErrFileIO, err)
	}
	return zerr.With(zerr.Wrap(err, "failed to fingerprint input"), "path", path)
}
