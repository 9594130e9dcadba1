// Package fs provides file system adapters for walking, fingerprinting and resolving inputs.
package fs

import (
	"fmt"
	"io/fs"
	"iter"
	"path/filepath"
	"slices"

	"go.trai.ch/sculpt/internal/core/domain"
	"go.trai.ch/zerr"
)

// Walker provides file walking functionality.
type Walker struct {
	skipDirs []string
}

// NewWalker creates a new Walker. Directories named in skipDirs are never entered,
// in addition to version control and node_modules directories.
func NewWalker(skipDirs ...string) *Walker {
	return &Walker{skipDirs: skipDirs}
}

// WalkFiles yields the absolute path of every regular file below root.
// Directory entries whose name matches one of ignores are skipped.
// An entry that cannot be read is yielded with its error and ends the walk.
func (w *Walker) WalkFiles(root string, ignores []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		stopped := false
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if path != root {
				if skip, action := w.shouldSkip(path, d, ignores); skip {
					return action
				}
			}

			if !d.Type().IsRegular() {
				return nil
			}

			if !yield(path, nil) {
				stopped = true
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil && !stopped {
			yield("", zerr.With(zerr.Wrap(fmt.Errorf("%w: %w", domain.ErrFileIO, err), "failed to walk workspace"), "root", root))
		}
	}
}

// shouldSkip reports whether the entry is skipped, and the action WalkDir should take.
func (w *Walker) shouldSkip(path string, d fs.DirEntry, ignores []string) (bool, error) {
	name := d.Name()

	if d.IsDir() {
		switch name {
		case ".git", ".jj", "node_modules":
			return true, filepath.SkipDir
		}
		if slices.Contains(w.skipDirs, path) {
			return true, filepath.SkipDir
		}
	}

	for _, ignore := range ignores {
		if matched, _ := filepath.Match(ignore, name); matched {
			if d.IsDir() {
				return true, filepath.SkipDir
			}
			return true, nil
		}
	}
	return false, nil
}
