package fs

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/sculpt/internal/core/ports"
	"go.trai.ch/zerr"
)

// TSConfigFileName is the TypeScript project file consulted by the glob resolver.
const TSConfigFileName = "tsconfig.json"

var _ ports.InputResolver = (*GlobResolver)(nil)

// GlobOptions configures a GlobResolver.
type GlobOptions struct {
	// Include lists doublestar patterns relative to the workspace root.
	Include []string
	// Exclude lists doublestar patterns removed from the result.
	Exclude []string
	// TSConfig enables reading include and exclude from the workspace tsconfig.json.
	TSConfig bool
}

// GlobResolver resolves workspace inputs in-process.
// With TSConfig enabled and a tsconfig.json present, its include and exclude lists win.
// Otherwise the configured Include patterns are expanded, and without any patterns every
// file of the workspace is an input.
type GlobResolver struct {
	opts   GlobOptions
	walker *Walker
	logger ports.Logger
}

// NewGlobResolver creates a new GlobResolver.
func NewGlobResolver(opts GlobOptions, walker *Walker, logger ports.Logger) *GlobResolver {
	return &GlobResolver{opts: opts, walker: walker, logger: logger}
}

type tsconfig struct {
	Include []string `json:"include"`
	Exclude []string `json:"exclude"`
}

// RequestResolvedInputs resolves the inputs on a separate goroutine and reports the result
// to completer as a JSON array of absolute paths.
func (r *GlobResolver) RequestResolvedInputs(ctx context.Context, req ports.ResolutionRequest, completer ports.ResolutionCompleter) {
	go func() {
		paths, err := r.resolve(ctx, req.Root)
		if err != nil {
			completer.FailResolution(req.TaskID, zerr.With(err, "workspace", req.Workspace))
			return
		}

		payload, err := json.Marshal(paths)
		if err != nil {
			completer.FailResolution(req.TaskID, zerr.Wrap(err, "failed to encode resolved inputs"))
			return
		}
		completer.CompleteResolution(req.TaskID, string(payload))
	}()
}

// Resolve returns the sorted absolute input paths of the workspace at root.
func (r *GlobResolver) Resolve(ctx context.Context, root string) ([]string, error) {
	return r.resolve(ctx, root)
}

func (r *GlobResolver) resolve(ctx context.Context, root string) ([]string, error) {
	if r.opts.TSConfig {
		if paths, ok := r.resolveTSConfig(ctx, root); ok {
			return paths, nil
		}
	}

	if len(r.opts.Include) > 0 {
		return r.expand(ctx, root, r.opts.Include, r.opts.Exclude, nil)
	}

	var paths []string
	for path, err := range r.walker.WalkFiles(root, nil) {
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || excluded(filepath.ToSlash(rel), r.opts.Exclude) {
			continue
		}
		paths = append(paths, path)
	}
	slices.Sort(paths)
	return paths, nil
}

// resolveTSConfig reports false when the workspace has no tsconfig.json.
// A tsconfig.json that cannot be read or parsed resolves to no inputs.
func (r *GlobResolver) resolveTSConfig(ctx context.Context, root string) ([]string, bool) {
	path := filepath.Join(root, TSConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // Path is derived from the workspace root
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn("failed to read " + path + ": " + err.Error())
			return []string{}, true
		}
		return nil, false
	}

	var cfg tsconfig
	if err := json.Unmarshal(stripJSONC(data), &cfg); err != nil {
		r.logger.Warn("failed to parse " + path + ": " + err.Error())
		return []string{}, true
	}

	exclude := append(slices.Clone(cfg.Exclude), "**/node_modules/**")
	paths, err := r.expand(ctx, root, cfg.Include, exclude, []string{path})
	if err != nil {
		r.logger.Warn("failed to expand " + path + ": " + err.Error())
		return []string{}, true
	}
	return paths, true
}

func (r *GlobResolver) expand(ctx context.Context, root string, include, exclude, extra []string) ([]string, error) {
	fsys := os.DirFS(root)
	seen := make(map[string]struct{})
	paths := slices.Clone(extra)
	for _, p := range extra {
		seen[p] = struct{}{}
	}

	for _, pattern := range include {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pattern = filepath.ToSlash(filepath.Clean(pattern))
		if !strings.ContainsAny(pattern, "*?[{") {
			if info, err := fs.Stat(fsys, pattern); err == nil && info.IsDir() {
				pattern += "/**"
			}
		}
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to glob inputs"), "pattern", pattern)
		}
		for _, m := range matches {
			if excluded(m, exclude) {
				continue
			}
			abs := filepath.Join(root, filepath.FromSlash(m))
			if _, ok := seen[abs]; ok {
				continue
			}
			seen[abs] = struct{}{}
			paths = append(paths, abs)
		}
	}
	slices.Sort(paths)
	return paths, nil
}

// excluded matches rel against each pattern, and against each pattern treated as a directory.
func excluded(rel string, patterns []string) bool {
	for _, p := range patterns {
		p = filepath.ToSlash(filepath.Clean(p))
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(p+"/**", rel); ok {
			return true
		}
	}
	return false
}
