// Package domain contains the core domain models and business logic for the workspace dependency graph.
package domain

import (
	"errors"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/zerr"
)

// Edge is one declared dependency between two names.
// In the direct graph Name is the dependency; in the inverse graph it is the dependent.
type Edge struct {
	Range string
	Name  InternedString
}

// GraphNode holds the version of a name and its outgoing edges.
type GraphNode struct {
	Version string
	Edges   []Edge
}

// DependencyGraph is derived from a workspace set and rebuilt whenever that set changes.
// Names that are not workspaces only ever appear as edge targets and are treated as leaves.
type DependencyGraph struct {
	direct   map[InternedString]GraphNode
	inversed map[InternedString]GraphNode
	names    []string
}

// NewDependencyGraph builds the direct and inverse adjacency of the given workspaces.
// Workspaces and their dependencies are visited in name order so every traversal is deterministic.
func NewDependencyGraph(workspaces []Workspace) *DependencyGraph {
	sorted := slices.Clone(workspaces)
	slices.SortFunc(sorted, func(a, b Workspace) int { return strings.Compare(a.Name, b.Name) })

	g := &DependencyGraph{
		direct:   make(map[InternedString]GraphNode, len(sorted)),
		inversed: make(map[InternedString]GraphNode),
		names:    make([]string, 0, len(sorted)),
	}

	versions := make(map[string]string, len(sorted))
	for _, ws := range sorted {
		versions[ws.Name] = ws.Metadata.Version
	}

	for _, ws := range sorted {
		name := NewInternedString(ws.Name)
		node := GraphNode{Version: ws.Metadata.Version}
		for _, depName := range ws.Metadata.DependencyNames() {
			rng := ws.Metadata.Dependencies[depName]
			dep := NewInternedString(depName)
			node.Edges = append(node.Edges, Edge{Range: rng, Name: dep})

			inv := g.inversed[dep]
			inv.Version = versions[depName]
			inv.Edges = append(inv.Edges, Edge{Range: rng, Name: name})
			g.inversed[dep] = inv
		}
		g.direct[name] = node
		g.names = append(g.names, ws.Name)
	}

	return g
}

// Names returns the workspace names of the graph in sorted order.
func (g *DependencyGraph) Names() []string {
	return slices.Clone(g.names)
}

// Dependencies returns the names a workspace depends on.
func (g *DependencyGraph) Dependencies(name string) []string {
	return edgeNames(g.direct[NewInternedString(name)].Edges)
}

// Dependents returns the names that depend on the given name.
func (g *DependencyGraph) Dependents(name string) []string {
	return edgeNames(g.inversed[NewInternedString(name)].Edges)
}

func edgeNames(edges []Edge) []string {
	out := make([]string, len(edges))
	for i, e := range edges {
		out[i] = e.Name.String()
	}
	return out
}

type frame struct {
	name InternedString
	next int
}

// TopologicalOrder returns the names of subset so that every dependency precedes its dependents.
// Edges leaving the subset are ignored. A cycle fails with ErrCycleDetected; the error carries
// the cycle in its "cycle" and "path" metadata, starting and ending with the repeated name.
func (g *DependencyGraph) TopologicalOrder(subset []string) ([]string, error) {
	members := make(map[InternedString]struct{}, len(subset))
	roots := slices.Clone(subset)
	slices.Sort(roots)
	roots = slices.Compact(roots)
	for _, n := range roots {
		members[NewInternedString(n)] = struct{}{}
	}

	sorted := make([]InternedString, 0, len(roots))
	visited := make(map[InternedString]struct{}, len(roots))
	onPath := make(map[InternedString]int)

	for _, root := range internAll(roots) {
		if _, done := visited[root]; done {
			continue
		}

		stack := []frame{{name: root}}
		onPath[root] = 0
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			edges := g.direct[top.name].Edges

			var next InternedString
			for top.next < len(edges) {
				dep := edges[top.next].Name
				top.next++
				if _, ok := members[dep]; !ok {
					continue
				}
				if _, done := visited[dep]; done {
					continue
				}
				if idx, cyclic := onPath[dep]; cyclic {
					return nil, cycleError(stack[idx:], dep)
				}
				next = dep
				break
			}

			if !next.IsZero() {
				onPath[next] = len(stack)
				stack = append(stack, frame{name: next})
				continue
			}

			delete(onPath, top.name)
			visited[top.name] = struct{}{}
			sorted = append(sorted, top.name)
			stack = stack[:len(stack)-1]
		}
	}

	return stringsOf(sorted), nil
}

func cycleError(frames []frame, repeated InternedString) error {
	path := make([]string, 0, len(frames)+1)
	for _, f := range frames {
		path = append(path, f.name.String())
	}
	path = append(path, repeated.String())

	err := zerr.Wrap(ErrCycleDetected, "dependency graph is not acyclic")
	err = zerr.With(err, "cycle", strings.Join(path, " -> "))
	return zerr.With(err, "path", path)
}

// AffectedSet returns every name reachable from changed through the inverse graph,
// the seeds included, sorted by name.
func (g *DependencyGraph) AffectedSet(changed []string) []string {
	seen := make(map[InternedString]struct{}, len(changed))
	queue := make([]InternedString, 0, len(changed))
	for _, n := range internAll(changed) {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		queue = append(queue, n)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, e := range g.inversed[current].Edges {
			if _, ok := seen[e.Name]; ok {
				continue
			}
			seen[e.Name] = struct{}{}
			queue = append(queue, e.Name)
		}
	}

	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n.String())
	}
	slices.Sort(out)
	return out
}

// Affected returns the affected set of changed in a safe build order.
func (g *DependencyGraph) Affected(changed []string) ([]string, error) {
	return g.TopologicalOrder(g.AffectedSet(changed))
}

// ValidateVersions checks that every declared range is satisfied by the single version
// resolved for its dependency name. A workspace's own version is authoritative for its name;
// the first range seen for any other name becomes that name's provisional version.
// All conflicts are reported, joined into one error.
func (g *DependencyGraph) ValidateVersions() error {
	resolved := make(map[string]string, len(g.names))
	for _, name := range g.names {
		resolved[name] = cleanVersion(g.direct[NewInternedString(name)].Version)
	}

	var errs []error
	for _, name := range g.names {
		for _, edge := range g.direct[NewInternedString(name)].Edges {
			dep := edge.Name.String()
			version, ok := resolved[dep]
			if !ok {
				if baseline := cleanVersion(edge.Range); isVersion(baseline) {
					resolved[dep] = baseline
				}
				continue
			}
			if err := checkRange(name, dep, edge.Range, version); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Validate runs the version check and the cycle check over every workspace.
func (g *DependencyGraph) Validate() error {
	versionsErr := g.ValidateVersions()
	_, cycleErr := g.TopologicalOrder(g.names)
	return errors.Join(versionsErr, cycleErr)
}

func checkRange(dependent, dependency, rng, version string) error {
	rng, ok := strings.CutPrefix(rng, workspaceProtocol)
	if ok && (rng == "" || rng == "*" || rng == "^" || rng == "~") {
		return nil
	}
	constraint, err := semver.NewConstraint(rng)
	if err != nil {
		e := zerr.Wrap(ErrInvalidVersion, "cannot parse dependency range")
		e = zerr.With(e, "dependent", dependent)
		e = zerr.With(e, "dependency", dependency)
		return zerr.With(e, "range", rng)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		e := zerr.Wrap(ErrInvalidVersion, "cannot parse resolved version")
		e = zerr.With(e, "dependency", dependency)
		return zerr.With(e, "version", version)
	}
	if constraint.Check(v) {
		return nil
	}
	e := zerr.Wrap(ErrVersionConflict, "dependency range not satisfied")
	e = zerr.With(e, "dependent", dependent)
	e = zerr.With(e, "dependency", dependency)
	e = zerr.With(e, "range", rng)
	return zerr.With(e, "version", version)
}

const workspaceProtocol = "workspace:"

var versionPrefixes = strings.NewReplacer("^", "", "~", "")

func cleanVersion(v string) string {
	return strings.TrimSpace(versionPrefixes.Replace(v))
}

func isVersion(v string) bool {
	_, err := semver.NewVersion(v)
	return err == nil
}
