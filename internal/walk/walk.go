// Package walk implements the reachability walker (spec §4.G): a
// depth-first traversal over a finished DependencyTree from a set of
// root files, returning every module id reachable from them. It is
// grounded on original_source's analyze_file.rs, generalized from a
// single accumulating Vec (which pushes duplicates) into a sorted,
// deduplicated result, matching spec.md §4.G's "sorted unique list of
// ids reachable from file".
package walk

import (
	"sort"

	"github.com/rautio/react-analyzer/internal/driver"
)

// Reachable returns the sorted, deduplicated set of module ids reachable
// from file by following tree's dependency edges. Cycles terminate via a
// visited set; missing or absent entries end that branch without error.
func Reachable(file string, tree *driver.DependencyTree) []string {
	visited := make(map[string]bool)
	result := make(map[string]bool)
	visit(file, tree, visited, result)

	out := make([]string, 0, len(result))
	for id := range result {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func visit(file string, tree *driver.DependencyTree, visited, result map[string]bool) {
	if visited[file] {
		return
	}
	visited[file] = true

	entry, ok := tree.Get(file)
	if !ok || !entry.Present {
		return
	}

	for _, dep := range entry.Deps {
		if dep.ID == nil {
			continue
		}
		result[*dep.ID] = true
		visit(*dep.ID, tree, visited, result)
	}
}
