package collect

import (
	"sort"

	"github.com/rautio/react-analyzer/internal/parser"
)

// resolveDependsOn implements the transitive closure described in spec
// §4.E: starting from a set of root names, each name is resolved either
// by following its recorded uses in the local-symbol map, or, absent a
// local-symbol entry, by collecting the ids of every ImportSymbol with a
// matching Local. Names are visited at most once, so cycles terminate.
func (c *collector) resolveDependsOn(roots []string) []int {
	visited := make(map[string]bool)
	resultSet := make(map[int]bool)
	queue := append([]string{}, roots...)

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if visited[name] {
			continue
		}
		visited[name] = true

		if uses, ok := c.localSymbols[name]; ok {
			queue = append(queue, uses...)
			continue
		}
		for _, imp := range c.imports {
			if imp.Local == name {
				resultSet[imp.ID] = true
			}
		}
	}

	ids := make([]int, 0, len(resultSet))
	for id := range resultSet {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// identifierUses returns the flat set of every "identifier" node's text
// under n, in first-occurrence order. This is deliberately not
// scope-aware (spec §9): a shadowed local sharing a name with an import
// will be treated as a use of that import.
func identifierUses(n *parser.Node) []string {
	seen := make(map[string]bool)
	var uses []string
	n.Walk(func(node *parser.Node) bool {
		if node.Type() != "identifier" {
			return true
		}
		name := node.Text()
		if !seen[name] {
			seen[name] = true
			uses = append(uses, name)
		}
		return true
	})
	return uses
}
