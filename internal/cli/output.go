package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/pterm/pterm"

	"github.com/rautio/react-analyzer/internal/driver"
	"github.com/rautio/react-analyzer/internal/pathutil"
)

// reachabilityOutput is the `-o/--output` JSON document (spec §6: "Write
// reachability JSON {\"result\": {...}}").
type reachabilityOutput struct {
	Result map[string][]string `json:"result"`
}

func writeReachabilityJSON(path string, reachable map[string][]string) error {
	out := reachabilityOutput{Result: reachable}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// printTree renders the dependency tree as an indented text tree rooted
// at each entry, using pterm's tree writer in place of the teacher's
// hand-rolled ANSI escape codes.
func printTree(entries []string, tree *driver.DependencyTree, base string) {
	for _, entry := range entries {
		root := buildTreeNode(entry, tree, base, make(map[string]bool))
		pterm.DefaultTree.WithRoot(root).Render()
	}
}

func buildTreeNode(id string, tree *driver.DependencyTree, base string, visiting map[string]bool) pterm.TreeNode {
	label := pathutil.Shorten(base, id)
	if visiting[id] {
		return pterm.TreeNode{Text: label + " (circular)"}
	}
	visiting[id] = true
	defer delete(visiting, id)

	entry, ok := tree.Get(id)
	if !ok || !entry.Present {
		return pterm.TreeNode{Text: label}
	}

	ids := make([]string, 0, len(entry.Deps))
	seen := make(map[string]bool)
	for _, dep := range entry.Deps {
		if dep.ID == nil || seen[*dep.ID] {
			continue
		}
		seen[*dep.ID] = true
		ids = append(ids, *dep.ID)
	}
	sort.Strings(ids)

	children := make([]pterm.TreeNode, 0, len(ids))
	for _, childID := range ids {
		children = append(children, buildTreeNode(childID, tree, base, visiting))
	}
	return pterm.TreeNode{Text: label, Children: children}
}
