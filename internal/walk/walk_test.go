package walk

import (
	"testing"

	"github.com/rautio/react-analyzer/internal/collect"
	"github.com/rautio/react-analyzer/internal/driver"
)

func idPtr(s string) *string { return &s }

func buildTree(entries map[string][]string) *driver.DependencyTree {
	tree := driver.NewDependencyTree()
	for id, deps := range entries {
		var depEntries []collect.Dependency
		for _, dep := range deps {
			depEntries = append(depEntries, collect.Dependency{Issuer: id, Request: dep, Kind: collect.StaticImport, ID: idPtr(dep)})
		}
		tree.Set(id, driver.Entry{Deps: depEntries, Present: true})
	}
	return tree
}

func TestReachableFollowsChain(t *testing.T) {
	tree := buildTree(map[string][]string{
		"a": {"b"},
		"b": {"c"},
		"c": nil,
	})

	got := Reachable("a", tree)
	want := []string{"b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			break
		}
	}
}

func TestReachableTerminatesOnCycle(t *testing.T) {
	tree := buildTree(map[string][]string{
		"a": {"b"},
		"b": {"a"},
	})

	got := Reachable("a", tree)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("expected [a b] reachable from a cycle (a reaches itself through b), got %v", got)
	}
}

func TestReachableDedupsDiamond(t *testing.T) {
	tree := buildTree(map[string][]string{
		"a": {"b", "c"},
		"b": {"d"},
		"c": {"d"},
		"d": nil,
	})

	got := Reachable("a", tree)
	want := []string{"b", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestReachableMissingRootReturnsEmpty(t *testing.T) {
	tree := driver.NewDependencyTree()
	got := Reachable("nowhere", tree)
	if len(got) != 0 {
		t.Errorf("expected no reachable ids for a missing root, got %v", got)
	}
}

func TestReachableAbsentEntryStopsBranch(t *testing.T) {
	tree := buildTree(map[string][]string{"a": {"b"}})
	tree.Set("b", driver.Entry{Present: false})

	got := Reachable("a", tree)
	if len(got) != 1 || got[0] != "b" {
		t.Fatalf("expected to record b itself but not descend past it, got %v", got)
	}
}
