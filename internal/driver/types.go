// Package driver implements the recursive, concurrent parse-resolve-collect
// pipeline (spec §4.F): parse_tree's entry points resolve each request,
// read and parse the winning file, run the type-only stripper and the
// collector, then fan out one child resolution per collected dependency.
// It is grounded on original_source's parse_tree_recursive.rs for control
// flow (resolve -> tree memo -> process cache -> filter -> extension gate
// -> placeholder -> read/parse -> transform -> collect -> recurse -> prune
// -> publish) and on the teacher's internal/cli/parallel.go worker-pool
// idiom for bounding goroutine fan-out, generalized from a flat worker
// pool over a fixed file list into a recursive, semaphore-bounded
// dependency expansion.
package driver

import (
	"sync"

	"github.com/rautio/react-analyzer/internal/collect"
)

// Entry is one DependencyTree value: either Present (a, possibly empty,
// dependency list) or absent, meaning the module was excluded or failed
// to resolve/parse.
type Entry struct {
	Deps    []collect.Dependency
	Present bool
}

// DependencyTree is the process-local, concurrency-safe mapping from
// module id to Entry. Keys are installed exactly once per drive() call
// (the placeholder-before-parse discipline of spec §4.F step 7) and,
// once installed with Present data, are never mutated again.
type DependencyTree struct {
	mu sync.RWMutex
	m  map[string]Entry
}

// NewDependencyTree returns an empty tree.
func NewDependencyTree() *DependencyTree {
	return &DependencyTree{m: make(map[string]Entry)}
}

// Has reports whether id has already been installed (placeholder or
// final value).
func (t *DependencyTree) Has(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.m[id]
	return ok
}

// Get returns id's entry and whether it is installed.
func (t *DependencyTree) Get(id string) (Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.m[id]
	return e, ok
}

// Set installs or overwrites id's entry.
func (t *DependencyTree) Set(id string, e Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.m[id] = e
}

// SetIfAbsent installs e under id and reports true only if id was not
// already installed, atomically. This is the check-then-act of spec §4.F
// steps 2 and 7 (memo check, placeholder install) collapsed into a single
// locked operation, so two goroutines racing to drive() the same fresh id
// cannot both win the check and both parse it.
func (t *DependencyTree) SetIfAbsent(id string, e Entry) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.m[id]; ok {
		return false
	}
	t.m[id] = e
	return true
}

// Snapshot copies the tree into a plain map, e.g. for JSON serialization.
func (t *DependencyTree) Snapshot() map[string]Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]Entry, len(t.m))
	for k, v := range t.m {
		out[k] = v
	}
	return out
}

// SymbolNode is one SymbolTree value: the imports and exports collected
// from a single module.
type SymbolNode struct {
	Imports []collect.ImportSymbol
	Exports []collect.ExportSymbol
}

// SymbolTree is the process-local, concurrency-safe mapping from module
// id to SymbolNode.
type SymbolTree struct {
	mu sync.RWMutex
	m  map[string]SymbolNode
}

// NewSymbolTree returns an empty tree.
func NewSymbolTree() *SymbolTree {
	return &SymbolTree{m: make(map[string]SymbolNode)}
}

// Set installs id's symbol node.
func (t *SymbolTree) Set(id string, n SymbolNode) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.m[id] = n
}

// Get returns id's symbol node, if any.
func (t *SymbolTree) Get(id string) (SymbolNode, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.m[id]
	return n, ok
}

// Snapshot copies the tree into a plain map.
func (t *SymbolTree) Snapshot() map[string]SymbolNode {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]SymbolNode, len(t.m))
	for k, v := range t.m {
		out[k] = v
	}
	return out
}

// processCache is the process-wide cache keyed by canonical module id
// (spec §3 "Lifecycle", §5 "Shared state"): it outlives any single
// parse_tree call and is the Go analogue of original_source's
// lazy_static CACHE: Mutex<HashMap<String, Arc<Option<Vec<Dependency>>>>>.
// Only fully-collected dependency lists are ever stored here, matching
// the original: the filter/extension-gate short-circuits in drive()
// install into the DependencyTree only, never into this cache.
var (
	processCacheMu sync.RWMutex
	processCache   = make(map[string][]collect.Dependency)
)

func processCacheLoad(id string) ([]collect.Dependency, bool) {
	processCacheMu.RLock()
	defer processCacheMu.RUnlock()
	deps, ok := processCache[id]
	return deps, ok
}

func processCacheStore(id string, deps []collect.Dependency) {
	processCacheMu.Lock()
	defer processCacheMu.Unlock()
	processCache[id] = deps
}

// ResetProcessCache clears the process-wide cache. Exposed for test
// isolation, matching spec §9's note that an implementation may expose
// an explicit reset hook for testability.
func ResetProcessCache() {
	processCacheMu.Lock()
	defer processCacheMu.Unlock()
	processCache = make(map[string][]collect.Dependency)
}
