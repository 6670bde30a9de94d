package driver

import (
	"fmt"
	"os"
	"regexp"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/rautio/react-analyzer/internal/alias"
	"github.com/rautio/react-analyzer/internal/collect"
	"github.com/rautio/react-analyzer/internal/parser"
	"github.com/rautio/react-analyzer/internal/pathutil"
	"github.com/rautio/react-analyzer/internal/resolve"
	"github.com/rautio/react-analyzer/internal/strip"
)

// Progress receives begin/end notifications for each module the driver
// visits, letting a CLI layer drive a spinner or tree view without the
// driver itself depending on any presentation library.
type Progress interface {
	Begin(id string)
	End(id string)
}

// Options configures a Driver. Context, Extensions and JS mirror the CLI
// flags of spec §6; Include/Exclude are pre-compiled regexes (nil means
// "match everything" / "match nothing").
type Options struct {
	Context             string
	Extensions          []string
	JS                  []string
	Include             *regexp.Regexp
	Exclude             *regexp.Regexp
	Alias               *alias.Alias
	Transform           bool
	SkipDynamicImports  bool
	CollectSymbols      bool
	// IsModule records the caller's module-vs-script intent for API
	// parity with original_source's ParseOptions::is_module. Tree-sitter's
	// javascript/typescript/tsx grammars parse CommonJS and ESM syntax
	// uniformly, unlike swc's mode-specific parser, so this field has no
	// effect on parsing here; it is threaded through for callers porting
	// configuration from the original tool.
	IsModule string
	Workers  int
	CacheSize int
	Logger   *logrus.Logger
	Progress Progress
}

// Driver runs the recursive parse-resolve-collect pipeline described in
// spec §4.F over one Options configuration, accumulating results into a
// shared DependencyTree and SymbolTree.
type Driver struct {
	opts     Options
	resolver *resolve.Resolver
	jsSet    map[string]bool
	tree     *DependencyTree
	symbols  *SymbolTree
	sem      chan struct{}
	logger   *logrus.Logger
}

// New builds a Driver ready to Run over a set of entry requests.
func New(opts Options) (*Driver, error) {
	resolver, err := resolve.New(opts.Extensions, opts.Alias, opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("driver: building resolver: %w", err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}

	jsSet := make(map[string]bool, len(opts.JS))
	for _, ext := range opts.JS {
		jsSet[ext] = true
	}

	return &Driver{
		opts:     opts,
		resolver: resolver,
		jsSet:    jsSet,
		tree:     NewDependencyTree(),
		symbols:  NewSymbolTree(),
		sem:      make(chan struct{}, workers),
		logger:   logger,
	}, nil
}

// Tree returns the DependencyTree accumulated so far.
func (d *Driver) Tree() *DependencyTree { return d.tree }

// Symbols returns the SymbolTree accumulated so far.
func (d *Driver) Symbols() *SymbolTree { return d.symbols }

// Run resolves every entry request concurrently and blocks until the
// entire reachable dependency graph has been visited.
func (d *Driver) Run(entries []string) {
	var wg sync.WaitGroup
	for _, entry := range entries {
		wg.Add(1)
		go func(request string) {
			defer wg.Done()
			d.drive(d.opts.Context, request)
		}(entry)
	}
	wg.Wait()
}

// acquire/release bound concurrent parseAndCollect calls only (the
// CPU-bound tree-sitter work), not goroutine fan-out itself: a driver
// goroutine blocked in sync.WaitGroup waiting on its own children must
// never be the thing holding a semaphore slot, or a dependency chain
// deeper than the worker count deadlocks (every slot parked on a parent
// waiting for a child that can never acquire one). Goroutines are cheap;
// only the parse work needs throttling.
func (d *Driver) acquire() { d.sem <- struct{}{} }
func (d *Driver) release() { <-d.sem }

// drive implements one pass of spec §4.F's recursive step for a single
// (context, request) pair, returning a pointer to the resolved module id,
// or nil if the request could not be resolved at all. Grounded on
// original_source's parse_tree_recursive.rs; the numbered comments below
// match the steps documented there.
func (d *Driver) drive(context, request string) *string {
	// 1. Resolve. A total miss (or an I/O error) yields no id at all: the
	// caller's Dependency.ID stays nil and nothing is installed in the tree.
	id, ok, err := d.resolver.Resolve(context, request)
	if err != nil {
		d.logger.WithFields(logrus.Fields{"context": context, "request": request}).
			WithError(err).Error("resolve failed")
		return nil
	}
	if !ok {
		return nil
	}

	// 2 & 7. Tree memo and placeholder install, merged into one atomic
	// claim: SetIfAbsent either installs the placeholder and lets this
	// goroutine through, or reports that some other goroutine already
	// claimed id (memoized, cached, filtered, gated, or mid-parse), in
	// which case this call returns the id without redoing any work. A
	// plain Has-then-Set pair here would let two goroutines racing on a
	// fresh id both observe "absent" and both go on to parse it.
	if !d.tree.SetIfAbsent(id, Entry{Deps: []collect.Dependency{}, Present: true}) {
		return &id
	}

	// 3. Process-wide cache: a prior parse_tree call in this process
	// already fully collected id's dependencies.
	if cached, ok := processCacheLoad(id); ok {
		d.tree.Set(id, Entry{Deps: cached, Present: true})
		return &id
	}

	// 4. Include/exclude filter.
	if d.excluded(id) {
		d.tree.Set(id, Entry{Present: false})
		return &id
	}

	// 5. Extension gate: non-JS-family files are recorded with an empty
	// dependency list and never parsed.
	if len(d.jsSet) > 0 && !d.jsSet[pathutil.Ext(id)] {
		d.tree.Set(id, Entry{Deps: []collect.Dependency{}, Present: true})
		return &id
	}

	if d.opts.Progress != nil {
		d.opts.Progress.Begin(id)
	}

	d.acquire()
	deps := d.parseAndCollect(id)
	d.release()

	// 12. Recurse: resolve every collected dependency concurrently.
	resolved := make([]collect.Dependency, len(deps))
	copy(resolved, deps)
	if len(resolved) > 0 {
		var wg sync.WaitGroup
		childContext := pathutil.Dir(id)
		for i := range resolved {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if childID := d.drive(childContext, resolved[i].Request); childID != nil {
					resolved[i].ID = childID
				}
			}(i)
		}
		wg.Wait()
	}

	// 13. Prune node_modules descendants from the recorded edge list:
	// a Dependency whose resolved id lands in node_modules is dropped
	// outright (original_source's Vec::retain), not merely un-resolved.
	pruned := resolved[:0]
	for _, dep := range resolved {
		if dep.ID != nil && pathutil.ContainsSegment(*dep.ID, "node_modules") {
			continue
		}
		pruned = append(pruned, dep)
	}
	resolved = pruned

	// 14. Publish.
	d.tree.Set(id, Entry{Deps: resolved, Present: true})
	processCacheStore(id, resolved)

	if d.opts.Progress != nil {
		d.opts.Progress.End(id)
	}

	return &id
}

func (d *Driver) excluded(id string) bool {
	if d.opts.Include != nil && !d.opts.Include.MatchString(id) {
		return true
	}
	if d.opts.Exclude != nil && d.opts.Exclude.MatchString(id) {
		return true
	}
	return false
}

// parseAndCollect performs steps 8-11: read the file, parse it, optionally
// strip type-only imports and re-parse, then run the collector and publish
// its symbols. Read or parse failures are logged and treated as "no
// dependencies found", leaving the placeholder installed at step 7 as the
// final entry.
func (d *Driver) parseAndCollect(id string) []collect.Dependency {
	content, err := os.ReadFile(id)
	if err != nil {
		d.logger.WithField("id", id).WithError(err).Warn("could not read module")
		return nil
	}

	p, err := parser.NewParser()
	if err != nil {
		d.logger.WithField("id", id).WithError(err).Error("could not build parser")
		return nil
	}
	defer p.Close()

	ast, err := p.ParseFile(id, content)
	if err != nil {
		d.logger.WithField("id", id).WithError(err).Warn("could not parse module")
		return nil
	}
	defer ast.Close()

	// 9. Transform: type-only import stripping is syntactic in this
	// implementation (no swc-style "mark" pass over unresolved bindings is
	// needed, since tree-sitter erases nothing semantically), so it is a
	// direct strip-then-reparse.
	if d.opts.Transform && isTypedExt(pathutil.Ext(id)) {
		stripped := strip.StripTypeOnlyImports(ast, content)
		ast.Close()
		ast, err = p.ParseFile(id, stripped)
		if err != nil {
			d.logger.WithField("id", id).WithError(err).Warn("could not re-parse stripped module")
			return nil
		}
		defer ast.Close()
	}

	result := collect.Collect(ast, collect.Options{
		Issuer:             id,
		SkipDynamicImports: d.opts.SkipDynamicImports,
		CollectSymbols:     d.opts.CollectSymbols,
	})

	if d.opts.CollectSymbols {
		d.symbols.Set(id, SymbolNode{Imports: result.Imports, Exports: result.Exports})
	}

	return result.Dependencies
}

func isTypedExt(ext string) bool {
	switch ext {
	case ".ts", ".tsx", ".mts", ".cts":
		return true
	default:
		return false
	}
}
