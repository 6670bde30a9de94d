// Package dpdm is the library entry point: it assembles internal/alias and
// internal/driver (which wraps internal/resolve) behind a single
// ParseTree call, mirroring spec.md §6's "library / embedded surface"
// contract (`parse_tree(entries, options) -> {dependency_tree,
// symbol_tree}`). internal/cli is its only other caller.
package dpdm

import (
	"fmt"
	"regexp"

	"github.com/sirupsen/logrus"

	"github.com/rautio/react-analyzer/internal/alias"
	"github.com/rautio/react-analyzer/internal/driver"
)

// ParseOptions is the public configuration surface for ParseTree,
// matching spec.md §3's ParseOptions record. Include/Exclude are taken
// as regex source strings, per spec.md §6 ("regular expressions are
// passed as strings"), and compiled here.
type ParseOptions struct {
	Context            string
	Extensions         []string
	JS                 []string
	Include            string
	Exclude            string
	TSConfig           string
	Transform          bool
	SkipDynamicImports bool
	IsModule           string
	CollectSymbols     bool
	Workers            int
	CacheSize          int
	Logger             *logrus.Logger
	Progress           driver.Progress
}

// Result bundles the two tables ParseTree produces.
type Result struct {
	DependencyTree *driver.DependencyTree
	SymbolTree     *driver.SymbolTree
}

// ParseTree resolves every entry request and every transitive dependency
// reachable from them, per spec.md §4.F/§5, returning the accumulated
// dependency and symbol tables. A bad --tsconfig or bad include/exclude
// regex is a configuration error (spec.md §7) and is returned before any
// driver work begins.
func ParseTree(entries []string, opts ParseOptions) (*Result, error) {
	var al *alias.Alias
	if opts.TSConfig != "" {
		loaded, err := alias.LoadTSConfig(opts.TSConfig)
		if err != nil {
			return nil, fmt.Errorf("dpdm: loading tsconfig %q: %w", opts.TSConfig, err)
		}
		al = loaded
	}

	var include, exclude *regexp.Regexp
	if opts.Include != "" {
		re, err := regexp.Compile(opts.Include)
		if err != nil {
			return nil, fmt.Errorf("dpdm: compiling --include: %w", err)
		}
		include = re
	}
	if opts.Exclude != "" {
		re, err := regexp.Compile(opts.Exclude)
		if err != nil {
			return nil, fmt.Errorf("dpdm: compiling --exclude: %w", err)
		}
		exclude = re
	}

	d, err := driver.New(driver.Options{
		Context:            opts.Context,
		Extensions:         opts.Extensions,
		JS:                 opts.JS,
		Include:            include,
		Exclude:            exclude,
		Alias:              al,
		Transform:          opts.Transform,
		SkipDynamicImports: opts.SkipDynamicImports,
		CollectSymbols:     opts.CollectSymbols,
		IsModule:           opts.IsModule,
		Workers:            opts.Workers,
		CacheSize:          opts.CacheSize,
		Logger:             opts.Logger,
		Progress:           opts.Progress,
	})
	if err != nil {
		return nil, fmt.Errorf("dpdm: %w", err)
	}

	d.Run(entries)

	return &Result{DependencyTree: d.Tree(), SymbolTree: d.Symbols()}, nil
}
