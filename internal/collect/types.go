// Package collect implements the dependency/symbol collector (spec §4.E):
// an AST visitor that walks a parsed program once and emits Dependency,
// ImportSymbol, and ExportSymbol records, including the transitive-closure
// computation linking each export to the imports it depends on. It is
// grounded on the teacher's internal/analyzer walker shape (imports.go,
// symbols.go both use node.Walk(func(*parser.Node) bool) dispatch) and on
// original_source's dependenct_collector.rs for the per-form emission
// rules; the depends_on transitive closure itself has no original_source
// analogue and is implemented directly from the specification text.
package collect

import (
	"strconv"

	"github.com/rautio/react-analyzer/internal/parser"
)

// DependencyKind classifies how a module reference was written. Values
// are serialized by name, matching the original's enum variant naming.
type DependencyKind string

const (
	StaticImport  DependencyKind = "StaticImport"
	DynamicImport DependencyKind = "DynamicImport"
	StaticExport  DependencyKind = "StaticExport"
	CommonJS      DependencyKind = "CommonJS"
)

// Dependency records a single outbound module reference. ID is filled in
// by the driver after recursive resolution completes; the collector
// always leaves it nil.
type Dependency struct {
	Issuer  string         `json:"issuer"`
	Request string         `json:"request"`
	Kind    DependencyKind `json:"kind"`
	ID      *string        `json:"id"`
}

// ImportSymbol records one imported binding. ID is a per-module
// monotonically increasing integer allocated in encounter order, except
// for dynamic imports, which reuse the same ID across repeat occurrences
// of an identical request string.
type ImportSymbol struct {
	ID       int    `json:"id"`
	Local    string `json:"local"`
	Imported string `json:"imported"`
	Source   string `json:"source"`
}

// ExportSymbol records one exported binding. ReexportSource is non-nil
// iff this export re-exports from another module, in which case
// DependsOn is always empty (the dependency edge is carried by the
// corresponding Dependency record instead of symbol-id linkage).
type ExportSymbol struct {
	Local          string  `json:"local"`
	Exported       string  `json:"exported"`
	ReexportSource *string `json:"reexport_source"`
	DependsOn      []int   `json:"depends_on"`
}

// Options configures a single Collect call.
type Options struct {
	// Issuer is the absolute path of the module being visited; it is
	// stamped onto every emitted Dependency.
	Issuer string
	// SkipDynamicImports suppresses Dependency emission (but not
	// traversal) for import(...) call expressions.
	SkipDynamicImports bool
	// CollectSymbols gates ImportSymbol/ExportSymbol emission. When
	// false, Dependency emission is unaffected (spec §8 invariant 9).
	CollectSymbols bool
}

// Result is everything Collect produces from a single AST.
type Result struct {
	Dependencies []Dependency
	Imports      []ImportSymbol
	Exports      []ExportSymbol
}

// Collect visits ast.Root once and returns the accumulated dependency and
// symbol records.
func Collect(ast *parser.AST, opts Options) Result {
	c := &collector{
		issuer:             opts.Issuer,
		skipDynamicImports: opts.SkipDynamicImports,
		collectSymbols:     opts.CollectSymbols,
		dynamicImportIDs:   make(map[string]int),
		localSymbols:       make(map[string][]string),
	}
	ast.Root.Walk(func(n *parser.Node) bool {
		c.visit(n)
		return true
	})
	return Result{
		Dependencies: c.dependencies,
		Imports:      c.imports,
		Exports:      c.exports,
	}
}

type collector struct {
	issuer              string
	skipDynamicImports  bool
	collectSymbols      bool
	dependencies        []Dependency
	imports             []ImportSymbol
	exports             []ExportSymbol
	nextImportID        int
	dynamicImportIDs    map[string]int
	localSymbols        map[string][]string
}

func (c *collector) visit(n *parser.Node) {
	switch n.Type() {
	case "import_statement":
		c.visitImportStatement(n)
	case "call_expression":
		c.visitCallExpression(n)
	case "export_statement":
		c.visitExportStatement(n)
	case "lexical_declaration", "variable_declaration":
		c.visitTopLevelVariableDeclaration(n)
	case "function_declaration", "generator_function_declaration", "class_declaration":
		c.visitTopLevelNamedDeclaration(n)
	}
}

// isTopLevelDeclaration reports whether n is a direct statement of the
// program, as opposed to one nested inside a function/class body (where
// scope-awareness would be needed to resolve it correctly) or one already
// handled via visitExportDeclaration (whose parent is "export_statement").
func isTopLevelDeclaration(n *parser.Node) bool {
	parent := n.Parent()
	return parent != nil && parent.Type() == "program"
}

// visitTopLevelVariableDeclaration records every top-level const/let/var
// binding into localSymbols, not only exported ones, so resolveDependsOn
// can thread a transitive closure through an unexported intermediate like
// "const B = A; export const C = B;" (spec §4.E, §8 scenario 5).
func (c *collector) visitTopLevelVariableDeclaration(n *parser.Node) {
	if !c.collectSymbols || !isTopLevelDeclaration(n) {
		return
	}
	for _, child := range n.NamedChildren() {
		if child.Type() != "variable_declarator" {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		valueNode := child.ChildByFieldName("value")
		local := bindingName(nameNode)
		var uses []string
		if valueNode != nil {
			uses = identifierUses(valueNode)
		}
		c.localSymbols[local] = uses
	}
}

// visitTopLevelNamedDeclaration records an unexported top-level
// function/class declaration into localSymbols, mirroring the exported
// case in visitExportDeclaration.
func (c *collector) visitTopLevelNamedDeclaration(n *parser.Node) {
	if !c.collectSymbols || !isTopLevelDeclaration(n) {
		return
	}
	local := namedOr(n.ChildByFieldName("name"), "")
	if local == "" {
		return
	}
	c.localSymbols[local] = identifierUses(n)
}

func (c *collector) addDependency(request string, kind DependencyKind) {
	c.dependencies = append(c.dependencies, Dependency{
		Issuer:  c.issuer,
		Request: request,
		Kind:    kind,
	})
}

func (c *collector) addImport(local, imported, source string) int {
	id := c.nextImportID
	c.nextImportID++
	c.imports = append(c.imports, ImportSymbol{ID: id, Local: local, Imported: imported, Source: source})
	return id
}

// dynamicImportID returns the ImportSymbol id for a dynamic-import
// request string, creating one on first sight and reusing it thereafter
// (spec §4.E, §8 invariant 5).
func (c *collector) dynamicImportID(request string) int {
	if id, ok := c.dynamicImportIDs[request]; ok {
		return id
	}
	id := c.nextImportID
	c.nextImportID++
	local := dynamicImportLocal(id)
	c.imports = append(c.imports, ImportSymbol{ID: id, Local: local, Imported: "*", Source: request})
	c.dynamicImportIDs[request] = id
	return id
}

func dynamicImportLocal(id int) string {
	return "__dynamic_import_" + strconv.Itoa(id)
}
