// Package strip implements the type-only import stripper (spec §4.D): a
// pre-pass that removes import declarations whose named specifiers are
// all tagged as type-only, and drops just the type-only specifiers from
// mixed declarations. It is grounded on original_source's
// StripTypeOnlyImports (a swc VisitMut pass operating on a mutable AST),
// adapted to tree-sitter's read-only tree: rather than mutating nodes in
// place, StripTypeOnlyImports computes byte-range edits against the source text and
// returns a new buffer, which the driver re-parses before running the
// collector.
package strip

import (
	"sort"

	"github.com/rautio/react-analyzer/internal/parser"
)

type edit struct {
	start uint32
	end   uint32
	text  string
}

// StripTypeOnlyImports removes type-only import declarations and
// specifiers from ast's source, returning the rewritten source. ast must
// have been parsed from content. Only import_statement nodes are
// touched; every other byte of content is preserved verbatim.
func StripTypeOnlyImports(ast *parser.AST, content []byte) []byte {
	var edits []edit

	ast.Root.Walk(func(n *parser.Node) bool {
		if n.Type() != "import_statement" {
			return true
		}
		if e, ok := stripImportStatement(n); ok {
			edits = append(edits, e)
		}
		return true
	})

	if len(edits) == 0 {
		return content
	}

	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	out := make([]byte, 0, len(content))
	var cursor uint32
	for _, e := range edits {
		if e.start < cursor {
			continue // overlapping edit, should not happen; keep first
		}
		out = append(out, content[cursor:e.start]...)
		out = append(out, []byte(e.text)...)
		cursor = e.end
	}
	out = append(out, content[cursor:]...)
	return out
}

// stripImportStatement decides how (or whether) to rewrite a single
// import_statement node. Returns ok=false when the declaration has no
// type-only content at all.
func stripImportStatement(n *parser.Node) (edit, bool) {
	if isWholeDeclTypeOnly(n) {
		return edit{start: n.StartByte(), end: n.EndByte(), text: ""}, true
	}

	clause := findChildOfType(n, "import_clause")
	if clause == nil {
		return edit{}, false
	}
	named := findChildOfType(clause, "named_imports")
	if named == nil {
		return edit{}, false
	}

	specifiers := named.NamedChildren()
	if len(specifiers) == 0 {
		return edit{}, false
	}

	var kept []string
	anyTypeOnly := false
	for _, spec := range specifiers {
		if spec.Type() != "import_specifier" {
			kept = append(kept, spec.Text())
			continue
		}
		if isTypeOnlySpecifier(spec) {
			anyTypeOnly = true
			continue
		}
		kept = append(kept, spec.Text())
	}

	if !anyTypeOnly {
		return edit{}, false
	}

	if len(kept) == 0 {
		// No specifier remains: does the clause still have a default or
		// namespace import alongside the (now-empty) named_imports?
		hasOther := false
		for _, c := range clause.NamedChildren() {
			if c.Type() != "named_imports" {
				hasOther = true
			}
		}
		if !hasOther {
			return edit{start: n.StartByte(), end: n.EndByte(), text: ""}, true
		}
		return edit{start: named.StartByte(), end: named.EndByte(), text: "{}"}, true
	}

	rebuilt := "{ " + joinComma(kept) + " }"
	return edit{start: named.StartByte(), end: named.EndByte(), text: rebuilt}, true
}

// isWholeDeclTypeOnly reports "import type X from '...'" / "import type {
// X } from '...'" style declarations, recognized by a literal "type"
// keyword appearing directly after "import".
func isWholeDeclTypeOnly(n *parser.Node) bool {
	children := n.Children()
	sawImport := false
	for _, c := range children {
		if c.Text() == "import" {
			sawImport = true
			continue
		}
		if sawImport {
			return c.Text() == "type"
		}
	}
	return false
}

// isTypeOnlySpecifier reports "type Foo" / "type Foo as Bar" within a
// named_imports list.
func isTypeOnlySpecifier(spec *parser.Node) bool {
	children := spec.Children()
	if len(children) == 0 {
		return false
	}
	return children[0].Text() == "type"
}

func findChildOfType(n *parser.Node, typ string) *parser.Node {
	for _, c := range n.Children() {
		if c.Type() == typ {
			return c
		}
	}
	return nil
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}
