package collect

import "github.com/rautio/react-analyzer/internal/parser"

// visitImportStatement handles "import ... from 'src'" (spec §4.E static
// import). Grounded on the teacher's parseImport/parseImportClause
// (internal/analyzer/imports.go), generalized to allocate ImportSymbol
// ids instead of a plain slice.
func (c *collector) visitImportStatement(n *parser.Node) {
	source, ok := findStringChild(n)
	if !ok {
		return
	}

	c.addDependency(source, StaticImport)

	if !c.collectSymbols {
		return
	}

	clause := findChildOfType(n, "import_clause")
	if clause == nil {
		return
	}

	for _, child := range clause.Children() {
		switch child.Type() {
		case "identifier":
			c.addImport(child.Text(), "default", source)
		case "named_imports":
			c.visitNamedImports(child, source)
		case "namespace_import":
			for _, nsChild := range child.Children() {
				if nsChild.Type() == "identifier" {
					c.addImport(nsChild.Text(), "*", source)
				}
			}
		}
	}
}

func (c *collector) visitNamedImports(named *parser.Node, source string) {
	for _, spec := range named.NamedChildren() {
		if spec.Type() != "import_specifier" {
			continue
		}

		var identifiers []string
		for _, child := range spec.Children() {
			if child.Type() == "identifier" {
				identifiers = append(identifiers, child.Text())
			}
		}
		if len(identifiers) == 0 {
			continue
		}

		imported := identifiers[0]
		local := imported
		if len(identifiers) > 1 {
			local = identifiers[1]
		}
		c.addImport(local, imported, source)
	}
}

func findChildOfType(n *parser.Node, typ string) *parser.Node {
	for _, c := range n.Children() {
		if c.Type() == typ {
			return c
		}
	}
	return nil
}

// findStringChild locates a direct "string" child of n and returns its
// literal text content (the string_fragment), used for both import
// sources and re-export sources.
func findStringChild(n *parser.Node) (string, bool) {
	for _, child := range n.Children() {
		if child.Type() == "string" {
			return stringValue(child), true
		}
	}
	return "", false
}

// stringValue extracts the literal value from a tree-sitter "string"
// node (the string_fragment child), falling back to stripping quotes
// from the raw text if the grammar shape differs.
func stringValue(n *parser.Node) string {
	for _, c := range n.Children() {
		if c.Type() == "string_fragment" {
			return c.Text()
		}
	}
	text := n.Text()
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}
