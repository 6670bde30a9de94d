package collect

import "github.com/rautio/react-analyzer/internal/parser"

// visitExportStatement dispatches across the export forms named in spec
// §4.E. Tree-sitter's typescript/tsx grammar represents all of them
// under a single "export_statement" node type, distinguished by which
// children are present: a literal "*" token for export-all, an
// "export_clause" for named re-exports/local re-export lists, a literal
// "default" token for default exports, or else a bare declaration.
func (c *collector) visitExportStatement(n *parser.Node) {
	children := n.Children()
	if len(children) < 2 {
		return
	}
	second := children[1]

	if second.Text() == "*" || second.Type() == "namespace_export" {
		c.visitExportAll(children)
		return
	}
	if clause := findChildOfType(n, "export_clause"); clause != nil {
		c.visitExportClause(children, clause)
		return
	}
	if second.Text() == "default" {
		c.visitExportDefault(children[2:])
		return
	}
	c.visitExportDeclaration(second)
}

// visitExportAll handles "export * from 'src'" and "export * as ns from
// 'src'".
func (c *collector) visitExportAll(children []*parser.Node) {
	source, ok := "", false
	var nsAlias string
	for i, child := range children {
		if child.Type() == "string" {
			source = stringValue(child)
			ok = true
		}
		if child.Text() == "as" && i+1 < len(children) {
			nsAlias = children[i+1].Text()
		}
		if child.Type() == "namespace_export" {
			if named := child.NamedChildren(); len(named) > 0 {
				nsAlias = exportNameText(named[len(named)-1])
			}
		}
	}
	if !ok {
		return
	}

	c.addDependency(source, StaticExport)
	if !c.collectSymbols {
		return
	}

	src := source
	if nsAlias != "" {
		c.exports = append(c.exports, ExportSymbol{Local: "*", Exported: nsAlias, ReexportSource: &src, DependsOn: []int{}})
		return
	}
	c.exports = append(c.exports, ExportSymbol{Local: "*", Exported: "*", ReexportSource: &src, DependsOn: []int{}})
}

// visitExportClause handles "export { a as b }" with or without a
// trailing "from 'src'" source.
func (c *collector) visitExportClause(children []*parser.Node, clause *parser.Node) {
	var source string
	hasSource := false
	for _, child := range children {
		if child.Type() == "string" {
			source = stringValue(child)
			hasSource = true
			break
		}
	}

	for _, spec := range clause.NamedChildren() {
		if spec.Type() != "export_specifier" {
			continue
		}
		nameNode := spec.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		local := exportNameText(nameNode)
		exported := local
		if aliasNode := spec.ChildByFieldName("alias"); aliasNode != nil {
			exported = exportNameText(aliasNode)
		}

		if hasSource {
			c.addDependency(source, StaticExport)
			if c.collectSymbols {
				src := source
				c.exports = append(c.exports, ExportSymbol{Local: local, Exported: exported, ReexportSource: &src, DependsOn: []int{}})
			}
			continue
		}

		if c.collectSymbols {
			depends := c.resolveDependsOn([]string{local})
			c.exports = append(c.exports, ExportSymbol{Local: local, Exported: exported, DependsOn: depends})
		}
	}
}

func exportNameText(n *parser.Node) string {
	if n.Type() == "string" {
		return stringValue(n)
	}
	return n.Text()
}

// visitExportDefault handles "export default <declaration|expression>".
func (c *collector) visitExportDefault(rest []*parser.Node) {
	if !c.collectSymbols || len(rest) == 0 {
		return
	}
	payload := rest[0]

	var local string
	switch payload.Type() {
	case "function_declaration", "generator_function_declaration":
		local = namedOr(payload.ChildByFieldName("name"), "default")
	case "class_declaration":
		local = namedOr(payload.ChildByFieldName("name"), "default")
	default:
		local = "default"
	}

	uses := identifierUses(payload)
	c.localSymbols[local] = uses
	depends := c.resolveDependsOn(uses)
	c.exports = append(c.exports, ExportSymbol{Local: local, Exported: "default", DependsOn: depends})
}

func namedOr(n *parser.Node, fallback string) string {
	if n == nil {
		return fallback
	}
	return n.Text()
}

// visitExportDeclaration handles "export const/let/var x = init",
// "export function f() {}", and "export class C {}".
func (c *collector) visitExportDeclaration(decl *parser.Node) {
	if !c.collectSymbols {
		return
	}

	switch decl.Type() {
	case "lexical_declaration", "variable_declaration":
		for _, child := range decl.NamedChildren() {
			if child.Type() != "variable_declarator" {
				continue
			}
			c.exportVariableDeclarator(child)
		}
	case "function_declaration", "generator_function_declaration":
		local := namedOr(decl.ChildByFieldName("name"), "<unknown>")
		uses := identifierUses(decl)
		c.localSymbols[local] = uses
		c.exports = append(c.exports, ExportSymbol{Local: local, Exported: local, DependsOn: c.resolveDependsOn([]string{local})})
	case "class_declaration":
		local := namedOr(decl.ChildByFieldName("name"), "<unknown>")
		uses := identifierUses(decl)
		c.localSymbols[local] = uses
		c.exports = append(c.exports, ExportSymbol{Local: local, Exported: local, DependsOn: c.resolveDependsOn([]string{local})})
	}
}

func (c *collector) exportVariableDeclarator(declarator *parser.Node) {
	nameNode := declarator.ChildByFieldName("name")
	valueNode := declarator.ChildByFieldName("value")
	local := bindingName(nameNode)

	var uses []string
	if valueNode != nil {
		uses = identifierUses(valueNode)
	}
	c.localSymbols[local] = uses

	depends := c.resolveDependsOn([]string{local})
	if valueNode != nil {
		for _, request := range c.literalDynamicImportRequests(valueNode) {
			depends = unionInt(depends, c.dynamicImportID(request))
		}
	}

	c.exports = append(c.exports, ExportSymbol{Local: local, Exported: local, DependsOn: depends})
}

func bindingName(n *parser.Node) string {
	if n == nil {
		return "<unknown>"
	}
	switch n.Type() {
	case "identifier":
		return n.Text()
	case "object_pattern", "array_pattern":
		return "<destructured>"
	default:
		return "<unknown>"
	}
}

func unionInt(set []int, v int) []int {
	for _, x := range set {
		if x == v {
			return set
		}
	}
	return append(set, v)
}
