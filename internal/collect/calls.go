package collect

import "github.com/rautio/react-analyzer/internal/parser"

// visitCallExpression handles both dynamic import() calls and CommonJS
// require() calls (spec §4.E). Grounded on original_source's
// visit_call_expr, which always descends into child expressions so that
// dynamic imports nested inside other constructs are still found; here
// that descent falls out of the generic Walk traversal itself rather
// than an explicit recursive call.
func (c *collector) visitCallExpression(n *parser.Node) {
	callee := n.ChildByFieldName("function")
	if callee == nil {
		return
	}

	if isImportKeyword(callee) {
		if request, ok := firstStringArg(n); ok {
			if !c.skipDynamicImports {
				c.addDependency(request, DynamicImport)
			}
			if c.collectSymbols {
				c.dynamicImportID(request)
			}
		}
		return
	}

	if callee.Type() == "identifier" && callee.Text() == "require" {
		if request, ok := firstStringArg(n); ok {
			c.addDependency(request, CommonJS)
		}
	}
}

func isImportKeyword(n *parser.Node) bool {
	return n.Type() == "import" || n.Text() == "import"
}

// firstStringArg returns the literal value of a call expression's first
// argument, when that argument is a string literal. Non-literal
// arguments (spec: "follows non-literal dynamic import arguments" is a
// non-goal) yield ok=false.
func firstStringArg(call *parser.Node) (string, bool) {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return "", false
	}
	named := args.NamedChildren()
	if len(named) == 0 || named[0].Type() != "string" {
		return "", false
	}
	return stringValue(named[0]), true
}

// literalDynamicImportRequests walks node looking for import(...) calls
// whose argument is a string literal, returning the requests in
// encounter order. Used by export-declaration handling to union dynamic
// import ids into an export's depends_on set (spec §4.E, "export const").
func (c *collector) literalDynamicImportRequests(node *parser.Node) []string {
	var requests []string
	node.Walk(func(n *parser.Node) bool {
		if n.Type() != "call_expression" {
			return true
		}
		callee := n.ChildByFieldName("function")
		if callee == nil || !isImportKeyword(callee) {
			return true
		}
		if request, ok := firstStringArg(n); ok {
			requests = append(requests, request)
		}
		return true
	})
	return requests
}
