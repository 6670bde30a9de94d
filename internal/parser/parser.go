// Package parser wraps tree-sitter to turn typed-JavaScript-family source
// text into the AST the rest of dpdm walks. Parsing itself is treated as a
// black box: callers get a Program node and a visitor-friendly API, never a
// tree-sitter type.
package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Parser parses a single source file into an AST.
type Parser interface {
	ParseFile(filePath string, content []byte) (*AST, error)
	Close() error
}

// AST represents a parsed file.
type AST struct {
	Root     *Node
	FilePath string
	Language string
	tree     *sitter.Tree // kept for Close
}

// Node represents an AST node.
type Node struct {
	tsNode  *sitter.Node
	content []byte
}

// Close releases the underlying tree-sitter tree.
func (ast *AST) Close() {
	if ast.tree != nil {
		ast.tree.Close()
		ast.tree = nil
	}
}
