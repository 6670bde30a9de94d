package parser

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// TreeSitterParser implements Parser using tree-sitter, selecting a grammar
// per file extension. A fresh *sitter.Parser should be constructed per
// goroutine: the tree-sitter C library does not support concurrent parsing
// on a single *sitter.Parser instance.
type TreeSitterParser struct {
	parser *sitter.Parser
}

// NewParser creates a new tree-sitter parser. Extension-appropriate grammar
// selection happens per call to ParseFile.
func NewParser() (*TreeSitterParser, error) {
	return &TreeSitterParser{parser: sitter.NewParser()}, nil
}

// languageFor picks the grammar for a file extension. Plain ".ts" uses the
// stricter "typescript" grammar (no JSX productions); everything else that
// can contain JSX uses "tsx", a syntactic superset. ".js"/".mjs"/".cjs" use
// the plain "javascript" grammar so CommonJS-only files parse without
// pulling in TS-only productions.
func languageFor(filePath string) *sitter.Language {
	switch strings.ToLower(extOf(filePath)) {
	case ".ts", ".mts", ".cts":
		return typescript.GetLanguage()
	case ".js", ".mjs", ".cjs":
		return javascript.GetLanguage()
	default:
		return tsx.GetLanguage()
	}
}

func extOf(filePath string) string {
	idx := strings.LastIndexByte(filePath, '.')
	if idx < 0 {
		return ""
	}
	return filePath[idx:]
}

// ParseFile parses a source file and returns an AST.
func (p *TreeSitterParser) ParseFile(filePath string, content []byte) (*AST, error) {
	p.parser.SetLanguage(languageFor(filePath))

	tree, err := p.parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file: %w", err)
	}
	if tree == nil {
		return nil, fmt.Errorf("failed to parse file")
	}

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("failed to get root node")
	}

	if root.HasError() {
		return nil, fmt.Errorf("syntax error in file")
	}

	return &AST{
		Root:     wrapNode(root, content),
		FilePath: filePath,
		Language: root.Type(),
		tree:     tree,
	}, nil
}

// Close satisfies the Parser interface; it releases nothing and always
// returns nil.
func (p *TreeSitterParser) Close() error {
	return nil
}
