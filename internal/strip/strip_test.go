package strip

import (
	"strings"
	"testing"

	"github.com/rautio/react-analyzer/internal/parser"
)

func parseOrFail(t *testing.T, content string) (*parser.AST, []byte) {
	t.Helper()
	p, err := parser.NewParser()
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	src := []byte(content)
	ast, err := p.ParseFile("mod.ts", src)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	return ast, src
}

func TestStripWholeDeclTypeOnlyImport(t *testing.T) {
	ast, src := parseOrFail(t, "import type { Foo } from './types';\nimport { bar } from './bar';\n")
	out := StripTypeOnlyImports(ast, src)

	if strings.Contains(string(out), "./types") {
		t.Errorf("expected whole type-only import to be removed, got:\n%s", out)
	}
	if !strings.Contains(string(out), "./bar") {
		t.Errorf("expected non-type import to survive, got:\n%s", out)
	}
}

func TestStripMixedSpecifiersKeepsValueImports(t *testing.T) {
	ast, src := parseOrFail(t, "import { type Foo, bar } from './mixed';\n")
	out := StripTypeOnlyImports(ast, src)

	text := string(out)
	if strings.Contains(text, "Foo") {
		t.Errorf("expected type-only specifier to be removed, got:\n%s", text)
	}
	if !strings.Contains(text, "bar") {
		t.Errorf("expected value specifier to survive, got:\n%s", text)
	}
	if !strings.Contains(text, "./mixed") {
		t.Errorf("expected source to survive, got:\n%s", text)
	}
}

func TestStripLeavesNonTypeImportsUntouched(t *testing.T) {
	original := "import { a, b } from './ab';\n"
	ast, src := parseOrFail(t, original)
	out := StripTypeOnlyImports(ast, src)

	if string(out) != original {
		t.Errorf("expected untouched output, got:\n%s", out)
	}
}
