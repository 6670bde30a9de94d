package parser

import (
	"testing"
)

func TestNodeWalkVisitsAllDescendants(t *testing.T) {
	p, err := NewParser()
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}
	defer p.Close()

	code := "import { a, b } from './mod';\nfunction f() { return a + b; }"
	ast, err := p.ParseFile("test.ts", []byte(code))
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	defer ast.Close()

	var types []string
	ast.Root.Walk(func(n *Node) bool {
		types = append(types, n.Type())
		return true
	})

	if len(types) < 3 {
		t.Errorf("expected a non-trivial node count, got %d", len(types))
	}
	if types[0] != "program" {
		t.Errorf("expected root type 'program', got %s", types[0])
	}
}

func TestNodeByteOffsetsCoverSource(t *testing.T) {
	p, err := NewParser()
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}
	defer p.Close()

	code := []byte(`import x from './x';`)
	ast, err := p.ParseFile("test.ts", code)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	defer ast.Close()

	if ast.Root.StartByte() != 0 {
		t.Errorf("expected root to start at byte 0, got %d", ast.Root.StartByte())
	}
	if ast.Root.EndByte() != uint32(len(code)) {
		t.Errorf("expected root to end at byte %d, got %d", len(code), ast.Root.EndByte())
	}
}

func TestNodeParentNavigatesUpward(t *testing.T) {
	p, err := NewParser()
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}
	defer p.Close()

	ast, err := p.ParseFile("test.ts", []byte(`const x = 1;`))
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	defer ast.Close()

	var deepest *Node
	ast.Root.Walk(func(n *Node) bool {
		deepest = n
		return true
	})

	if deepest == nil {
		t.Fatal("walk produced no nodes")
	}

	seenRoot := false
	for cur := deepest; cur != nil; cur = cur.Parent() {
		if cur.Type() == "program" {
			seenRoot = true
			break
		}
	}
	if !seenRoot {
		t.Error("expected walking Parent() from a leaf to reach the program root")
	}
}

func TestChildByFieldNameOnImport(t *testing.T) {
	p, err := NewParser()
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}
	defer p.Close()

	ast, err := p.ParseFile("test.ts", []byte(`import x from './x';`))
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	defer ast.Close()

	var importNode *Node
	ast.Root.Walk(func(n *Node) bool {
		if n.Type() == "import_statement" {
			importNode = n
			return false
		}
		return true
	})

	if importNode == nil {
		t.Fatal("expected to find an import_statement node")
	}
	src := importNode.ChildByFieldName("source")
	if src == nil {
		t.Fatal("expected import_statement to have a source field")
	}
	if src.Text() != "'./x'" {
		t.Errorf("expected source text \"'./x'\", got %q", src.Text())
	}
}
