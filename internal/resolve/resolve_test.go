package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rautio/react-analyzer/internal/alias"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveRelativeWithExtensionProbe(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "util.ts"), "export const x = 1;")

	r, err := New([]string{".ts", ".tsx"}, nil, 0)
	if err != nil {
		t.Fatal(err)
	}

	id, ok, err := r.Resolve(dir, "./util")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected resolution to succeed")
	}
	want, _ := filepath.EvalSymlinks(filepath.Join(dir, "util.ts"))
	if id != want {
		t.Errorf("got %q, want %q", id, want)
	}
}

func TestResolveDirectoryIndex(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "mod", "index.ts"), "export const y = 1;")

	r, err := New([]string{".ts"}, nil, 0)
	if err != nil {
		t.Fatal(err)
	}

	id, ok, err := r.Resolve(dir, "./mod")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected resolution to succeed via index file")
	}
	want, _ := filepath.EvalSymlinks(filepath.Join(dir, "mod", "index.ts"))
	if id != want {
		t.Errorf("got %q, want %q", id, want)
	}
}

func TestResolveMissReturnsNoError(t *testing.T) {
	dir := t.TempDir()
	r, err := New([]string{".ts"}, nil, 0)
	if err != nil {
		t.Fatal(err)
	}

	id, ok, err := r.Resolve(dir, "./nope")
	if err != nil {
		t.Fatalf("expected nil error on miss, got %v", err)
	}
	if ok || id != "" {
		t.Errorf("expected a clean miss, got id=%q ok=%v", id, ok)
	}
}

func TestResolveViaAlias(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "util.ts"), "export const z = 1;")

	al := &alias.Alias{
		Root: dir,
		Keys: []string{"@/*"},
		Paths: map[string][]string{
			"@/*": {"./src/*"},
		},
	}

	r, err := New([]string{".ts"}, al, 0)
	if err != nil {
		t.Fatal(err)
	}

	id, ok, err := r.Resolve(dir, "@/util")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected alias resolution to succeed")
	}
	want, _ := filepath.EvalSymlinks(filepath.Join(dir, "src", "util.ts"))
	if id != want {
		t.Errorf("got %q, want %q", id, want)
	}
}

func TestResolveBareSpecifierViaNodeModules(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "node_modules", "left-pad", "index.js"), "module.exports = 1;")

	r, err := New([]string{".js"}, nil, 0)
	if err != nil {
		t.Fatal(err)
	}

	id, ok, err := r.Resolve(dir, "left-pad")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected node_modules fallback to resolve the package")
	}
	want, _ := filepath.EvalSymlinks(filepath.Join(dir, "node_modules", "left-pad", "index.js"))
	if id != want {
		t.Errorf("got %q, want %q", id, want)
	}
}

func TestResolveBareSpecifierWalksAncestors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "node_modules", "dep", "index.js"), "module.exports = 1;")
	sub := filepath.Join(dir, "src", "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	r, err := New([]string{".js"}, nil, 0)
	if err != nil {
		t.Fatal(err)
	}

	id, ok, err := r.Resolve(sub, "dep")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected ancestor node_modules walk to find the package")
	}
	want, _ := filepath.EvalSymlinks(filepath.Join(dir, "node_modules", "dep", "index.js"))
	if id != want {
		t.Errorf("got %q, want %q", id, want)
	}
}

func TestResolveRelativeWithExplicitExtensionMatchesAsIs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "util.ts"), "export const x = 1;")

	r, err := New([]string{".ts", ".tsx"}, nil, 0)
	if err != nil {
		t.Fatal(err)
	}

	id, ok, err := r.Resolve(dir, "./util.ts")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected a request already carrying its extension to resolve as-is")
	}
	want, _ := filepath.EvalSymlinks(filepath.Join(dir, "util.ts"))
	if id != want {
		t.Errorf("got %q, want %q", id, want)
	}
}

func TestResolveCachesResults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "util.ts"), "export const x = 1;")

	r, err := New([]string{".ts"}, nil, 0)
	if err != nil {
		t.Fatal(err)
	}

	id1, ok1, _ := r.Resolve(dir, "./util")
	id2, ok2, _ := r.Resolve(dir, "./util")
	if !ok1 || !ok2 || id1 != id2 {
		t.Errorf("expected repeated resolution to hit the cache consistently: %q/%v %q/%v", id1, ok1, id2, ok2)
	}
}
