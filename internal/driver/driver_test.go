package driver

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
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

func newTestDriver(t *testing.T, opts Options) *Driver {
	t.Helper()
	ResetProcessCache()
	if opts.Extensions == nil {
		opts.Extensions = []string{".ts", ".tsx", ".js"}
	}
	if opts.JS == nil {
		opts.JS = []string{".ts", ".tsx", ".js"}
	}
	d, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

func TestDriveFollowsRelativeImportChain(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.ts"), `import { b } from './b';`)
	writeFile(t, filepath.Join(dir, "b.ts"), `export const b = 1;`)

	d := newTestDriver(t, Options{Context: dir, CollectSymbols: true})
	d.Run([]string{"./a"})

	snap := d.tree.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 modules in the tree, got %d: %#v", len(snap), snap)
	}

	aID, ok, err := d.resolver.Resolve(dir, "./a")
	if err != nil || !ok {
		t.Fatalf("resolving ./a: ok=%v err=%v", ok, err)
	}
	entry, ok := snap[aID]
	if !ok || !entry.Present {
		t.Fatalf("expected a.ts entry to be present, got %#v", entry)
	}
	if len(entry.Deps) != 1 || entry.Deps[0].ID == nil {
		t.Fatalf("expected a.ts's single dependency to resolve, got %#v", entry.Deps)
	}
}

func TestDriveMemoizesRepeatedVisits(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.ts"), `import { c } from './c'; import { c2 } from './c';`)
	writeFile(t, filepath.Join(dir, "c.ts"), `export const c = 1; export const c2 = 2;`)

	d := newTestDriver(t, Options{Context: dir})
	d.Run([]string{"./a"})

	if len(d.tree.Snapshot()) != 2 {
		t.Fatalf("expected exactly 2 modules despite two edges to c.ts, got %d", len(d.tree.Snapshot()))
	}
}

func TestDriveInstallsAbsentEntryForExcludedModule(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.ts"), `import { b } from './b';`)
	writeFile(t, filepath.Join(dir, "b.ts"), `export const b = 1;`)

	excludeAll := regexp.MustCompile(`.*b\.ts$`)
	d := newTestDriver(t, Options{Context: dir, Exclude: excludeAll})
	d.Run([]string{"./a"})

	bID, ok, err := d.resolver.Resolve(dir, "./b")
	if err != nil || !ok {
		t.Fatalf("resolving ./b: ok=%v err=%v", ok, err)
	}
	entry, ok := d.tree.Get(bID)
	if !ok {
		t.Fatalf("expected b.ts to be installed (even if absent)")
	}
	if entry.Present {
		t.Fatalf("expected b.ts's entry to be absent, got %#v", entry)
	}
}

func TestDriveExtensionGateRecordsEmptyDeps(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.ts"), `import './style';`)
	writeFile(t, filepath.Join(dir, "style.css"), `body {}`)

	d := newTestDriver(t, Options{Context: dir, Extensions: []string{".ts", ".css"}, JS: []string{".ts"}})
	d.Run([]string{"./a"})

	cssID, ok, err := d.resolver.Resolve(dir, "./style")
	if err != nil || !ok {
		t.Fatalf("resolving ./style.css: ok=%v err=%v", ok, err)
	}
	entry, ok := d.tree.Get(cssID)
	if !ok || !entry.Present {
		t.Fatalf("expected style.css to be present with empty deps, got %#v", entry)
	}
	if len(entry.Deps) != 0 {
		t.Errorf("expected no dependencies recorded for a non-JS module, got %#v", entry.Deps)
	}
}

func TestDrivePrunesNodeModulesDependencies(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.ts"), `import { z } from 'left-pad';`)
	writeFile(t, filepath.Join(dir, "node_modules", "left-pad", "index.ts"), `export const z = 1;`)

	d := newTestDriver(t, Options{Context: dir})
	d.Run([]string{"./a"})

	aID, ok, err := d.resolver.Resolve(dir, "./a")
	if err != nil || !ok {
		t.Fatalf("resolving ./a: ok=%v err=%v", ok, err)
	}
	entry, _ := d.tree.Get(aID)
	if len(entry.Deps) != 0 {
		t.Errorf("expected the node_modules dependency to be pruned from a.ts's edge list, got %#v", entry.Deps)
	}
}

func TestDriveUsesProcessCacheAcrossDrivers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.ts"), `import { b } from './b';`)
	writeFile(t, filepath.Join(dir, "b.ts"), `export const b = 1;`)

	d1 := newTestDriver(t, Options{Context: dir})
	d1.Run([]string{"./a"})

	bID, _, _ := d1.resolver.Resolve(dir, "./b")

	// Rewrite b.ts to add a dependency that does not exist on disk. If
	// d2 re-parsed b.ts instead of hitting the process cache, resolving
	// this new edge would fail and the entry would differ from d1's.
	// b.ts is driven directly: a cache hit on a.ts installs a.ts alone and
	// does not descend into its dependencies.
	writeFile(t, filepath.Join(dir, "b.ts"), `import { c } from './c-does-not-exist'; export const b = 1;`)

	d2, err := New(Options{Context: dir, Extensions: []string{".ts"}, JS: []string{".ts"}})
	if err != nil {
		t.Fatal(err)
	}
	d2.Run([]string{"./b"})

	entry, ok := d2.tree.Get(bID)
	if !ok || !entry.Present {
		t.Fatalf("expected b.ts to be served from the process-wide cache, got ok=%v entry=%#v", ok, entry)
	}
	if len(entry.Deps) != 0 {
		t.Errorf("expected b.ts's cached (stale) dependency list with no edges, got %#v", entry.Deps)
	}
}

func TestDriveMissingEntryResolvesToNil(t *testing.T) {
	dir := t.TempDir()
	d := newTestDriver(t, Options{Context: dir})
	d.Run([]string{"./does-not-exist"})

	if len(d.tree.Snapshot()) != 0 {
		t.Errorf("expected nothing installed for an unresolvable entry, got %#v", d.tree.Snapshot())
	}
}
