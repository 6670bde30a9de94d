// Package resolve turns a (context, request) pair into a canonical module
// identifier using extension probing and alias rewriting. It is grounded
// on the teacher's internal/analyzer.ModuleResolver.Resolve, generalized
// with a node_modules ancestor-walk fallback for bare specifiers (the
// teacher's resolver treats any non-alias bare import as an external
// package and gives up; dpdm must still locate it on disk when possible)
// and a bounded per-Resolver cache (github.com/hashicorp/golang-lru/v2) of
// (context, request) results. The process-wide module cache lives in
// internal/driver, not here.
package resolve

import (
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rautio/react-analyzer/internal/alias"
	"github.com/rautio/react-analyzer/internal/pathutil"
)

// Resolver resolves import requests against a fixed extension list and
// optional alias table, memoizing results in a bounded LRU cache shared
// across concurrent callers.
type Resolver struct {
	extensions []string
	alias      *alias.Alias
	cache      *lru.Cache[cacheKey, cacheEntry]
}

type cacheKey struct {
	context string
	request string
}

type cacheEntry struct {
	id string
	ok bool
}

// New builds a Resolver. alias may be nil when no tsconfig was supplied.
// cacheSize bounds the number of distinct (context, request) pairs kept
// in memory; 0 selects a sensible default.
func New(extensions []string, al *alias.Alias, cacheSize int) (*Resolver, error) {
	if cacheSize <= 0 {
		cacheSize = 4096
	}
	c, err := lru.New[cacheKey, cacheEntry](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Resolver{extensions: withAsIs(extensions), alias: al, cache: c}, nil
}

// withAsIs prepends the empty-string extension to extensions, unless it is
// already present. Per spec §3, the extension list is probed in order and
// must include "" to mean "match the candidate as written" (original_source
// main.rs does extensions.insert(0, String::from("")) for this same
// reason) — without it, a request that already carries its own suffix
// (e.g. the CLI's own `dpdm src/index.ts`, or `import './x.ts'`) never
// probes its literal path and is reported as unresolved.
func withAsIs(extensions []string) []string {
	for _, ext := range extensions {
		if ext == "" {
			return extensions
		}
	}
	return append([]string{""}, extensions...)
}

// Resolve implements spec §4.C: relative/absolute requests join directly
// with context; bare requests consult the alias table in declaration
// order, then fall back to a node_modules ancestor walk. The winning
// candidate is probed against the configured extension list and
// canonicalized. A resolution miss returns (\"\", false, nil), never an
// error; only unexpected I/O failures return a non-nil error.
func (r *Resolver) Resolve(context, request string) (string, bool, error) {
	key := cacheKey{context: context, request: request}
	if entry, ok := r.cache.Get(key); ok {
		return entry.id, entry.ok, nil
	}

	id, ok, err := r.resolveUncached(context, request)
	if err != nil {
		return "", false, err
	}
	r.cache.Add(key, cacheEntry{id: id, ok: ok})
	return id, ok, nil
}

func (r *Resolver) resolveUncached(context, request string) (string, bool, error) {
	var candidate string

	switch {
	case pathutil.IsRelative(request):
		candidate = pathutil.Join(context, request)
	case filepath.IsAbs(request):
		candidate = filepath.Clean(request)
	default:
		// Each replacement is checked on disk with every configured
		// extension appended, so "@/util" reaches "src/util.ts" through
		// "@/*" -> "src/*". Patterns and replacements keep declaration order.
		if r.alias != nil {
		search:
			for _, pattern := range r.alias.Keys {
				for _, replacement := range r.alias.Paths[pattern] {
					for _, ext := range r.extensions {
						if aliased, ok := alias.MatchAliasPattern(request, r.alias.Root, pattern, replacement+ext); ok {
							candidate = aliased
							break search
						}
					}
				}
			}
		}
		if candidate != "" {
			break
		}
		nmCandidate, ok := resolveNodeModules(context, request)
		if !ok {
			return "", false, nil
		}
		candidate = nmCandidate
	}

	winner, ok := probe(candidate, r.extensions)
	if !ok {
		return "", false, nil
	}

	canon, err := pathutil.Canonicalize(winner)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return canon, true, nil
}

// probe tests candidate+ext for each configured extension, then (if
// candidate names a directory) candidate/index+ext, moving to the next
// extension only after both forms have been tried.
func probe(candidate string, extensions []string) (string, bool) {
	if len(extensions) == 0 {
		extensions = []string{""}
	}

	isDir := pathutil.IsDir(candidate)

	for _, ext := range extensions {
		direct := candidate + ext
		if pathutil.Exists(direct) && !pathutil.IsDir(direct) {
			return direct, true
		}
		if isDir {
			indexed := filepath.Join(candidate, "index"+ext)
			if pathutil.Exists(indexed) && !pathutil.IsDir(indexed) {
				return indexed, true
			}
		}
	}
	return "", false
}

// resolveNodeModules walks context and its ancestors looking for a
// node_modules directory containing request, as Node's CommonJS resolver
// does for bare package specifiers.
func resolveNodeModules(context, request string) (string, bool) {
	dir := context
	for {
		nm := filepath.Join(dir, "node_modules", request)
		if pathutil.Exists(nm) {
			return nm, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
