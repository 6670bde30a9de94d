// Package alias applies a tsconfig-style {pattern: [replacement]} table with
// single-"*" wildcards to resolve bare/prefixed import requests against a
// project root. It is grounded on the teacher's FindLongestMatchingAlias
// (internal/analyzer/config.go), generalized from prefix-only matching to
// the original dpdm's single-wildcard-anywhere-in-the-pattern semantics.
package alias

import (
	"regexp"
	"strings"
	"sync"

	"github.com/rautio/react-analyzer/internal/pathutil"
)

// Alias is a resolved alias table: a project root plus an ordered set of
// pattern -> replacement-list mappings. Keys preserves the declaration
// order from the source config file, since JSON object order is otherwise
// lost once decoded into a map.
type Alias struct {
	Root  string
	Keys  []string
	Paths map[string][]string
}

var (
	regexCache sync.Map // pattern string -> *regexp.Regexp
	matchCache sync.Map // cache key -> (string, bool)
)

type matchResult struct {
	path string
	ok   bool
}

func patternRegexp(pattern string) *regexp.Regexp {
	if cached, ok := regexCache.Load(pattern); ok {
		return cached.(*regexp.Regexp)
	}

	segments := strings.Split(pattern, "*")
	for i, seg := range segments {
		segments[i] = regexp.QuoteMeta(seg)
	}
	expr := "^" + strings.Join(segments, "(.*)") + "$"
	re := regexp.MustCompile(expr)

	actual, _ := regexCache.LoadOrStore(pattern, re)
	return actual.(*regexp.Regexp)
}

// MatchAliasPattern builds an anchored regular expression from pattern
// (escaping everything but a single "*", which becomes a capturing group),
// and if source matches, substitutes the captured segment into the lone
// "*" of replacement, joins with root, and returns the joined path only if
// it exists on disk. Results and compiled patterns are memoized for the
// life of the process.
func MatchAliasPattern(source, root, pattern, replacement string) (string, bool) {
	key := source + "|" + root + "|" + pattern + "|" + replacement
	if cached, ok := matchCache.Load(key); ok {
		r := cached.(matchResult)
		return r.path, r.ok
	}

	re := patternRegexp(pattern)
	m := re.FindStringSubmatch(source)
	if m == nil {
		matchCache.Store(key, matchResult{"", false})
		return "", false
	}

	var wildcard string
	if len(m) > 1 {
		wildcard = m[1]
	}

	transformed := strings.Replace(replacement, "*", wildcard, 1)
	full := pathutil.Join(root, transformed)

	if !pathutil.Exists(full) {
		matchCache.Store(key, matchResult{"", false})
		return "", false
	}

	matchCache.Store(key, matchResult{full, true})
	return full, true
}

// Resolve tries each (pattern -> replacements) entry of alias in
// declaration order; within an entry, replacements are tried in order.
// The first replacement that exists on disk wins.
func Resolve(a *Alias, source string) (string, bool) {
	if a == nil {
		return "", false
	}
	for _, pattern := range a.Keys {
		replacements := a.Paths[pattern]
		for _, replacement := range replacements {
			if path, ok := MatchAliasPattern(source, a.Root, pattern, replacement); ok {
				return path, true
			}
		}
	}
	return "", false
}

// ResetCaches clears the memoized regex and match-result caches. Exposed
// for test isolation; production callers never need it.
func ResetCaches() {
	regexCache = sync.Map{}
	matchCache = sync.Map{}
}
