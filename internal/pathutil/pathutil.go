// Package pathutil provides the path join/normalize/canonicalize primitives
// the resolver and alias matcher build on. Every operation here is a thin
// wrapper over path/filepath; no pack library does this better than the
// standard library.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// Join joins path segments relative to base and cleans the result,
// resolving "." and ".." components.
func Join(base string, segments ...string) string {
	parts := append([]string{base}, segments...)
	return filepath.Clean(filepath.Join(parts...))
}

// IsRelative reports whether a request string is a relative or explicit
// same-directory/parent-directory specifier ("./x", "../x") as opposed to a
// bare package specifier ("react") or an absolute path.
func IsRelative(request string) bool {
	if request == "" {
		return false
	}
	if request[0] == '.' {
		return true
	}
	return false
}

// Canonicalize resolves symlinks and collapses redundant path components.
// A non-existent path is reported as os.ErrNotExist so callers can treat it
// as a plain resolution miss rather than an unexpected I/O error.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", os.ErrNotExist
		}
		return "", err
	}
	return real, nil
}

// Shorten rewrites an absolute path to be relative to base, for display
// purposes. If the path is not under base, it is returned unchanged.
func Shorten(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path names an existing directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Ext returns the file extension of path, including the leading dot, or
// the empty string if path has none.
func Ext(path string) string {
	return filepath.Ext(path)
}

// Dir returns the directory portion of path.
func Dir(path string) string {
	return filepath.Dir(path)
}

// ContainsSegment reports whether path contains the named path segment as
// a whole component (e.g. "node_modules").
func ContainsSegment(path, segment string) bool {
	sep := string(filepath.Separator)
	padded := sep + filepath.ToSlash(path) + sep
	padded = strings.ReplaceAll(padded, "/", sep)
	needle := sep + segment + sep
	return strings.Contains(padded, needle)
}
