// Package pipeline is the incremental indexing pipeline: filesystem
// discovery, fingerprint-based skip detection, parallel extraction,
// relational/inverted/vector projection writes, edge resolution, and the
// post-pass centrality/clustering recompute described in spec.md
// section 4.3.
package pipeline

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// defaultExcludes mirrors the conventional "never index these" directories;
// callers can extend the list through ScanRoot's extraExcludes argument.
var defaultExcludes = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/vendor/**",
	"**/.codelens/**",
	"**/dist/**",
	"**/build/**",
	"**/.venv/**",
	"**/__pycache__/**",
	"**/target/**",
}

// ScanRoot walks root and returns every regular file path whose extension
// is recognized by internal/extract and that doesn't match an exclusion
// glob. Dot-directories (other than the root itself) are skipped outright,
// matching the convention the exclusion globs would otherwise have to spell
// out one by one.
func ScanRoot(root string, extraExcludes []string, isSupported func(path string) bool) ([]string, error) {
	excludes := append(append([]string{}, defaultExcludes...), extraExcludes...)

	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		if matchesAny(excludes, rel) {
			return nil
		}
		if !isSupported(path) {
			return nil
		}
		out = append(out, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func matchesAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}

// fileStat returns the (mtime_ns, size_bytes) fingerprint components for a
// file, or an error if it cannot be stat'd.
func fileStat(path string) (mtimeNS int64, sizeBytes int64, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, 0, err
	}
	return info.ModTime().UnixNano(), info.Size(), nil
}
