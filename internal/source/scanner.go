package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Expand turns the user's inputs into statement files. Each input may be a
// file, a directory (walked for *.csv) or a glob pattern. Comma-separated
// entries are split. Order is preserved and duplicates are dropped.
//
// Inputs that match nothing are returned as-is so that reading them fails
// with a per-file error instead of disappearing silently.
func Expand(inputs []string) []DiscoveredFile {
	seen := make(map[string]struct{})
	var files []DiscoveredFile

	add := func(path string) {
		clean := filepath.Clean(path)
		if _, ok := seen[clean]; ok {
			return
		}
		seen[clean] = struct{}{}
		files = append(files, DiscoveredFile{Path: clean})
	}

	for _, in := range splitInputs(inputs) {
		info, err := os.Stat(in)
		switch {
		case err == nil && info.IsDir():
			for _, p := range scanDir(in) {
				add(p)
			}
		case err == nil:
			add(in)
		case hasGlobMeta(in):
			matches, _ := filepath.Glob(in)
			if len(matches) == 0 {
				add(in)
			}
			sort.Strings(matches)
			for _, m := range matches {
				add(m)
			}
		default:
			add(in)
		}
	}
	return files
}

// scanDir returns every .csv file under dir in lexical order.
func scanDir(dir string) []string {
	var paths []string
	_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".csv") {
			paths = append(paths, path)
		}
		return nil
	})
	return paths
}

func splitInputs(inputs []string) []string {
	var out []string
	for _, in := range inputs {
		for _, part := range strings.Split(in, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func hasGlobMeta(path string) bool {
	return strings.ContainsAny(path, "*?[")
}
