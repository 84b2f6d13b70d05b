package resolver

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Ignore holds the project's ignore patterns: one glob per line, `#`
// comments, applied relative to the project root. `*`, `?` and `**` are
// supported; a trailing `/` restricts a pattern to directories.
type Ignore struct {
	patterns []string
}

// LoadIgnore reads the ignore file at path. A missing file yields an empty
// rule set.
func LoadIgnore(path string) (*Ignore, error) {
	ig := &Ignore{}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ig, nil
		}
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ig.patterns = append(ig.patterns, line)
	}
	return ig, sc.Err()
}

// NewIgnore builds a rule set from literal patterns (used by tests).
func NewIgnore(patterns ...string) *Ignore {
	return &Ignore{patterns: patterns}
}

// Match reports whether a project-relative path should be ignored. A file is
// ignored when the path itself or any of its parent directories matches a
// pattern.
func (ig *Ignore) Match(path string) bool {
	clean := filepath.ToSlash(filepath.Clean(path))
	segments := strings.Split(clean, "/")

	for _, pat := range ig.patterns {
		dirOnly := strings.HasSuffix(pat, "/")
		pat = strings.TrimSuffix(pat, "/")

		if strings.Contains(pat, "/") {
			// Anchored pattern: matching the whole path or any
			// directory prefix ignores everything beneath it.
			pats := strings.Split(pat, "/")
			limit := len(segments)
			if dirOnly {
				limit-- // the final segment is a file, not a directory
			}
			for i := 1; i <= limit; i++ {
				if matchSegments(pats, segments[:i]) {
					return true
				}
			}
			continue
		}

		// Bare pattern: match any path segment. Directory-only
		// patterns never match the final (file) segment.
		limit := len(segments)
		if dirOnly {
			limit--
		}
		for i := 0; i < limit; i++ {
			if ok, _ := filepath.Match(pat, segments[i]); ok {
				return true
			}
		}
	}
	return false
}

// matchSegments matches pattern segments against path segments, expanding
// `**` like git does.
func matchSegments(pats, parts []string) bool {
	for len(pats) > 0 {
		p := pats[0]
		pats = pats[1:]

		if p == "**" {
			if len(pats) == 0 {
				return true
			}
			for i := 0; i <= len(parts); i++ {
				if matchSegments(pats, parts[i:]) {
					return true
				}
			}
			return false
		}

		if len(parts) == 0 {
			return false
		}

		ok, _ := filepath.Match(p, parts[0])
		if !ok {
			return false
		}

		parts = parts[1:]
	}

	return len(parts) == 0
}
