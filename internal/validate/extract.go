// Package validate scores how well a commit's declared intent matches its
// actual file changes. Everything here is a pure function over commit
// metadata and diffs; a low score is a result, never an error.
package validate

import (
	"regexp"
	"sort"
	"strings"
)

// filePattern matches name.ext shaped tokens: path characters, a literal
// dot, then a short extension.
var filePattern = regexp.MustCompile(`[A-Za-z0-9_\-/.]*[A-Za-z0-9_\-]\.[A-Za-z0-9_]{1,10}\b`)

// cuePattern matches a path-shaped token introduced by an explicit verb cue,
// catching references the token pass misses between markup or punctuation.
var cuePattern = regexp.MustCompile(`(?i)\b(?:file|modify|modified|update|updated|change|changed|create|created)\s+` + "`?" + `([A-Za-z0-9_\-./]+)`)

// ExtractFiles scans free text for file references. Two passes: a token
// pattern for anything extension-shaped, and a contextual pattern for paths
// named right after a verb cue. URLs are excluded, results deduplicated in
// first-seen order.
func ExtractFiles(texts ...string) []string {
	seen := make(map[string]struct{})
	var out []string

	add := func(match string) {
		match = strings.Trim(match, ".,;:!?`'\"()")
		match = strings.TrimPrefix(match, "./")
		if match == "" || !strings.Contains(match, ".") {
			return
		}
		if _, ok := seen[match]; ok {
			return
		}
		seen[match] = struct{}{}
		out = append(out, match)
	}

	for _, text := range texts {
		for _, token := range strings.Fields(text) {
			if strings.Contains(token, "://") {
				continue
			}
			for _, m := range filePattern.FindAllString(token, -1) {
				add(m)
			}
		}
		for _, m := range cuePattern.FindAllStringSubmatch(text, -1) {
			if strings.Contains(m[1], "://") {
				continue
			}
			add(m[1])
		}
	}

	return out
}

// matchesPath reports whether an extracted reference names the given
// repository path: exact, or as its trailing path suffix.
func matchesPath(ref, path string) bool {
	if ref == path {
		return true
	}
	return strings.HasSuffix(path, "/"+ref)
}

// intersect splits actual paths and expected references into matched and
// unmatched sets.
func intersect(expected, actual []string) (matched, missing, unexpected []string) {
	usedActual := make(map[string]struct{})

	for _, ref := range expected {
		found := false
		for _, path := range actual {
			if matchesPath(ref, path) {
				usedActual[path] = struct{}{}
				found = true
			}
		}
		if found {
			matched = append(matched, ref)
		} else {
			missing = append(missing, ref)
		}
	}

	for _, path := range actual {
		if _, ok := usedActual[path]; !ok {
			unexpected = append(unexpected, path)
		}
	}

	sort.Strings(missing)
	sort.Strings(unexpected)
	return matched, missing, unexpected
}
