// Package resolver maintains the working definition of "files under memory":
// it expands candidate paths against the ignore rules and classifies each as
// untracked, tracked-modified or tracked-unmodified relative to the branch
// head. Pure classification over on-disk state and history; no side effects.
package resolver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kvassbo/mnemo/internal/objectstore"
)

// InvalidPathError indicates a candidate path that escapes the project root.
type InvalidPathError struct {
	Path string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path outside project root: %s", e.Path)
}

// PathNotFoundError indicates a candidate path that does not exist on disk.
type PathNotFoundError struct {
	Path string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("path not found: %s", e.Path)
}

// Classification is the three-way split of candidate paths.
type Classification struct {
	Untracked         []string
	TrackedModified   []string
	TrackedUnmodified []string
}

// Resolver classifies project paths.
type Resolver struct {
	root   string
	ignore *Ignore
	hash   func([]byte) string
}

// New creates a resolver for the given project root. hash must be the object
// store's content hash so on-disk files compare against tree entries.
func New(root string, ignore *Ignore, hash func([]byte) string) *Resolver {
	return &Resolver{root: root, ignore: ignore, hash: hash}
}

// Rel converts a candidate path (absolute or project-relative) to a
// slash-separated path relative to the project root. Candidates escaping the
// root fail with InvalidPathError.
func (r *Resolver) Rel(candidate string) (string, error) {
	abs := candidate
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(r.root, candidate)
	}
	abs = filepath.Clean(abs)

	rel, err := filepath.Rel(r.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &InvalidPathError{Path: candidate}
	}
	return filepath.ToSlash(rel), nil
}

// Abs returns the absolute on-disk path for a project-relative path.
func (r *Resolver) Abs(rel string) string {
	return filepath.Join(r.root, filepath.FromSlash(rel))
}

// Expand resolves candidates into project-relative file paths, walking
// directories and silently dropping ignored paths. The memory store itself
// and any nested VCS directory are always skipped; the ignore file is never
// dropped by its own rules.
func (r *Resolver) Expand(candidates []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string

	add := func(rel string) {
		if _, ok := seen[rel]; ok {
			return
		}
		seen[rel] = struct{}{}
		out = append(out, rel)
	}

	for _, candidate := range candidates {
		rel, err := r.Rel(candidate)
		if err != nil {
			return nil, err
		}

		abs := r.Abs(rel)
		info, err := os.Stat(abs)
		if err != nil {
			return nil, &PathNotFoundError{Path: candidate}
		}

		if !info.IsDir() {
			if rel != ".mnemoignore" && r.ignore.Match(rel) {
				continue
			}
			add(rel)
			continue
		}

		walkErr := filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			sub, rerr := r.Rel(path)
			if rerr != nil {
				return rerr
			}

			if d.IsDir() {
				name := d.Name()
				if name == ".mnemo" || name == ".git" {
					return filepath.SkipDir
				}
				return nil
			}

			if sub != ".mnemoignore" && r.ignore.Match(sub) {
				return nil
			}
			add(sub)
			return nil
		})
		if walkErr != nil {
			return nil, walkErr
		}
	}

	sort.Strings(out)
	return out, nil
}

// Resolve classifies candidates against the tracked set and the head tree.
// With no candidates, every tracked path is classified. Ignored paths are
// silently dropped from all three sets.
func (r *Resolver) Resolve(candidates []string, tracked []string, headTree objectstore.Tree) (*Classification, error) {
	trackedSet := make(map[string]struct{}, len(tracked))
	for _, p := range tracked {
		trackedSet[p] = struct{}{}
	}

	var paths []string
	if len(candidates) == 0 {
		paths = append(paths, tracked...)
	} else {
		// A named tracked file that is gone from disk is a deletion, not
		// a bad path; only the rest goes through Expand.
		deleted := make(map[string]struct{})
		var present []string
		for _, candidate := range candidates {
			rel, err := r.Rel(candidate)
			if err != nil {
				return nil, err
			}
			if _, serr := os.Stat(r.Abs(rel)); os.IsNotExist(serr) {
				if _, ok := trackedSet[rel]; ok {
					if _, dup := deleted[rel]; !dup {
						deleted[rel] = struct{}{}
						paths = append(paths, rel)
					}
					continue
				}
				return nil, &PathNotFoundError{Path: candidate}
			}
			present = append(present, candidate)
		}

		expanded, err := r.Expand(present)
		if err != nil {
			return nil, err
		}
		paths = append(paths, expanded...)
	}

	c := &Classification{}
	for _, rel := range paths {
		if rel != ".mnemoignore" && r.ignore.Match(rel) {
			continue
		}

		if _, ok := trackedSet[rel]; !ok {
			c.Untracked = append(c.Untracked, rel)
			continue
		}

		headHash, inHead := headTree[rel]

		content, err := os.ReadFile(r.Abs(rel))
		if err != nil {
			if os.IsNotExist(err) {
				// Tracked but gone from disk counts as modified:
				// the next snap records the deletion.
				c.TrackedModified = append(c.TrackedModified, rel)
				continue
			}
			return nil, fmt.Errorf("read %s: %w", rel, err)
		}

		if !inHead || r.hash(content) != headHash {
			c.TrackedModified = append(c.TrackedModified, rel)
		} else {
			c.TrackedUnmodified = append(c.TrackedUnmodified, rel)
		}
	}

	sort.Strings(c.Untracked)
	sort.Strings(c.TrackedModified)
	sort.Strings(c.TrackedUnmodified)
	return c, nil
}
