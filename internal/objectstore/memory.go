package objectstore

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kvassbo/mnemo/internal/models"
)

// MemStore is an in-memory Store used by tests. It mirrors GitStore's
// semantics (content-addressed commits, prefix resolution, parent walking)
// without needing a git binary.
type MemStore struct {
	mu       sync.Mutex
	blobs    map[string][]byte
	commits  map[string]*memCommit
	branches map[string]string
}

type memCommit struct {
	tree   Tree
	meta   Metadata
	parent string
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		blobs:    make(map[string][]byte),
		commits:  make(map[string]*memCommit),
		branches: make(map[string]string),
	}
}

// CreateCommit stores blobs and the commit record, returning a deterministic
// content-addressed id.
func (s *MemStore) CreateCommit(entries []Entry, meta Metadata, parentID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tree := make(Tree, len(entries))
	for _, e := range entries {
		if e.Hash != "" {
			if _, ok := s.blobs[e.Hash]; !ok {
				return "", fmt.Errorf("unknown blob %s for %s", e.Hash, e.Path)
			}
			tree[e.Path] = e.Hash
			continue
		}

		content, err := os.ReadFile(e.File)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", e.File, err)
		}
		hash := s.HashContent(content)
		s.blobs[hash] = content
		tree[e.Path] = hash
	}

	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}

	id := commitID(tree, meta, parentID)
	s.commits[id] = &memCommit{tree: tree, meta: meta, parent: parentID}
	return id, nil
}

func commitID(tree Tree, meta Metadata, parentID string) string {
	paths := make([]string, 0, len(tree))
	for p := range tree {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|", parentID, meta.Timestamp.Format(time.RFC3339Nano), EncodeMessage(meta))
	for _, p := range paths {
		fmt.Fprintf(h, "%s=%s|", p, tree[p])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// GetCommit returns the tree, metadata and parent of a commit.
func (s *MemStore) GetCommit(id string) (Tree, *Metadata, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	full, err := s.resolveLocked(id)
	if err != nil {
		return nil, nil, "", err
	}

	c := s.commits[full]
	tree := make(Tree, len(c.tree))
	for p, h := range c.tree {
		tree[p] = h
	}
	meta := c.meta
	return tree, &meta, c.parent, nil
}

// ResolveCommit resolves a full id or unique prefix.
func (s *MemStore) ResolveCommit(ref string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveLocked(ref)
}

func (s *MemStore) resolveLocked(ref string) (string, error) {
	if _, ok := s.commits[ref]; ok {
		return ref, nil
	}

	match := ""
	if len(ref) >= 4 {
		for id := range s.commits {
			if strings.HasPrefix(id, ref) {
				if match != "" {
					return "", &CommitNotFoundError{Ref: ref}
				}
				match = id
			}
		}
	}
	if match == "" {
		return "", &CommitNotFoundError{Ref: ref}
	}
	return match, nil
}

// Ancestry walks parent links from id, newest first.
func (s *MemStore) Ancestry(id string, limit int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.resolveLocked(id)
	if err != nil {
		return nil, err
	}

	var out []string
	for cur != "" {
		out = append(out, cur)
		if limit > 0 && len(out) >= limit {
			break
		}
		c, ok := s.commits[cur]
		if !ok {
			break
		}
		cur = c.parent
	}
	return out, nil
}

// Diff compares two commits' trees. An empty a means the empty tree.
func (s *MemStore) Diff(a, b string) ([]models.FileChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	treeA := Tree{}
	if a != "" {
		full, err := s.resolveLocked(a)
		if err != nil {
			return nil, err
		}
		treeA = s.commits[full].tree
	}

	fullB, err := s.resolveLocked(b)
	if err != nil {
		return nil, err
	}
	treeB := s.commits[fullB].tree

	paths := make(map[string]struct{})
	for p := range treeA {
		paths[p] = struct{}{}
	}
	for p := range treeB {
		paths[p] = struct{}{}
	}

	sorted := make([]string, 0, len(paths))
	for p := range paths {
		sorted = append(sorted, p)
	}
	sort.Strings(sorted)

	var changes []models.FileChange
	for _, p := range sorted {
		ha, inA := treeA[p]
		hb, inB := treeB[p]

		switch {
		case !inA:
			content := s.blobs[hb]
			changes = append(changes, models.FileChange{
				Path:       p,
				ChangeType: models.ChangeAdded,
				Additions:  countLines(content),
				DiffText:   renderDiff(nil, content),
			})
		case !inB:
			content := s.blobs[ha]
			changes = append(changes, models.FileChange{
				Path:       p,
				ChangeType: models.ChangeDeleted,
				Deletions:  countLines(content),
				DiffText:   renderDiff(content, nil),
			})
		case ha != hb:
			oldC, newC := s.blobs[ha], s.blobs[hb]
			changes = append(changes, models.FileChange{
				Path:       p,
				ChangeType: models.ChangeModified,
				Additions:  countLines(newC),
				Deletions:  countLines(oldC),
				DiffText:   renderDiff(oldC, newC),
			})
		}
	}
	return changes, nil
}

func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	return strings.Count(strings.TrimRight(string(content), "\n"), "\n") + 1
}

func renderDiff(oldC, newC []byte) string {
	var b strings.Builder
	if len(oldC) > 0 {
		for _, line := range strings.Split(strings.TrimRight(string(oldC), "\n"), "\n") {
			b.WriteString("-" + line + "\n")
		}
	}
	if len(newC) > 0 {
		for _, line := range strings.Split(strings.TrimRight(string(newC), "\n"), "\n") {
			b.WriteString("+" + line + "\n")
		}
	}
	return b.String()
}

// Checkout writes the commit's files under dir.
func (s *MemStore) Checkout(id, dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	full, err := s.resolveLocked(id)
	if err != nil {
		return err
	}

	for p, hash := range s.commits[full].tree {
		target := filepath.Join(dir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("restore %s: %w", p, err)
		}
		if err := os.WriteFile(target, s.blobs[hash], 0644); err != nil {
			return fmt.Errorf("restore %s: %w", p, err)
		}
	}
	return nil
}

// CreateBranch points a branch ref at a commit.
func (s *MemStore) CreateBranch(name, fromID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	full, err := s.resolveLocked(fromID)
	if err != nil {
		return err
	}
	s.branches[name] = full
	return nil
}

// DeleteBranch removes a branch ref.
func (s *MemStore) DeleteBranch(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.branches[name]; !ok {
		return fmt.Errorf("branch not found: %s", name)
	}
	delete(s.branches, name)
	return nil
}

// ListBranches returns branch name -> commit id.
func (s *MemStore) ListBranches() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]string, len(s.branches))
	for n, id := range s.branches {
		out[n] = id
	}
	return out, nil
}

// HashContent hashes blob content the way this store addresses blobs.
func (s *MemStore) HashContent(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:])
}
