package objectstore

import (
	"archive/tar"
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	godiff "github.com/sourcegraph/go-diff/diff"

	"github.com/kvassbo/mnemo/internal/models"
)

// emptyTreeID is git's well-known hash of the empty tree, used to diff a
// root commit against nothing.
const emptyTreeID = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"

const (
	gitAuthorName  = "mnemo"
	gitAuthorEmail = "mnemo@localhost"
)

// GitStore implements Store on top of a bare git repository. Every call
// shells out to git with an explicit --git-dir, so the project's own version
// history is never touched.
type GitStore struct {
	gitDir string
}

// NewGitStore returns a store for an existing bare repository.
func NewGitStore(gitDir string) *GitStore {
	return &GitStore{gitDir: gitDir}
}

// InitGitStore creates the bare repository if it does not exist.
func InitGitStore(gitDir string) (*GitStore, error) {
	if _, err := os.Stat(gitDir); os.IsNotExist(err) {
		cmd := exec.Command("git", "init", "--bare", "--quiet", gitDir)
		if out, err := cmd.CombinedOutput(); err != nil {
			return nil, fmt.Errorf("failed to init object store: %s: %w", strings.TrimSpace(string(out)), err)
		}
	}
	return &GitStore{gitDir: gitDir}, nil
}

// git runs a git command against the bare repository with optional stdin.
func (s *GitStore) git(stdin []byte, args ...string) ([]byte, error) {
	return s.gitEnv(stdin, nil, args...)
}

// gitEnv is git with extra environment variables appended.
func (s *GitStore) gitEnv(stdin []byte, env []string, args ...string) ([]byte, error) {
	full := append([]string{"--git-dir=" + s.gitDir}, args...)
	cmd := exec.Command("git", full...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME="+gitAuthorName,
		"GIT_AUTHOR_EMAIL="+gitAuthorEmail,
		"GIT_COMMITTER_NAME="+gitAuthorName,
		"GIT_COMMITTER_EMAIL="+gitAuthorEmail,
	)
	cmd.Env = append(cmd.Env, env...)

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(stderr.String()), err)
	}
	return stdout.Bytes(), nil
}

func parseISOTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, strings.TrimSpace(s))
}

// CreateCommit writes blobs for new content, assembles the tree and commits
// it. Blobs for all new files are written in a single hash-object call.
func (s *GitStore) CreateCommit(entries []Entry, meta Metadata, parentID string) (string, error) {
	blobs := make(map[string]string, len(entries))

	var toHash []Entry
	for _, e := range entries {
		if e.Hash != "" {
			blobs[e.Path] = e.Hash
		} else {
			toHash = append(toHash, e)
		}
	}

	if len(toHash) > 0 {
		var paths strings.Builder
		for _, e := range toHash {
			paths.WriteString(e.File)
			paths.WriteString("\n")
		}
		out, err := s.git([]byte(paths.String()), "hash-object", "-w", "--stdin-paths")
		if err != nil {
			return "", fmt.Errorf("write blobs: %w", err)
		}
		hashes := strings.Fields(string(out))
		if len(hashes) != len(toHash) {
			return "", fmt.Errorf("write blobs: expected %d hashes, got %d", len(toHash), len(hashes))
		}
		for i, e := range toHash {
			blobs[e.Path] = hashes[i]
		}
	}

	treeID, err := s.writeTree(blobs)
	if err != nil {
		return "", err
	}

	args := []string{"commit-tree", treeID}
	if parentID != "" {
		args = append(args, "-p", parentID)
	}

	// commit-tree honors the date env vars, not flags
	var env []string
	if !meta.Timestamp.IsZero() {
		date := meta.Timestamp.Format(time.RFC3339)
		env = []string{"GIT_AUTHOR_DATE=" + date, "GIT_COMMITTER_DATE=" + date}
	}

	out, err := s.gitEnv([]byte(EncodeMessage(meta)), env, args...)
	if err != nil {
		return "", fmt.Errorf("commit tree: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// writeTree builds nested tree objects bottom-up with mktree.
func (s *GitStore) writeTree(blobs map[string]string) (string, error) {
	type node struct {
		blobs map[string]string // name -> blob hash
		dirs  map[string]*node
	}
	newNode := func() *node {
		return &node{blobs: make(map[string]string), dirs: make(map[string]*node)}
	}

	root := newNode()
	for path, hash := range blobs {
		parts := strings.Split(path, "/")
		cur := root
		for _, part := range parts[:len(parts)-1] {
			child, ok := cur.dirs[part]
			if !ok {
				child = newNode()
				cur.dirs[part] = child
			}
			cur = child
		}
		cur.blobs[parts[len(parts)-1]] = hash
	}

	var write func(n *node) (string, error)
	write = func(n *node) (string, error) {
		var lines []string
		for name, hash := range n.blobs {
			lines = append(lines, fmt.Sprintf("100644 blob %s\t%s", hash, name))
		}
		for name, child := range n.dirs {
			sub, err := write(child)
			if err != nil {
				return "", err
			}
			lines = append(lines, fmt.Sprintf("040000 tree %s\t%s", sub, name))
		}
		sort.Strings(lines)

		out, err := s.git([]byte(strings.Join(lines, "\n")+"\n"), "mktree")
		if err != nil {
			return "", fmt.Errorf("mktree: %w", err)
		}
		return strings.TrimSpace(string(out)), nil
	}

	return write(root)
}

// GetCommit returns the tree, decoded metadata and parent id of a commit.
func (s *GitStore) GetCommit(id string) (Tree, *Metadata, string, error) {
	full, err := s.ResolveCommit(id)
	if err != nil {
		return nil, nil, "", err
	}

	out, err := s.git(nil, "log", "-1", "--pretty=format:%P%x00%aI%x00%B", full)
	if err != nil {
		return nil, nil, "", fmt.Errorf("read commit %s: %w", id, err)
	}

	fields := strings.SplitN(string(out), "\x00", 3)
	if len(fields) != 3 {
		return nil, nil, "", fmt.Errorf("unexpected log output for %s", id)
	}

	parent := ""
	if parents := strings.Fields(fields[0]); len(parents) > 0 {
		parent = parents[0]
	}

	meta := ParseMessage(fields[2])
	if ts, err := parseISOTime(fields[1]); err == nil {
		meta.Timestamp = ts
	}

	tree, err := s.lsTree(full)
	if err != nil {
		return nil, nil, "", err
	}
	return tree, &meta, parent, nil
}

func (s *GitStore) lsTree(id string) (Tree, error) {
	out, err := s.git(nil, "ls-tree", "-r", id)
	if err != nil {
		return nil, fmt.Errorf("ls-tree %s: %w", id, err)
	}

	tree := make(Tree)
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		// format: "<mode> <type> <hash>\t<path>"
		head, path, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		parts := strings.Fields(head)
		if len(parts) != 3 || parts[1] != "blob" {
			continue
		}
		tree[strings.Trim(path, `"`)] = parts[2]
	}
	return tree, nil
}

// ResolveCommit resolves a full or abbreviated id to a commit hash.
func (s *GitStore) ResolveCommit(ref string) (string, error) {
	out, err := s.git(nil, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	if err != nil || len(bytes.TrimSpace(out)) == 0 {
		return "", &CommitNotFoundError{Ref: ref}
	}
	return strings.TrimSpace(string(out)), nil
}

// Ancestry lists commit ids from id back toward the root, newest first.
func (s *GitStore) Ancestry(id string, limit int) ([]string, error) {
	full, err := s.ResolveCommit(id)
	if err != nil {
		return nil, err
	}

	args := []string{"rev-list"}
	if limit > 0 {
		args = append(args, "-n", strconv.Itoa(limit))
	}
	args = append(args, full)

	out, err := s.git(nil, args...)
	if err != nil {
		return nil, fmt.Errorf("rev-list %s: %w", id, err)
	}
	return strings.Fields(string(out)), nil
}

// Diff computes file changes from a to b. Change types come from
// --name-status; line counts and diff text come from the unified diff.
func (s *GitStore) Diff(a, b string) ([]models.FileChange, error) {
	if a == "" {
		a = emptyTreeID
	}

	out, err := s.git(nil, "diff", "--name-status", "--no-renames", a, b)
	if err != nil {
		return nil, fmt.Errorf("diff %s..%s: %w", a, b, err)
	}

	var changes []models.FileChange
	index := make(map[string]*models.FileChange)
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		status, path, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}

		var ct models.ChangeType
		switch status[0] {
		case 'A':
			ct = models.ChangeAdded
		case 'D':
			ct = models.ChangeDeleted
		default:
			ct = models.ChangeModified
		}
		changes = append(changes, models.FileChange{Path: path, ChangeType: ct})
		index[path] = &changes[len(changes)-1]
	}

	if len(changes) == 0 {
		return nil, nil
	}

	raw, err := s.git(nil, "diff", "--no-color", "--no-renames", a, b)
	if err != nil {
		return nil, fmt.Errorf("diff %s..%s: %w", a, b, err)
	}

	fileDiffs, err := godiff.NewMultiFileDiffReader(bytes.NewReader(raw)).ReadAllFiles()
	if err != nil {
		// Binary-only or otherwise unparseable diffs still have valid
		// name-status classification above.
		return changes, nil
	}

	for _, fd := range fileDiffs {
		path := diffPath(fd)
		fc, ok := index[path]
		if !ok {
			continue
		}
		fc.Additions, fc.Deletions = hunkStats(fd)
		if text, err := godiff.PrintFileDiff(fd); err == nil {
			fc.DiffText = string(text)
		}
	}

	return changes, nil
}

// diffPath extracts the repository path from a file diff, preferring the new
// name unless the file was deleted.
func diffPath(fd *godiff.FileDiff) string {
	name := fd.NewName
	if name == "/dev/null" || name == "" {
		name = fd.OrigName
	}
	name = strings.TrimPrefix(name, "a/")
	name = strings.TrimPrefix(name, "b/")
	return name
}

// hunkStats counts added and deleted lines across a file diff's hunks.
func hunkStats(fd *godiff.FileDiff) (additions, deletions int) {
	for _, hunk := range fd.Hunks {
		for _, line := range strings.Split(string(hunk.Body), "\n") {
			switch {
			case strings.HasPrefix(line, "+"):
				additions++
			case strings.HasPrefix(line, "-"):
				deletions++
			}
		}
	}
	return additions, deletions
}

// Checkout extracts the commit's tree into dir via git archive.
func (s *GitStore) Checkout(id, dir string) error {
	full, err := s.ResolveCommit(id)
	if err != nil {
		return err
	}

	raw, err := s.git(nil, "archive", "--format=tar", full)
	if err != nil {
		return fmt.Errorf("archive %s: %w", id, err)
	}

	tr := tar.NewReader(bytes.NewReader(raw))
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read archive: %w", err)
		}

		target := filepath.Join(dir, filepath.FromSlash(hdr.Name))
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("restore %s: %w", hdr.Name, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("restore %s: %w", hdr.Name, err)
			}
			content, err := io.ReadAll(tr)
			if err != nil {
				return fmt.Errorf("restore %s: %w", hdr.Name, err)
			}
			if err := os.WriteFile(target, content, os.FileMode(hdr.Mode)); err != nil {
				return fmt.Errorf("restore %s: %w", hdr.Name, err)
			}
		}
	}
	return nil
}

// CreateBranch points refs/heads/name at a commit.
func (s *GitStore) CreateBranch(name, fromID string) error {
	if _, err := s.git(nil, "update-ref", "refs/heads/"+name, fromID); err != nil {
		return fmt.Errorf("create branch %s: %w", name, err)
	}
	return nil
}

// DeleteBranch removes refs/heads/name. Commits stay reachable through any
// other ref.
func (s *GitStore) DeleteBranch(name string) error {
	if _, err := s.git(nil, "update-ref", "-d", "refs/heads/"+name); err != nil {
		return fmt.Errorf("delete branch %s: %w", name, err)
	}
	return nil
}

// ListBranches returns branch name -> commit id.
func (s *GitStore) ListBranches() (map[string]string, error) {
	out, err := s.git(nil, "for-each-ref", "--format=%(refname:short) %(objectname)", "refs/heads")
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}

	branches := make(map[string]string)
	for _, line := range strings.Split(string(out), "\n") {
		name, id, ok := strings.Cut(strings.TrimSpace(line), " ")
		if ok {
			branches[name] = id
		}
	}
	return branches, nil
}

// HashContent computes the git blob hash for raw content.
func (s *GitStore) HashContent(content []byte) string {
	h := sha1.New()
	fmt.Fprintf(h, "blob %d\x00", len(content))
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}
