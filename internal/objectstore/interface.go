// Package objectstore isolates the versioned object storage behind a narrow
// interface. The engine never touches object storage directly; it only asks
// for commits, diffs, checkouts and branch refs. GitStore backs the interface
// with a bare git repository, MemStore keeps everything in memory for tests.
package objectstore

import (
	"fmt"
	"time"

	"github.com/kvassbo/mnemo/internal/models"
)

// Tree maps repository-relative paths to content hashes.
type Tree map[string]string

// Entry is one file in a tree being committed. Exactly one of File or Hash
// is set: File points at on-disk content to store as a new blob, Hash reuses
// a blob already present in the store.
type Entry struct {
	Path string // repository-relative path
	File string // absolute path to read content from
	Hash string // existing blob hash to reuse
}

// Metadata is the interaction record bound to a commit.
type Metadata struct {
	Operation models.Operation
	Message   string
	Prompt    string
	Response  string
	AgentPlan []string
	Files     []string
	Session   string
	ByUser    bool
	Timestamp time.Time
}

// CommitNotFoundError indicates that a ref did not resolve to any commit.
type CommitNotFoundError struct {
	Ref string
}

func (e *CommitNotFoundError) Error() string {
	return fmt.Sprintf("commit not found: %s", e.Ref)
}

// Store is the versioned object store boundary.
type Store interface {
	// CreateCommit writes the given tree entries and metadata as a new
	// immutable commit with the given parent ("" for a root commit) and
	// returns its id.
	CreateCommit(entries []Entry, meta Metadata, parentID string) (string, error)

	// GetCommit returns a commit's tree and decoded metadata.
	GetCommit(id string) (Tree, *Metadata, string, error)

	// ResolveCommit resolves a full or abbreviated commit id. Returns
	// *CommitNotFoundError when nothing matches.
	ResolveCommit(ref string) (string, error)

	// Ancestry returns commit ids walking parent links from id, most
	// recent first, id included. limit <= 0 means unlimited.
	Ancestry(id string, limit int) ([]string, error)

	// Diff computes the file changes from commit a to commit b. An empty
	// a diffs b against the empty tree (every file added).
	Diff(a, b string) ([]models.FileChange, error)

	// Checkout materializes the commit's tree under dir, overwriting
	// files that differ. It does not delete files absent from the tree;
	// the caller owns that decision.
	Checkout(id, dir string) error

	// CreateBranch, DeleteBranch and ListBranches maintain the store's
	// branch refs. The engine's state database stays authoritative; these
	// keep the object store inspectable on its own.
	CreateBranch(name, fromID string) error
	DeleteBranch(name string) error
	ListBranches() (map[string]string, error)

	// HashContent returns the content hash this store uses for blobs, so
	// on-disk files can be compared against tree entries without a commit.
	HashContent(content []byte) string
}
