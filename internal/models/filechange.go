package models

// ChangeType classifies a file change within a commit.
type ChangeType string

const (
	ChangeAdded    ChangeType = "added"
	ChangeModified ChangeType = "modified"
	ChangeDeleted  ChangeType = "deleted"
)

// FileChange is one file's change between two commits. Derived on demand by
// diffing trees through the object store; never persisted.
type FileChange struct {
	Path       string     `json:"path"`
	ChangeType ChangeType `json:"change_type"`
	Additions  int        `json:"additions"`
	Deletions  int        `json:"deletions"`
	DiffText   string     `json:"diff_text,omitempty"`
}
