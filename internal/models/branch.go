package models

import "time"

// Branch is a named, mutable pointer to a commit. Deleting a branch removes
// only the pointer; commits stay reachable through any other branch.
type Branch struct {
	Name        string    `json:"name"`
	CommitID    string    `json:"commit_id"`
	CreatedFrom string    `json:"created_from,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
