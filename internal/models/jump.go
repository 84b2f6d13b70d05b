package models

import "time"

// JumpRecord is one entry in the exploration log: a rollback from one commit
// to another with the branch that was forked for it.
type JumpRecord struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	FromCommit string    `json:"from_commit"`
	ToCommit   string    `json:"to_commit"`
	FromBranch string    `json:"from_branch"`
	NewBranch  string    `json:"new_branch"`
}
