package models

import "time"

// Operation labels what a commit recorded.
type Operation string

const (
	OpTrack  Operation = "track"
	OpSnap   Operation = "snap"
	OpRename Operation = "rename"
	OpRemove Operation = "remove"
	OpPrompt Operation = "prompt"
	OpAmend  Operation = "amend"
)

// Commit is an immutable snapshot record binding a file tree to the
// prompt/response/plan metadata of one human-agent interaction.
// Corrections never mutate a commit; they create a new one.
type Commit struct {
	ID        string    `json:"id"`
	ParentID  string    `json:"parent_id,omitempty"`
	Branch    string    `json:"branch"`
	Timestamp time.Time `json:"timestamp"`
	Operation Operation `json:"operation"`
	Message   string    `json:"message"`
	Prompt    string    `json:"prompt,omitempty"`
	Response  string    `json:"response,omitempty"`
	AgentPlan []string  `json:"agent_plan,omitempty"`
	Files     []string  `json:"files,omitempty"`
	Session   string    `json:"session,omitempty"`
	ByUser    bool      `json:"by_user,omitempty"`
}

// ShortID returns a shortened commit ID (first 7 characters)
func (c *Commit) ShortID() string {
	if len(c.ID) > 7 {
		return c.ID[:7]
	}
	return c.ID
}

// IsRoot reports whether this commit has no parent.
func (c *Commit) IsRoot() bool {
	return c.ParentID == ""
}
