// Package core implements the snapshot engine and timeline navigator: the
// write path that turns interactions into immutable commits, and the read
// path that walks and restores them.
package core

import (
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kvassbo/mnemo/internal/config"
	"github.com/kvassbo/mnemo/internal/models"
	"github.com/kvassbo/mnemo/internal/objectstore"
	"github.com/kvassbo/mnemo/internal/resolver"
	"github.com/kvassbo/mnemo/internal/store"
)

const summaryLimit = 72

// newResolver builds a path resolver bound to the project root, the ignore
// file and the object store's content hash.
func newResolver(cfg *config.Config, obj objectstore.Store) (*resolver.Resolver, error) {
	ign, err := resolver.LoadIgnore(cfg.IgnorePath())
	if err != nil {
		return nil, err
	}
	return resolver.New(cfg.ProjectPath(), ign, obj.HashContent), nil
}

// headTree returns the active head's tree and commit id. Before the first
// commit both are empty.
func headTree(st *store.Store, obj objectstore.Store) (objectstore.Tree, string, error) {
	head, err := st.GetHEAD()
	if err != nil {
		return nil, "", err
	}
	if head == "" {
		return objectstore.Tree{}, "", nil
	}
	tree, _, _, err := obj.GetCommit(head)
	if err != nil {
		return nil, "", err
	}
	return tree, head, nil
}

// advance creates a commit on top of the current head and moves the active
// branch and HEAD to it in one step. Until the store transaction lands, the
// new commit is unreferenced and the previous state is fully intact.
func advance(st *store.Store, obj objectstore.Store, entries []objectstore.Entry, meta objectstore.Metadata) (*models.Commit, error) {
	parent, err := st.GetHEAD()
	if err != nil {
		return nil, err
	}
	branch, err := st.GetActiveBranch()
	if err != nil {
		return nil, err
	}

	id, err := obj.CreateCommit(entries, meta, parent)
	if err != nil {
		return nil, err
	}

	if err := st.AdvanceHead(branch, id); err != nil {
		return nil, err
	}

	// Ref mirror is best-effort: the state database is authoritative.
	_ = obj.CreateBranch(branch, id)

	return commitModel(id, parent, branch, &meta), nil
}

// commitModel converts decoded commit metadata into the engine's data model.
func commitModel(id, parent, branch string, meta *objectstore.Metadata) *models.Commit {
	return &models.Commit{
		ID:        id,
		ParentID:  parent,
		Branch:    branch,
		Timestamp: meta.Timestamp,
		Operation: meta.Operation,
		Message:   meta.Message,
		Prompt:    meta.Prompt,
		Response:  meta.Response,
		AgentPlan: meta.AgentPlan,
		Files:     meta.Files,
		Session:   meta.Session,
		ByUser:    meta.ByUser,
	}
}

// loadCommit reads one commit by exact id.
func loadCommit(obj objectstore.Store, id, branch string) (*models.Commit, error) {
	_, meta, parent, err := obj.GetCommit(id)
	if err != nil {
		return nil, err
	}
	return commitModel(id, parent, branch, meta), nil
}

// removeIfPresent deletes a file, treating absence as success.
func removeIfPresent(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// summarize derives a single-line commit summary from free text: whitespace
// collapsed, truncated at a word boundary where possible.
func summarize(text, fallback string) string {
	fields := strings.FieldsFunc(text, unicode.IsSpace)
	if len(fields) == 0 {
		return fallback
	}

	line := strings.Join(fields, " ")
	if len(line) <= summaryLimit {
		return line
	}

	cut := strings.LastIndex(line[:summaryLimit], " ")
	if cut <= 0 {
		// No word boundary: back up to the start of a rune so the cut
		// never splits a multibyte character.
		cut = summaryLimit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
	}
	return line[:cut] + "..."
}
