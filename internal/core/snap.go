package core

import (
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/kvassbo/mnemo/internal/config"
	"github.com/kvassbo/mnemo/internal/models"
	"github.com/kvassbo/mnemo/internal/objectstore"
	"github.com/kvassbo/mnemo/internal/store"
)

// SnapOptions is the interaction record for one snapshot.
type SnapOptions struct {
	Prompt    string
	Response  string
	AgentPlan []string
	Files     []string // explicit file list; empty means all tracked-modified
	Session   string
	ByUser    bool
}

func (o SnapOptions) session() string {
	if o.Session != "" {
		return o.Session
	}
	return uuid.NewString()
}

// Snap records one interaction as an immutable commit. The resolved change
// set is reconciled against the working tree: explicitly named untracked
// files are tracked as part of the snap, and untouched tracked files stay
// reachable in the new commit unchanged. An empty change set is an error.
func Snap(cfg *config.Config, st *store.Store, obj objectstore.Store, opts SnapOptions) (*models.Commit, error) {
	r, err := newResolver(cfg, obj)
	if err != nil {
		return nil, err
	}

	tracked, err := st.ListTracked()
	if err != nil {
		return nil, err
	}

	tree, _, err := headTree(st, obj)
	if err != nil {
		return nil, err
	}

	cls, err := r.Resolve(opts.Files, tracked, tree)
	if err != nil {
		return nil, err
	}

	// Explicitly named untracked files join the tracked set with this snap.
	changed := append([]string{}, cls.TrackedModified...)
	newlyTracked := cls.Untracked
	changed = append(changed, newlyTracked...)
	if len(changed) == 0 {
		return nil, ErrNothingToSnapshot
	}

	inChanged := make(map[string]struct{}, len(changed))
	for _, p := range changed {
		inChanged[p] = struct{}{}
	}

	var entries []objectstore.Entry
	for _, rel := range changed {
		abs := r.Abs(rel)
		if _, err := os.Stat(abs); err != nil {
			if os.IsNotExist(err) {
				// Deleted on disk: leaving it out of the tree records
				// the deletion.
				continue
			}
			return nil, err
		}
		entries = append(entries, objectstore.Entry{Path: rel, File: abs})
	}

	// Untouched tracked files carry over so the commit stays a complete
	// snapshot, not a delta.
	for _, rel := range tracked {
		if _, ok := inChanged[rel]; ok {
			continue
		}
		if hash, ok := tree[rel]; ok {
			entries = append(entries, objectstore.Entry{Path: rel, Hash: hash})
		} else if _, err := os.Stat(r.Abs(rel)); err == nil {
			entries = append(entries, objectstore.Entry{Path: rel, File: r.Abs(rel)})
		}
	}

	meta := objectstore.Metadata{
		Operation: models.OpSnap,
		Message:   summarize(opts.Prompt, "Snapshot"),
		Prompt:    opts.Prompt,
		Response:  opts.Response,
		AgentPlan: opts.AgentPlan,
		Files:     changed,
		Session:   opts.session(),
		ByUser:    opts.ByUser,
		Timestamp: time.Now(),
	}

	commit, err := advance(st, obj, entries, meta)
	if err != nil {
		return nil, err
	}
	if len(newlyTracked) > 0 {
		if err := st.AddTracked(newlyTracked); err != nil {
			return nil, err
		}
	}
	return commit, nil
}

// PromptOnly records an interaction that changed no files: the commit reuses
// the head tree and carries only the conversation metadata.
func PromptOnly(cfg *config.Config, st *store.Store, obj objectstore.Store, opts SnapOptions) (*models.Commit, error) {
	tree, _, err := headTree(st, obj)
	if err != nil {
		return nil, err
	}

	meta := objectstore.Metadata{
		Operation: models.OpPrompt,
		Message:   summarize(opts.Prompt, "Prompt"),
		Prompt:    opts.Prompt,
		Response:  opts.Response,
		AgentPlan: opts.AgentPlan,
		Session:   opts.session(),
		ByUser:    opts.ByUser,
		Timestamp: time.Now(),
	}
	return advance(st, obj, carryTree(tree), meta)
}

// AmendOptions are metadata overrides for Amend. Zero-valued fields keep the
// head commit's value.
type AmendOptions struct {
	Prompt    string
	Response  string
	AgentPlan []string
}

// Amend corrects the head commit's metadata by writing an amend commit on
// top of it: same tree, the old head as parent. The original commit stays
// an ancestor, so every branch and jump target that could reach it before
// still can.
func Amend(cfg *config.Config, st *store.Store, obj objectstore.Store, opts AmendOptions) (*models.Commit, error) {
	head, err := st.GetHEAD()
	if err != nil {
		return nil, err
	}
	if head == "" {
		return nil, ErrNothingToSnapshot
	}

	tree, meta, _, err := obj.GetCommit(head)
	if err != nil {
		return nil, err
	}

	amended := *meta
	amended.Operation = models.OpAmend
	if opts.Prompt != "" {
		amended.Prompt = opts.Prompt
		amended.Message = summarize(opts.Prompt, amended.Message)
	}
	if opts.Response != "" {
		amended.Response = opts.Response
	}
	if len(opts.AgentPlan) > 0 {
		amended.AgentPlan = opts.AgentPlan
	}
	amended.Timestamp = time.Now()

	branch, err := st.GetActiveBranch()
	if err != nil {
		return nil, err
	}

	id, err := obj.CreateCommit(carryTree(tree), amended, head)
	if err != nil {
		return nil, err
	}
	if err := st.AdvanceHead(branch, id); err != nil {
		return nil, err
	}
	_ = obj.CreateBranch(branch, id)

	return commitModel(id, head, branch, &amended), nil
}
