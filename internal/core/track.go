package core

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kvassbo/mnemo/internal/config"
	"github.com/kvassbo/mnemo/internal/models"
	"github.com/kvassbo/mnemo/internal/objectstore"
	"github.com/kvassbo/mnemo/internal/resolver"
	"github.com/kvassbo/mnemo/internal/store"
)

// OpMeta carries the interaction context attached to tracking operations.
type OpMeta struct {
	Prompt   string
	Response string
	Session  string
	ByUser   bool
}

func (m OpMeta) session() string {
	if m.Session != "" {
		return m.Session
	}
	return uuid.NewString()
}

// Track adds paths to the tracked set and records a commit capturing their
// current content. Already-tracked paths are skipped; if nothing new remains
// the call fails.
func Track(cfg *config.Config, st *store.Store, obj objectstore.Store, paths []string, m OpMeta) (*models.Commit, error) {
	r, err := newResolver(cfg, obj)
	if err != nil {
		return nil, err
	}

	files, err := r.Expand(paths)
	if err != nil {
		return nil, err
	}

	var newFiles []string
	for _, rel := range files {
		tracked, err := st.IsTracked(rel)
		if err != nil {
			return nil, err
		}
		if !tracked {
			newFiles = append(newFiles, rel)
		}
	}
	if len(newFiles) == 0 {
		return nil, fmt.Errorf("no new files to track")
	}

	tree, _, err := headTree(st, obj)
	if err != nil {
		return nil, err
	}

	entries := carryTree(tree)
	for _, rel := range newFiles {
		entries = append(entries, objectstore.Entry{Path: rel, File: r.Abs(rel)})
	}

	meta := objectstore.Metadata{
		Operation: models.OpTrack,
		Message:   summarize("Track "+joinFiles(newFiles), "Track files"),
		Prompt:    m.Prompt,
		Response:  m.Response,
		Files:     newFiles,
		Session:   m.session(),
		ByUser:    m.ByUser,
		Timestamp: time.Now(),
	}

	commit, err := advance(st, obj, entries, meta)
	if err != nil {
		return nil, err
	}
	if err := st.AddTracked(newFiles); err != nil {
		return nil, err
	}
	return commit, nil
}

// Untrack removes paths from the tracked set and records a commit whose tree
// no longer carries them. Files stay on disk.
func Untrack(cfg *config.Config, st *store.Store, obj objectstore.Store, paths []string, m OpMeta) (*models.Commit, error) {
	return dropFromMemory(cfg, st, obj, paths, false, m)
}

// Remove untracks paths and deletes them from the working directory. The
// content stays reachable through every commit that recorded it.
func Remove(cfg *config.Config, st *store.Store, obj objectstore.Store, paths []string, m OpMeta) (*models.Commit, error) {
	return dropFromMemory(cfg, st, obj, paths, true, m)
}

func dropFromMemory(cfg *config.Config, st *store.Store, obj objectstore.Store, paths []string, deleteOnDisk bool, m OpMeta) (*models.Commit, error) {
	r, err := newResolver(cfg, obj)
	if err != nil {
		return nil, err
	}

	drop := make(map[string]struct{}, len(paths))
	var rels []string
	for _, p := range paths {
		rel, err := r.Rel(p)
		if err != nil {
			return nil, err
		}
		tracked, err := st.IsTracked(rel)
		if err != nil {
			return nil, err
		}
		if !tracked {
			return nil, &NotTrackedError{Path: rel}
		}
		drop[rel] = struct{}{}
		rels = append(rels, rel)
	}

	tree, _, err := headTree(st, obj)
	if err != nil {
		return nil, err
	}

	var entries []objectstore.Entry
	for path, hash := range tree {
		if _, gone := drop[path]; !gone {
			entries = append(entries, objectstore.Entry{Path: path, Hash: hash})
		}
	}

	op := "Untrack"
	if deleteOnDisk {
		op = "Remove"
	}
	meta := objectstore.Metadata{
		Operation: models.OpRemove,
		Message:   summarize(op+" "+joinFiles(rels), op+" files"),
		Prompt:    m.Prompt,
		Response:  m.Response,
		Files:     rels,
		Session:   m.session(),
		ByUser:    m.ByUser,
		Timestamp: time.Now(),
	}

	commit, err := advance(st, obj, entries, meta)
	if err != nil {
		return nil, err
	}
	if err := st.RemoveTracked(rels); err != nil {
		return nil, err
	}

	if deleteOnDisk {
		for _, rel := range rels {
			if err := os.Remove(r.Abs(rel)); err != nil && !os.IsNotExist(err) {
				return nil, fmt.Errorf("remove %s: %w", rel, err)
			}
		}
	}
	return commit, nil
}

// Rename records a tracked file moving to a new path, performing the on-disk
// rename when the caller has not already done it.
func Rename(cfg *config.Config, st *store.Store, obj objectstore.Store, oldPath, newPath string, m OpMeta) (*models.Commit, error) {
	r, err := newResolver(cfg, obj)
	if err != nil {
		return nil, err
	}

	oldRel, err := r.Rel(oldPath)
	if err != nil {
		return nil, err
	}
	newRel, err := r.Rel(newPath)
	if err != nil {
		return nil, err
	}

	tracked, err := st.IsTracked(oldRel)
	if err != nil {
		return nil, err
	}
	if !tracked {
		return nil, &NotTrackedError{Path: oldRel}
	}

	_, oldErr := os.Stat(r.Abs(oldRel))
	_, newErr := os.Stat(r.Abs(newRel))
	oldExists := oldErr == nil
	newExists := newErr == nil

	switch {
	case oldExists && newExists:
		return nil, fmt.Errorf("destination already exists: %s", newRel)
	case !oldExists && !newExists:
		return nil, &resolver.PathNotFoundError{Path: oldRel}
	case oldExists:
		if err := os.Rename(r.Abs(oldRel), r.Abs(newRel)); err != nil {
			return nil, fmt.Errorf("rename: %w", err)
		}
	}

	tree, _, err := headTree(st, obj)
	if err != nil {
		return nil, err
	}

	var entries []objectstore.Entry
	for path, hash := range tree {
		if path != oldRel {
			entries = append(entries, objectstore.Entry{Path: path, Hash: hash})
		}
	}
	entries = append(entries, objectstore.Entry{Path: newRel, File: r.Abs(newRel)})

	meta := objectstore.Metadata{
		Operation: models.OpRename,
		Message:   fmt.Sprintf("Rename %s to %s", oldRel, newRel),
		Prompt:    m.Prompt,
		Response:  m.Response,
		Files:     []string{oldRel, newRel},
		Session:   m.session(),
		ByUser:    m.ByUser,
		Timestamp: time.Now(),
	}

	commit, err := advance(st, obj, entries, meta)
	if err != nil {
		return nil, err
	}
	if err := st.RemoveTracked([]string{oldRel}); err != nil {
		return nil, err
	}
	if err := st.AddTracked([]string{newRel}); err != nil {
		return nil, err
	}
	return commit, nil
}

// carryTree converts an existing tree into hash-reuse entries.
func carryTree(tree objectstore.Tree) []objectstore.Entry {
	entries := make([]objectstore.Entry, 0, len(tree))
	for path, hash := range tree {
		entries = append(entries, objectstore.Entry{Path: path, Hash: hash})
	}
	return entries
}

func joinFiles(files []string) string {
	return strings.Join(files, ", ")
}
