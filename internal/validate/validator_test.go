package validate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvassbo/mnemo/internal/config"
	"github.com/kvassbo/mnemo/internal/models"
	"github.com/kvassbo/mnemo/internal/objectstore"
	"github.com/kvassbo/mnemo/internal/store"
)

func setupValidator(t *testing.T) (*Validator, *store.Store, *objectstore.MemStore, string) {
	dir := t.TempDir()

	st, err := store.New(filepath.Join(dir, "state.db"))
	require.NoError(t, err)
	require.NoError(t, st.Initialize())
	t.Cleanup(func() { st.Close() })

	obj := objectstore.NewMemStore()
	v := New(config.DefaultValidator(), st, obj)
	return v, st, obj, dir
}

// seedCommit writes files under dir and commits them as a full tree.
func seedCommit(t *testing.T, obj *objectstore.MemStore, dir, parent string, meta objectstore.Metadata, files map[string]string) string {
	t.Helper()

	var entries []objectstore.Entry
	for name, content := range files {
		abs := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0644))
		entries = append(entries, objectstore.Entry{Path: name, File: abs})
	}

	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	id, err := obj.CreateCommit(entries, meta, parent)
	require.NoError(t, err)
	return id
}

func TestValidator_FullAlignment(t *testing.T) {
	v, _, obj, dir := setupValidator(t)

	root := seedCommit(t, obj, dir, "", objectstore.Metadata{
		Operation: models.OpTrack, Message: "Track project files",
	}, map[string]string{"a.py": "x = 1\n"})

	c2 := seedCommit(t, obj, dir, root, objectstore.Metadata{
		Operation: models.OpSnap,
		Message:   "Fix bug in a.py",
		Prompt:    "Fix bug in a.py",
		AgentPlan: []string{"a.py: fixed off-by-one"},
	}, map[string]string{"a.py": "x = 2\n"})

	r, err := v.Commit(c2)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.py"}, r.ActualFiles)
	assert.Equal(t, 1.0, r.OverlapScore)
	assert.Equal(t, 1.0, r.PlanScore)
	assert.Equal(t, 1.0, r.ChangeSizeScore)
	assert.Empty(t, r.MissingFiles)
	assert.Empty(t, r.UnexpectedFiles)
	assert.True(t, r.IsAligned)
}

func TestValidator_OneRefCoversSeveralPaths(t *testing.T) {
	v, _, obj, dir := setupValidator(t)

	root := seedCommit(t, obj, dir, "", objectstore.Metadata{
		Operation: models.OpTrack, Message: "Track project files",
	}, map[string]string{"client/utils.py": "a\n", "server/utils.py": "b\n"})

	c2 := seedCommit(t, obj, dir, root, objectstore.Metadata{
		Operation: models.OpSnap,
		Message:   "Dedupe helpers",
		Prompt:    "Deduplicate the helpers shared by both utils.py copies",
	}, map[string]string{"client/utils.py": "c\n", "server/utils.py": "c\n"})

	r, err := v.Commit(c2)
	require.NoError(t, err)

	// Both changed paths are claimed by the single reference.
	assert.Equal(t, 1.0, r.OverlapScore)
	assert.Empty(t, r.MissingFiles)
	assert.Empty(t, r.UnexpectedFiles)
}

func TestValidator_TersePromptLargeChange(t *testing.T) {
	v, _, obj, dir := setupValidator(t)

	files := map[string]string{}
	names := []string{"a.py", "b.py", "c.py", "d.py", "e.py", "f.py"}
	for _, n := range names {
		files[n] = "old\n"
	}
	root := seedCommit(t, obj, dir, "", objectstore.Metadata{
		Operation: models.OpTrack, Message: "Track project files",
	}, files)

	changed := map[string]string{}
	for _, n := range names {
		changed[n] = "new\n"
	}
	c2 := seedCommit(t, obj, dir, root, objectstore.Metadata{
		Operation: models.OpSnap,
		Message:   "fix",
		Prompt:    "fix",
	}, changed)

	r, err := v.Commit(c2)
	require.NoError(t, err)

	assert.Len(t, r.ActualFiles, 6)
	assert.InDelta(t, 0.9, r.ChangeSizeScore, 1e-9)
	assert.Equal(t, 0.1, r.PromptScore)
	assert.Equal(t, 0.0, r.PlanScore)
	assert.False(t, r.IsAligned)
}

func TestValidator_MissingAndUnexpected(t *testing.T) {
	v, _, obj, dir := setupValidator(t)

	root := seedCommit(t, obj, dir, "", objectstore.Metadata{
		Operation: models.OpTrack, Message: "Track project files",
	}, map[string]string{"logger.py": "a\n", "config.py": "b\n"})

	c2 := seedCommit(t, obj, dir, root, objectstore.Metadata{
		Operation: models.OpSnap,
		Message:   "Raise the log level default in config.py",
		Prompt:    "Raise the log level default in config.py",
	}, map[string]string{"logger.py": "changed\n", "config.py": "b\n"})

	r, err := v.Commit(c2)
	require.NoError(t, err)

	assert.Equal(t, []string{"config.py"}, r.MissingFiles)
	assert.Equal(t, []string{"logger.py"}, r.UnexpectedFiles)
	assert.Len(t, r.Issues, 2)
}

func TestValidator_RootCommit(t *testing.T) {
	v, _, obj, dir := setupValidator(t)

	root := seedCommit(t, obj, dir, "", objectstore.Metadata{
		Operation: models.OpTrack, Message: "Track project files",
	}, map[string]string{"a.py": "x\n", "b.py": "y\n"})

	r, err := v.Commit(root)
	require.NoError(t, err)
	assert.Len(t, r.ActualFiles, 2)
}

func TestValidator_NoClaimNoChange(t *testing.T) {
	v, _, obj, dir := setupValidator(t)

	root := seedCommit(t, obj, dir, "", objectstore.Metadata{
		Operation: models.OpTrack, Message: "Track project files",
	}, map[string]string{"a.py": "x\n"})

	c2 := seedCommit(t, obj, dir, root, objectstore.Metadata{
		Operation: models.OpPrompt,
		Message:   "Discussed the approach without touching anything",
		Prompt:    "Discussed the approach without touching anything",
	}, map[string]string{"a.py": "x\n"})

	r, err := v.Commit(c2)
	require.NoError(t, err)
	assert.Empty(t, r.ActualFiles)
	assert.Equal(t, 1.0, r.OverlapScore)
}

func TestValidator_Recent(t *testing.T) {
	v, st, obj, dir := setupValidator(t)

	root := seedCommit(t, obj, dir, "", objectstore.Metadata{
		Operation: models.OpTrack, Message: "Track project files",
	}, map[string]string{"a.py": "1\n"})

	c2 := seedCommit(t, obj, dir, root, objectstore.Metadata{
		Operation: models.OpSnap,
		Message:   "Fix the off-by-one iteration bug in a.py loop bounds",
		Prompt:    "Fix the off-by-one iteration bug in a.py loop bounds",
		AgentPlan: []string{"a.py: adjust loop bounds"},
	}, map[string]string{"a.py": "2\n"})

	require.NoError(t, st.SetHEAD(c2))

	summary, err := v.Recent(2)
	require.NoError(t, err)
	require.Len(t, summary.Results, 2)
	assert.Equal(t, c2, summary.Results[0].CommitID)
	assert.Greater(t, summary.MeanScore, 0.0)
	assert.GreaterOrEqual(t, summary.AlignedCount, 1)
}
