package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvassbo/mnemo/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	st, err := New(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	require.NoError(t, st.Initialize())
	t.Cleanup(func() { st.Close() })
	return st
}

func TestHEAD_RoundTrip(t *testing.T) {
	st := setupTestStore(t)

	head, err := st.GetHEAD()
	require.NoError(t, err)
	assert.Equal(t, "", head)

	require.NoError(t, st.SetHEAD("abc123"))
	head, err = st.GetHEAD()
	require.NoError(t, err)
	assert.Equal(t, "abc123", head)
}

func TestBranch_CreateAndGet(t *testing.T) {
	st := setupTestStore(t)

	require.NoError(t, st.CreateBranch("main", "c1", ""))

	branch, err := st.GetBranch("main")
	require.NoError(t, err)
	require.NotNil(t, branch)
	assert.Equal(t, "main", branch.Name)
	assert.Equal(t, "c1", branch.CommitID)
}

func TestBranch_CreateDuplicate(t *testing.T) {
	st := setupTestStore(t)

	require.NoError(t, st.CreateBranch("main", "c1", ""))
	assert.Error(t, st.CreateBranch("main", "c2", ""))
}

func TestBranch_GetMissing(t *testing.T) {
	st := setupTestStore(t)

	branch, err := st.GetBranch("absent")
	require.NoError(t, err)
	assert.Nil(t, branch)
}

func TestBranch_List(t *testing.T) {
	st := setupTestStore(t)

	require.NoError(t, st.CreateBranch("main", "c1", ""))
	require.NoError(t, st.CreateBranch("jump/1", "c2", "c2"))

	branches, err := st.ListBranches()
	require.NoError(t, err)
	require.Len(t, branches, 2)
	assert.Equal(t, "jump/1", branches[0].Name)
	assert.Equal(t, "main", branches[1].Name)
}

func TestAdvanceHead_MovesBothPointers(t *testing.T) {
	st := setupTestStore(t)

	require.NoError(t, st.CreateBranch("main", "c1", ""))
	require.NoError(t, st.SetHEAD("c1"))

	require.NoError(t, st.AdvanceHead("main", "c2"))

	head, _ := st.GetHEAD()
	assert.Equal(t, "c2", head)
	branch, _ := st.GetBranch("main")
	assert.Equal(t, "c2", branch.CommitID)
}

func TestAdvanceHead_UnknownBranch(t *testing.T) {
	st := setupTestStore(t)
	assert.Error(t, st.AdvanceHead("missing", "c1"))
}

func TestSwitchTo_CreatesAndActivates(t *testing.T) {
	st := setupTestStore(t)

	branch := &models.Branch{Name: "jump/1", CommitID: "c3", CreatedFrom: "c3", CreatedAt: time.Now()}
	require.NoError(t, st.SwitchTo(branch))

	active, _ := st.GetActiveBranch()
	assert.Equal(t, "jump/1", active)
	head, _ := st.GetHEAD()
	assert.Equal(t, "c3", head)

	got, err := st.GetBranch("jump/1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "c3", got.CommitID)
}

func TestNextJumpBranch_Monotonic(t *testing.T) {
	st := setupTestStore(t)

	n1, err := st.NextJumpBranch()
	require.NoError(t, err)
	n2, err := st.NextJumpBranch()
	require.NoError(t, err)

	assert.Equal(t, "jump/1", n1)
	assert.Equal(t, "jump/2", n2)

	// Deleting a branch never frees its number.
	require.NoError(t, st.CreateBranch("jump/2", "c1", "c1"))
	require.NoError(t, st.DeleteBranch("jump/2"))
	n3, err := st.NextJumpBranch()
	require.NoError(t, err)
	assert.Equal(t, "jump/3", n3)
}

func TestTracked_AddListRemove(t *testing.T) {
	st := setupTestStore(t)

	require.NoError(t, st.AddTracked([]string{"b.go", "a.go"}))

	files, err := st.ListTracked()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "b.go"}, files)

	ok, err := st.IsTracked("a.go")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, st.RemoveTracked([]string{"a.go"}))
	ok, _ = st.IsTracked("a.go")
	assert.False(t, ok)
}

func TestJumps_AppendAndList(t *testing.T) {
	st := setupTestStore(t)

	rec := &models.JumpRecord{
		Timestamp:  time.Now(),
		FromCommit: "c2",
		ToCommit:   "c1",
		FromBranch: "main",
		NewBranch:  "jump/1",
	}
	require.NoError(t, st.AppendJump(rec))
	require.NoError(t, st.AppendJump(&models.JumpRecord{
		Timestamp: time.Now(), FromCommit: "c3", ToCommit: "c2",
		FromBranch: "jump/1", NewBranch: "jump/2",
	}))

	jumps, err := st.ListJumps()
	require.NoError(t, err)
	require.Len(t, jumps, 2)
	assert.Equal(t, "c1", jumps[0].ToCommit)
	assert.Equal(t, "c2", jumps[1].ToCommit)
}
