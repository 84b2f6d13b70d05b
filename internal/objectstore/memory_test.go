package objectstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvassbo/mnemo/internal/models"
)

func memCommitFiles(t *testing.T, s *MemStore, dir, parent, message string, files map[string]string) string {
	t.Helper()

	var entries []Entry
	for name, content := range files {
		abs := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0644))
		entries = append(entries, Entry{Path: name, File: abs})
	}

	id, err := s.CreateCommit(entries, Metadata{Operation: models.OpSnap, Message: message}, parent)
	require.NoError(t, err)
	return id
}

func TestMemStore_CreateAndGet(t *testing.T) {
	s := NewMemStore()
	dir := t.TempDir()

	id := memCommitFiles(t, s, dir, "", "first", map[string]string{"a.txt": "hello\n"})

	tree, meta, parent, err := s.GetCommit(id)
	require.NoError(t, err)
	assert.Equal(t, "", parent)
	assert.Equal(t, "first", meta.Message)
	assert.Contains(t, tree, "a.txt")
	assert.Equal(t, s.HashContent([]byte("hello\n")), tree["a.txt"])
}

func TestMemStore_ResolvePrefix(t *testing.T) {
	s := NewMemStore()
	dir := t.TempDir()

	id := memCommitFiles(t, s, dir, "", "first", map[string]string{"a.txt": "x"})

	got, err := s.ResolveCommit(id[:8])
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = s.ResolveCommit("ff")
	var notFound *CommitNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestMemStore_Ancestry(t *testing.T) {
	s := NewMemStore()
	dir := t.TempDir()

	c1 := memCommitFiles(t, s, dir, "", "one", map[string]string{"a.txt": "1"})
	c2 := memCommitFiles(t, s, dir, c1, "two", map[string]string{"a.txt": "2"})
	c3 := memCommitFiles(t, s, dir, c2, "three", map[string]string{"a.txt": "3"})

	ids, err := s.Ancestry(c3, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{c3, c2, c1}, ids)

	ids, err = s.Ancestry(c3, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{c3, c2}, ids)
}

func TestMemStore_Diff(t *testing.T) {
	s := NewMemStore()
	dir := t.TempDir()

	c1 := memCommitFiles(t, s, dir, "", "one", map[string]string{
		"same.txt":    "stay\n",
		"mod.txt":     "old\n",
		"deleted.txt": "bye\n",
	})
	c2 := memCommitFiles(t, s, dir, c1, "two", map[string]string{
		"same.txt":  "stay\n",
		"mod.txt":   "new\n",
		"added.txt": "hi\n",
	})

	changes, err := s.Diff(c1, c2)
	require.NoError(t, err)

	byPath := make(map[string]models.FileChange)
	for _, ch := range changes {
		byPath[ch.Path] = ch
	}

	assert.Len(t, changes, 3)
	assert.Equal(t, models.ChangeAdded, byPath["added.txt"].ChangeType)
	assert.Equal(t, models.ChangeModified, byPath["mod.txt"].ChangeType)
	assert.Equal(t, models.ChangeDeleted, byPath["deleted.txt"].ChangeType)
	assert.NotContains(t, byPath, "same.txt")
}

func TestMemStore_DiffAgainstEmpty(t *testing.T) {
	s := NewMemStore()
	dir := t.TempDir()

	c1 := memCommitFiles(t, s, dir, "", "one", map[string]string{"a.txt": "x\n", "b.txt": "y\n"})

	changes, err := s.Diff("", c1)
	require.NoError(t, err)
	assert.Len(t, changes, 2)
	for _, ch := range changes {
		assert.Equal(t, models.ChangeAdded, ch.ChangeType)
	}
}

func TestMemStore_DiffSelf(t *testing.T) {
	s := NewMemStore()
	dir := t.TempDir()

	c1 := memCommitFiles(t, s, dir, "", "one", map[string]string{"a.txt": "x\n"})

	changes, err := s.Diff(c1, c1)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestMemStore_Checkout(t *testing.T) {
	s := NewMemStore()
	srcDir := t.TempDir()

	c1 := memCommitFiles(t, s, srcDir, "", "one", map[string]string{
		"a.txt":     "alpha\n",
		"sub/b.txt": "beta\n",
	})

	outDir := t.TempDir()
	require.NoError(t, s.Checkout(c1, outDir))

	a, err := os.ReadFile(filepath.Join(outDir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "alpha\n", string(a))

	b, err := os.ReadFile(filepath.Join(outDir, "sub", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "beta\n", string(b))
}

func TestMemStore_HashReuse(t *testing.T) {
	s := NewMemStore()
	dir := t.TempDir()

	c1 := memCommitFiles(t, s, dir, "", "one", map[string]string{"a.txt": "keep\n"})
	tree, _, _, err := s.GetCommit(c1)
	require.NoError(t, err)

	id, err := s.CreateCommit([]Entry{{Path: "a.txt", Hash: tree["a.txt"]}},
		Metadata{Operation: models.OpPrompt, Message: "no change"}, c1)
	require.NoError(t, err)

	changes, err := s.Diff(c1, id)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestMemStore_UnknownBlob(t *testing.T) {
	s := NewMemStore()

	_, err := s.CreateCommit([]Entry{{Path: "a.txt", Hash: "deadbeef"}},
		Metadata{Operation: models.OpSnap, Message: "bad"}, "")
	assert.Error(t, err)
}
