package resolver

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvassbo/mnemo/internal/objectstore"
)

func testHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func setupResolver(t *testing.T, ignore *Ignore) (*Resolver, string) {
	dir := t.TempDir()
	if ignore == nil {
		ignore = NewIgnore()
	}
	return New(dir, ignore, testHash), dir
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	abs := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0644))
}

func TestRel_InsideRoot(t *testing.T) {
	r, dir := setupResolver(t, nil)

	rel, err := r.Rel(filepath.Join(dir, "src", "a.go"))
	require.NoError(t, err)
	assert.Equal(t, "src/a.go", rel)

	rel, err = r.Rel("src/a.go")
	require.NoError(t, err)
	assert.Equal(t, "src/a.go", rel)
}

func TestRel_EscapesRoot(t *testing.T) {
	r, _ := setupResolver(t, nil)

	_, err := r.Rel("../outside.txt")
	var invalid *InvalidPathError
	assert.ErrorAs(t, err, &invalid)
}

func TestExpand_WalksDirectories(t *testing.T) {
	r, dir := setupResolver(t, NewIgnore("*.log"))
	writeFile(t, dir, "a.go", "x")
	writeFile(t, dir, "sub/b.go", "y")
	writeFile(t, dir, "sub/trace.log", "z")

	files, err := r.Expand([]string{"."})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "sub/b.go"}, files)
}

func TestExpand_SkipsStoreAndVCSDirs(t *testing.T) {
	r, dir := setupResolver(t, nil)
	writeFile(t, dir, "a.go", "x")
	writeFile(t, dir, ".mnemo/state.db", "db")
	writeFile(t, dir, ".git/HEAD", "ref")

	files, err := r.Expand([]string{"."})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go"}, files)
}

func TestExpand_MissingPath(t *testing.T) {
	r, _ := setupResolver(t, nil)

	_, err := r.Expand([]string{"missing.go"})
	var notFound *PathNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestResolve_Classification(t *testing.T) {
	r, dir := setupResolver(t, nil)
	writeFile(t, dir, "same.go", "unchanged")
	writeFile(t, dir, "edited.go", "new content")
	writeFile(t, dir, "fresh.go", "brand new")

	tracked := []string{"same.go", "edited.go", "gone.go"}
	head := objectstore.Tree{
		"same.go":   testHash([]byte("unchanged")),
		"edited.go": testHash([]byte("old content")),
		"gone.go":   testHash([]byte("was here")),
	}

	cls, err := r.Resolve([]string{"."}, tracked, head)
	require.NoError(t, err)

	assert.Equal(t, []string{"fresh.go"}, cls.Untracked)
	assert.Equal(t, []string{"edited.go"}, cls.TrackedModified)
	assert.Equal(t, []string{"same.go"}, cls.TrackedUnmodified)
}

func TestResolve_DeletedTrackedFile(t *testing.T) {
	r, dir := setupResolver(t, nil)
	writeFile(t, dir, "kept.go", "here")

	tracked := []string{"kept.go", "deleted.go"}
	head := objectstore.Tree{
		"kept.go":    testHash([]byte("here")),
		"deleted.go": testHash([]byte("gone")),
	}

	cls, err := r.Resolve(nil, tracked, head)
	require.NoError(t, err)
	assert.Equal(t, []string{"deleted.go"}, cls.TrackedModified)
}

func TestResolve_ExplicitDeletedTrackedFile(t *testing.T) {
	r, dir := setupResolver(t, nil)
	writeFile(t, dir, "kept.go", "here")

	tracked := []string{"kept.go", "deleted.go"}
	head := objectstore.Tree{
		"kept.go":    testHash([]byte("here")),
		"deleted.go": testHash([]byte("gone")),
	}

	cls, err := r.Resolve([]string{"kept.go", "deleted.go"}, tracked, head)
	require.NoError(t, err)
	assert.Equal(t, []string{"deleted.go"}, cls.TrackedModified)
	assert.Equal(t, []string{"kept.go"}, cls.TrackedUnmodified)
}

func TestResolve_ExplicitMissingUntrackedFile(t *testing.T) {
	r, _ := setupResolver(t, nil)

	_, err := r.Resolve([]string{"never.go"}, nil, objectstore.Tree{})
	var notFound *PathNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "never.go", notFound.Path)
}

func TestResolve_NewlyTrackedNotInHead(t *testing.T) {
	r, dir := setupResolver(t, nil)
	writeFile(t, dir, "new.go", "content")

	cls, err := r.Resolve(nil, []string{"new.go"}, objectstore.Tree{})
	require.NoError(t, err)
	assert.Equal(t, []string{"new.go"}, cls.TrackedModified)
}
