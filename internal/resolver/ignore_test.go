package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIgnore_BarePattern(t *testing.T) {
	ig := NewIgnore("*.pyc")

	assert.True(t, ig.Match("a.pyc"))
	assert.True(t, ig.Match("src/deep/b.pyc"))
	assert.False(t, ig.Match("a.py"))
}

func TestIgnore_DirectoryOnly(t *testing.T) {
	ig := NewIgnore("build/")

	assert.True(t, ig.Match("build/out.o"))
	assert.True(t, ig.Match("src/build/out.o"))
	assert.False(t, ig.Match("build")) // a file named build is not a directory
}

func TestIgnore_AnchoredPattern(t *testing.T) {
	ig := NewIgnore("src/generated")

	assert.True(t, ig.Match("src/generated"))
	assert.True(t, ig.Match("src/generated/code.go"))
	assert.False(t, ig.Match("other/src/generated"))
}

func TestIgnore_DoubleStar(t *testing.T) {
	ig := NewIgnore("docs/**/draft.md")

	assert.True(t, ig.Match("docs/draft.md"))
	assert.True(t, ig.Match("docs/a/b/draft.md"))
	assert.False(t, ig.Match("docs/a/final.md"))
}

func TestLoadIgnore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".mnemoignore")
	require.NoError(t, os.WriteFile(path, []byte("# build output\n*.o\n\nnode_modules/\n"), 0644))

	ig, err := LoadIgnore(path)
	require.NoError(t, err)

	assert.True(t, ig.Match("main.o"))
	assert.True(t, ig.Match("node_modules/pkg/index.js"))
	assert.False(t, ig.Match("main.go"))
}

func TestLoadIgnore_Missing(t *testing.T) {
	ig, err := LoadIgnore(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.False(t, ig.Match("anything.txt"))
}
