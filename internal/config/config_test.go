package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize_CreatesLayout(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Initialize(dir)
	require.NoError(t, err)

	assert.Equal(t, "main", cfg.DefaultBranch)
	assert.Equal(t, filepath.Join(dir, MnemoDir), cfg.MnemoPath())
	assert.Equal(t, dir, cfg.ProjectPath())

	info, err := os.Stat(cfg.MnemoPath())
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = os.Stat(filepath.Join(cfg.MnemoPath(), ConfigFile))
	assert.NoError(t, err)
}

func TestInitialize_AlreadyExists(t *testing.T) {
	dir := t.TempDir()

	_, err := Initialize(dir)
	require.NoError(t, err)
	_, err = Initialize(dir)
	assert.Error(t, err)
}

func TestLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Initialize(dir)
	require.NoError(t, err)

	cfg.UserName = "dev"
	cfg.Validator.Threshold = 0.8
	require.NoError(t, cfg.Save())

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "dev", loaded.UserName)
	assert.Equal(t, 0.8, loaded.Validator.Threshold)
	assert.Equal(t, DefaultValidator().OverlapWeight, loaded.Validator.OverlapWeight)
}

func TestLoad_FromSubdirectory(t *testing.T) {
	dir := t.TempDir()

	_, err := Initialize(dir)
	require.NoError(t, err)

	sub := filepath.Join(dir, "src", "deep")
	require.NoError(t, os.MkdirAll(sub, 0755))

	cfg, err := Load(sub)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.ProjectPath())
}

func TestFindRoot_NotARepository(t *testing.T) {
	_, err := FindRoot(t.TempDir())
	assert.Error(t, err)
}

func TestDefaultValidator_WeightsSumToOne(t *testing.T) {
	v := DefaultValidator()
	sum := v.OverlapWeight + v.PromptWeight + v.PlanWeight + v.ChangeSizeWeight
	assert.InDelta(t, 1.0, sum, 1e-9)
}
