package scoutconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenNoFilesPresent(t *testing.T) {
	root := t.TempDir()
	cfg, err := Load(root, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, int64(1<<20), cfg.MaxFileBytes)
	assert.True(t, cfg.Deterministic)
}

func TestLoadRepoLayerOverridesDefault(t *testing.T) {
	root := t.TempDir()
	repoDir := filepath.Join(root, ".secret-scout")
	require.NoError(t, os.MkdirAll(repoDir, 0o755))
	raw := "scan:\n  max_file_bytes: 2048\n  redact: false\n"
	require.NoError(t, os.WriteFile(filepath.Join(repoDir, "config.yaml"), []byte(raw), 0o644))

	cfg, err := Load(root, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, int64(2048), cfg.MaxFileBytes)
	assert.False(t, cfg.Redact)
}

func TestLoadWalksUpToFindRepoConfig(t *testing.T) {
	root := t.TempDir()
	repoDir := filepath.Join(root, ".secret-scout")
	require.NoError(t, os.MkdirAll(repoDir, 0o755))
	raw := "scan:\n  max_file_bytes: 4096\n"
	require.NoError(t, os.WriteFile(filepath.Join(repoDir, "config.yaml"), []byte(raw), 0o644))

	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := Load(nested, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, int64(4096), cfg.MaxFileBytes)
}

func TestOverridesWinOverFileLayers(t *testing.T) {
	root := t.TempDir()
	repoDir := filepath.Join(root, ".secret-scout")
	require.NoError(t, os.MkdirAll(repoDir, 0o755))
	raw := "scan:\n  max_file_bytes: 4096\n"
	require.NoError(t, os.WriteFile(filepath.Join(repoDir, "config.yaml"), []byte(raw), 0o644))

	override := int64(99)
	cfg, err := Load(root, Overrides{MaxFileBytes: &override})
	require.NoError(t, err)
	assert.Equal(t, int64(99), cfg.MaxFileBytes)
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	root := t.TempDir()
	repoDir := filepath.Join(root, ".secret-scout")
	require.NoError(t, os.MkdirAll(repoDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(repoDir, "config.yaml"), []byte("scan: [this is not a mapping"), 0o644))

	_, err := Load(root, Overrides{})
	assert.Error(t, err)
}
