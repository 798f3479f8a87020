package walk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secretscout/secretscout/internal/types"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScanPrunesSkipDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "hello")
	writeFile(t, filepath.Join(root, "node_modules", "lib.js"), "ignored")

	cfg := types.DefaultScanConfig()
	candidates, err := Scan(root, cfg, nil, false)
	require.NoError(t, err)

	var paths []string
	for _, c := range candidates {
		paths = append(paths, c.RelPath)
	}
	assert.Contains(t, paths, "a.txt")
	assert.NotContains(t, paths, "node_modules/lib.js")
}

func TestScanDeterministicOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "zeta.txt"), "z")
	writeFile(t, filepath.Join(root, "alpha.txt"), "a")

	cfg := types.DefaultScanConfig()
	cfg.Deterministic = true
	candidates, err := Scan(root, cfg, nil, false)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "alpha.txt", candidates[0].RelPath)
	assert.Equal(t, "zeta.txt", candidates[1].RelPath)
}

func TestScanDetectsBinaryByNULByte(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "text.txt"), "plain text")
	require.NoError(t, os.WriteFile(filepath.Join(root, "bin.dat"), []byte{0x00, 0x01, 0x02}, 0o644))

	cfg := types.DefaultScanConfig()
	candidates, err := Scan(root, cfg, nil, false)
	require.NoError(t, err)

	byName := make(map[string]types.FileCandidate)
	for _, c := range candidates {
		byName[c.RelPath] = c
	}
	assert.False(t, byName["text.txt"].IsBinary)
	assert.True(t, byName["bin.dat"].IsBinary)
}

func TestScanHonorsIgnoreGlobs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep.txt"), "keep")
	writeFile(t, filepath.Join(root, "skip.log"), "skip")

	cfg := types.DefaultScanConfig()
	candidates, err := Scan(root, cfg, []string{"*.log"}, false)
	require.NoError(t, err)

	var paths []string
	for _, c := range candidates {
		paths = append(paths, c.RelPath)
	}
	assert.Contains(t, paths, "keep.txt")
	assert.NotContains(t, paths, "skip.log")
}

func TestScanSkipsSymlinksByDefault(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "real.txt"), "real content")
	require.NoError(t, os.Symlink(filepath.Join(root, "real.txt"), filepath.Join(root, "link.txt")))

	cfg := types.DefaultScanConfig()
	candidates, err := Scan(root, cfg, nil, false)
	require.NoError(t, err)

	var paths []string
	for _, c := range candidates {
		paths = append(paths, c.RelPath)
	}
	assert.Contains(t, paths, "real.txt")
	assert.NotContains(t, paths, "link.txt")
}
