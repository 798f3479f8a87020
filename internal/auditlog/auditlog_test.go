package auditlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secretscout/secretscout/internal/types"
)

func TestNewPrefersGitDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))

	log := New(root)
	assert.Contains(t, log.path, filepath.Join(".git", "secretscout_audit.jsonl"))
}

func TestNewFallsBackWithoutGitDir(t *testing.T) {
	root := t.TempDir()
	log := New(root)
	assert.Equal(t, filepath.Join(root, ".secretscout_audit.jsonl"), log.path)
}

func TestAppendThenLoadHistoryNewestFirst(t *testing.T) {
	root := t.TempDir()
	log := New(root)

	require.NoError(t, log.Append(Record{ScanID: "1", Target: "first"}))
	require.NoError(t, log.Append(Record{ScanID: "2", Target: "second"}))

	history, err := log.LoadHistory()
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "second", history[0].Target)
	assert.Equal(t, "first", history[1].Target)
}

func TestRecordFromResultCountsSeverities(t *testing.T) {
	result := types.ScanResult{
		Targets: []types.ScanTarget{{Name: "repo"}},
		Findings: []types.Finding{
			{Severity: types.SeverityCritical},
			{Severity: types.SeverityCritical},
			{Severity: types.SeverityLow},
		},
		Stats: types.ScanStats{Findings: 3, FilesScanned: 10},
	}
	rec := RecordFromResult(result)
	assert.Equal(t, "repo", rec.Target)
	assert.Equal(t, 3, rec.TotalFindings)
	assert.Equal(t, 2, rec.SeverityCounts["critical"])
	assert.Equal(t, 1, rec.SeverityCounts["low"])
}
