package baseline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secretscout/secretscout/internal/types"
)

func TestSaveThenLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "baseline.json")

	findings := []types.Finding{
		{Target: "t", File: "a.txt", RuleID: "aws_key", Line: 3, MatchHash: "abc123"},
	}
	require.NoError(t, Save(path, findings))

	b, err := Load(path)
	require.NoError(t, err)
	assert.True(t, b.Items[key(findings[0])])
}

func TestSuppressDropsKnownFindings(t *testing.T) {
	known := types.Finding{Target: "t", File: "a.txt", RuleID: "aws_key", Line: 3, MatchHash: "abc123"}
	unseen := types.Finding{Target: "t", File: "b.txt", RuleID: "aws_key", Line: 1, MatchHash: "zzz"}

	b := Baseline{Items: map[string]bool{key(known): true}}

	out, err := b.Suppress([]types.Finding{known, unseen})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, unseen, out[0])
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadUnparseableFileReturnsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
