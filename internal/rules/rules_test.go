package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secretscout/secretscout/internal/types"
)

func TestLoadBuiltinDefault(t *testing.T) {
	pack, err := LoadBuiltin("default")
	require.NoError(t, err)
	assert.Equal(t, "default", pack.Name)
	assert.NotEmpty(t, pack.Rules)
	for _, r := range pack.Rules {
		assert.NotEmpty(t, r.ID)
	}
}

func TestLoadBuiltinUnknown(t *testing.T) {
	_, err := LoadBuiltin("does-not-exist")
	assert.Error(t, err)
}

func TestLoadFromPathDuplicateIDsRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	raw := `
metadata:
  name: test
  version: "1.0.0"
rules:
  - id: dup
    severity: high
    type: filename
    filename:
      pattern: "*.pem"
      pattern_type: glob
  - id: dup
    severity: low
    type: filename
    filename:
      pattern: "*.key"
      pattern_type: glob
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	_, err := LoadFromPath(path)
	assert.Error(t, err)
}

func TestLoadFromPathStructuredKeyOverlapRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	raw := `
metadata:
  name: test
  version: "1.0.0"
rules:
  - id: overlap
    severity: high
    type: structured
    structured:
      format: json
      forbidden_keys: ["api_key"]
      allowed_keys: ["API_KEY"]
      case_insensitive_keys: true
      value_policy: any
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	_, err := LoadFromPath(path)
	assert.Error(t, err)
}

func TestMergeByIDOverrideWins(t *testing.T) {
	base := []types.Rule{
		{ID: "a", Severity: types.SeverityLow},
		{ID: "b", Severity: types.SeverityLow},
	}
	overrides := []types.Rule{
		{ID: "a", Severity: types.SeverityCritical},
		{ID: "c", Severity: types.SeverityHigh},
	}

	merged := mergeByID(base, overrides)

	require.Len(t, merged, 3)
	assert.Equal(t, "a", merged[0].ID)
	assert.Equal(t, types.SeverityCritical, merged[0].Severity)
	assert.Equal(t, "b", merged[1].ID)
	assert.Equal(t, "c", merged[2].ID)
}

func TestLoadPrecedenceRepoOverridesBuiltin(t *testing.T) {
	scanRoot := t.TempDir()
	repoRulesDir := filepath.Join(scanRoot, ".secret-scout")
	require.NoError(t, os.MkdirAll(repoRulesDir, 0o755))
	raw := `
metadata:
  name: repo-local
  version: "1.0.0"
rules:
  - id: aws_access_key_id
    severity: low
    enabled: true
    type: regex
    regex:
      pattern: "AKIA[0-9A-Z]{16}"
      scope: line
      max_matches: 1
`
	require.NoError(t, os.WriteFile(filepath.Join(repoRulesDir, "rules.yaml"), []byte(raw), 0o644))

	loaded, err := Load(scanRoot, Options{})
	require.NoError(t, err)

	var found bool
	for _, r := range loaded.RuleSet.Rules {
		if r.ID == "aws_access_key_id" {
			found = true
			assert.Equal(t, types.SeverityLow, r.Severity)
		}
	}
	assert.True(t, found, "repo-local override should take effect")
	assert.Len(t, loaded.Sources, 2) // builtin + repo
}

func TestLoadExtraRuleFilesApplyLast(t *testing.T) {
	scanRoot := t.TempDir()
	extraPath := filepath.Join(scanRoot, "extra.yaml")
	raw := `
metadata:
  name: extra
  version: "1.0.0"
rules:
  - id: aws_access_key_id
    severity: medium
    enabled: true
    type: regex
    regex:
      pattern: "AKIA[0-9A-Z]{16}"
      scope: line
      max_matches: 1
`
	require.NoError(t, os.WriteFile(extraPath, []byte(raw), 0o644))

	loaded, err := Load(scanRoot, Options{ExtraRuleFiles: []string{extraPath}})
	require.NoError(t, err)

	for _, r := range loaded.RuleSet.Rules {
		if r.ID == "aws_access_key_id" {
			assert.Equal(t, types.SeverityMedium, r.Severity)
		}
	}
}

func TestBuildRuleSetRejectsUnknownType(t *testing.T) {
	_, err := BuildRuleSet([]types.Rule{{ID: "bad", Severity: types.SeverityLow, Type: "bogus", Enabled: true}})
	assert.Error(t, err)
}
