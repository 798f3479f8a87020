package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secretscout/secretscout/internal/provider"
)

func repo(id int, fullName string, archived, fork, disabled bool) provider.RepoInfo {
	r := provider.RepoInfo{ID: id, FullName: fullName, Archived: archived, Fork: fork, Disabled: disabled}
	return r
}

func TestApplyExcludesArchivedForksDisabledByDefault(t *testing.T) {
	repos := []provider.RepoInfo{
		repo(1, "acme/normal", false, false, false),
		repo(2, "acme/archived", true, false, false),
		repo(3, "acme/fork", false, true, false),
		repo(4, "acme/disabled", false, false, true),
	}
	out := RepoFilter{}.Apply(repos)
	require.Len(t, out, 1)
	assert.Equal(t, "acme/normal", out[0].FullName)
}

func TestApplyIncludeFlagsRestoreRepos(t *testing.T) {
	repos := []provider.RepoInfo{
		repo(1, "acme/archived", true, false, false),
		repo(2, "acme/fork", false, true, false),
	}
	out := RepoFilter{IncludeArchived: true, IncludeForks: true}.Apply(repos)
	assert.Len(t, out, 2)
}

func TestApplyExplicitAllowList(t *testing.T) {
	repos := []provider.RepoInfo{
		repo(1, "acme/one", false, false, false),
		repo(2, "acme/two", false, false, false),
	}
	out := RepoFilter{Repos: []string{"ACME/ONE"}}.Apply(repos)
	require.Len(t, out, 1)
	assert.Equal(t, "acme/one", out[0].FullName)
}

func TestApplyIncludeExcludeGlobs(t *testing.T) {
	repos := []provider.RepoInfo{
		repo(1, "acme/keep-this", false, false, false),
		repo(2, "acme/drop-this", false, false, false),
		repo(3, "other/keep-this", false, false, false),
	}
	out := RepoFilter{Include: []string{"acme/*"}, Exclude: []string{"*drop*"}}.Apply(repos)
	require.Len(t, out, 1)
	assert.Equal(t, "acme/keep-this", out[0].FullName)
}

func TestApplyStableSortAndMaxRepos(t *testing.T) {
	repos := []provider.RepoInfo{
		repo(2, "acme/b", false, false, false),
		repo(1, "acme/a", false, false, false),
		repo(3, "acme/c", false, false, false),
	}
	out := RepoFilter{MaxRepos: 2}.Apply(repos)
	require.Len(t, out, 2)
	assert.Equal(t, "acme/a", out[0].FullName)
	assert.Equal(t, "acme/b", out[1].FullName)
}
