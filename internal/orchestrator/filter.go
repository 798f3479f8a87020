package orchestrator

import (
	"sort"
	"strings"

	"github.com/secretscout/secretscout/internal/matcher"
	"github.com/secretscout/secretscout/internal/provider"
)

// RepoFilter selects which listed repositories participate in a scan run.
type RepoFilter struct {
	Include         []string
	Exclude         []string
	Repos           []string // explicit allow list of full names (org/repo), case-insensitive
	IncludeArchived bool
	IncludeForks    bool
	IncludeDisabled bool
	MaxRepos        int // 0 means unlimited
}

// Apply filters and sorts repos per the spec's precedence: explicit allow
// list, then archived/fork/disabled flags, then exclude globs, then
// include globs, then a stable (full_name, id) sort, then a max_repos
// clamp.
func (f RepoFilter) Apply(repos []provider.RepoInfo) []provider.RepoInfo {
	allow := make(map[string]bool, len(f.Repos))
	for _, r := range f.Repos {
		allow[strings.ToLower(r)] = true
	}

	out := make([]provider.RepoInfo, 0, len(repos))
	for _, r := range repos {
		name := r.FullName
		if name == "" {
			name = r.OwnerLogin() + "/" + r.Name
		}
		key := strings.ToLower(name)

		if len(allow) > 0 && !allow[key] {
			continue
		}
		if !f.IncludeArchived && r.Archived {
			continue
		}
		if !f.IncludeForks && r.Fork {
			continue
		}
		if !f.IncludeDisabled && r.Disabled {
			continue
		}
		if len(f.Exclude) > 0 && matcher.AnyGlobMatch(name, f.Exclude) {
			continue
		}
		if len(f.Include) > 0 && !matcher.AnyGlobMatch(name, f.Include) {
			continue
		}
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].FullName != out[j].FullName {
			return out[i].FullName < out[j].FullName
		}
		return out[i].ID < out[j].ID
	})
	if f.MaxRepos > 0 && len(out) > f.MaxRepos {
		out = out[:f.MaxRepos]
	}
	return out
}
