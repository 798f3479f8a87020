package rules

import (
	"os"
	"path/filepath"

	"github.com/secretscout/secretscout/internal/types"
)

var repoRuleFiles = []string{
	".secret-scout/rules.yaml",
	".secret-scout/rules.yml",
}

var globalRuleFiles = []string{
	"~/.config/secret-scout/rules.yaml",
	"~/.config/secret-scout/rules.yml",
	"~/.secret-scout/rules.yaml",
	"~/.secret-scout/rules.yml",
}

// LoadedRules is the outcome of resolving the full precedence chain: the
// evaluation-ready RuleSet plus the ordered list of contributing sources.
type LoadedRules struct {
	RuleSet types.RuleSet
	Sources []string
}

// Options customizes a Load call beyond the default precedence chain.
type Options struct {
	Builtin        string   // defaults to "default"
	ExtraRuleFiles []string // loaded last, in order given
}

// Load resolves the full precedence chain for a scan rooted at startDir:
// builtin pack, then the first global rules file found, then the nearest
// repo rules file walking up from startDir, then any explicit extra packs.
func Load(startDir string, opts Options) (LoadedRules, error) {
	builtin := opts.Builtin
	if builtin == "" {
		builtin = "default"
	}

	var merged []types.Rule
	var sources []string

	pack, err := LoadBuiltin(builtin)
	if err != nil {
		return LoadedRules{}, err
	}
	merged = mergeByID(merged, pack.Rules)
	sources = append(sources, pack.Source)

	if p := findGlobalRules(); p != "" {
		pack, err := LoadFromPath(p)
		if err != nil {
			return LoadedRules{}, err
		}
		merged = mergeByID(merged, pack.Rules)
		sources = append(sources, pack.Source)
	}

	if p := findRepoRules(startDir); p != "" {
		pack, err := LoadFromPath(p)
		if err != nil {
			return LoadedRules{}, err
		}
		merged = mergeByID(merged, pack.Rules)
		sources = append(sources, pack.Source)
	}

	for _, p := range opts.ExtraRuleFiles {
		pack, err := LoadFromPath(p)
		if err != nil {
			return LoadedRules{}, err
		}
		merged = mergeByID(merged, pack.Rules)
		sources = append(sources, pack.Source)
	}

	rs, err := BuildRuleSet(merged)
	if err != nil {
		return LoadedRules{}, err
	}
	return LoadedRules{RuleSet: rs, Sources: sources}, nil
}

func findRepoRules(startDir string) string {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}
	for {
		for _, rel := range repoRuleFiles {
			p := filepath.Join(dir, rel)
			if isFile(p) {
				return p
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func findGlobalRules() string {
	for _, s := range globalRuleFiles {
		p := expandHome(s)
		if isFile(p) {
			return p
		}
	}
	return ""
}

func isFile(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && !fi.IsDir()
}

func expandHome(p string) string {
	if len(p) >= 2 && p[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			return p
		}
		return filepath.Join(home, p[2:])
	}
	return p
}
