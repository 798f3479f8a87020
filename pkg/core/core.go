// Package core is the public facade over the scan pipeline: it wires
// configuration, rule loading, enumeration, and the scan engine together
// into the three supported entrypoints — a local directory, a Git working
// tree, and a set of hosted GitHub repositories.
package core

import (
	"context"

	"github.com/secretscout/secretscout/internal/auditlog"
	"github.com/secretscout/secretscout/internal/baseline"
	"github.com/secretscout/secretscout/internal/gitscan"
	"github.com/secretscout/secretscout/internal/orchestrator"
	"github.com/secretscout/secretscout/internal/provider"
	"github.com/secretscout/secretscout/internal/rules"
	"github.com/secretscout/secretscout/internal/scanengine"
	"github.com/secretscout/secretscout/internal/scoutconfig"
	"github.com/secretscout/secretscout/internal/structuredfmt"
	"github.com/secretscout/secretscout/internal/textio"
	"github.com/secretscout/secretscout/internal/types"
	"github.com/secretscout/secretscout/internal/walk"
)

// Re-exported types so callers depend only on this package.
type (
	Finding    = types.Finding
	ScanResult = types.ScanResult
	ScanConfig = types.ScanConfig
	ScanTarget = types.ScanTarget
	RuleSet    = types.RuleSet
)

// Options shared by every local-mode entrypoint.
type Options struct {
	Name            string
	Builtin         string
	ExtraRuleFiles  []string
	IgnoreGlobs     []string
	ConfigOverrides scoutconfig.Overrides
	BaselinePath    string
	FollowSymlinks  bool
	Audit           bool
}

// recordAudit appends a summary of result to root's audit log when enabled.
// Audit failures never fail the scan; they're a best-effort side channel.
func recordAudit(root string, enabled bool, result types.ScanResult) {
	if !enabled {
		return
	}
	_ = auditlog.New(root).Append(auditlog.RecordFromResult(result))
}

func loadRulesAndConfig(root string, opts Options) (rules.LoadedRules, types.ScanConfig, error) {
	cfg, err := scoutconfig.Load(root, opts.ConfigOverrides)
	if err != nil {
		return rules.LoadedRules{}, types.ScanConfig{}, err
	}
	loaded, err := rules.Load(root, rules.Options{
		Builtin:        opts.Builtin,
		ExtraRuleFiles: opts.ExtraRuleFiles,
	})
	if err != nil {
		return rules.LoadedRules{}, types.ScanConfig{}, err
	}
	return loaded, cfg, nil
}

func loadBaseline(path string) scanengine.Baseline {
	if path == "" {
		return nil
	}
	b, err := baseline.Load(path)
	if err != nil {
		return nil
	}
	return b
}

// ScanLocal scans a local directory using the filesystem enumerator.
func ScanLocal(root string, opts Options) (types.ScanResult, error) {
	loaded, cfg, err := loadRulesAndConfig(root, opts)
	if err != nil {
		return types.ScanResult{}, err
	}

	candidates, err := walk.Scan(root, cfg, opts.IgnoreGlobs, opts.FollowSymlinks)
	if err != nil {
		return types.ScanResult{}, err
	}

	name := opts.Name
	if name == "" {
		name = root
	}
	target := types.ScanTarget{Name: name, Kind: types.TargetLocal, Root: root}

	result := scanengine.Run(scanengine.Options{
		Target:     target,
		Candidates: candidates,
		RuleSet:    loaded.RuleSet,
		Config:     cfg,
		ReadText: func(c types.FileCandidate) (string, bool) {
			return textio.Read(c, cfg)
		},
		Baseline:          loadBaseline(opts.BaselinePath),
		StructuredParsers: structuredfmt.DefaultRegistry(),
		Dedupe:            true,
	})
	recordAudit(root, opts.Audit, result)
	return result, nil
}

// ScanGitOptions extends Options with Git-enumerator-specific knobs.
type GitOptions struct {
	Options
	IncludeUntracked bool
}

// ScanGit scans a Git working tree containing startDir using the Git
// enumerator (tracked/untracked/ignored union).
func ScanGit(startDir string, opts GitOptions) (types.ScanResult, error) {
	loaded, cfg, err := loadRulesAndConfig(startDir, opts.Options)
	if err != nil {
		return types.ScanResult{}, err
	}

	gitRoot, candidates, err := gitscan.Scan(startDir, cfg, opts.IgnoreGlobs, opts.IncludeUntracked)
	if err != nil {
		return types.ScanResult{}, err
	}

	name := opts.Name
	if name == "" {
		name = gitRoot
	}
	target := types.ScanTarget{Name: name, Kind: types.TargetLocal, Root: gitRoot, Metadata: map[string]string{"scanner": "git"}}

	result := scanengine.Run(scanengine.Options{
		Target:     target,
		Candidates: candidates,
		RuleSet:    loaded.RuleSet,
		Config:     cfg,
		ReadText: func(c types.FileCandidate) (string, bool) {
			return textio.Read(c, cfg)
		},
		Baseline:          loadBaseline(opts.BaselinePath),
		StructuredParsers: structuredfmt.DefaultRegistry(),
		Dedupe:            true,
	})
	recordAudit(gitRoot, opts.Audit, result)
	return result, nil
}

// GitHubOptions configures a multi-repository hosted scan.
type GitHubOptions struct {
	Token          string
	Org            string
	User           string
	IncludePrivate bool
	Filter         orchestrator.RepoFilter
	Clone          orchestrator.CloneOptions
	Concurrency    int
	Workspace      string
	KeepClones     bool
	Builtin        string
	ExtraRuleFiles []string
	IgnoreGlobs    []string
	OnEvent        orchestrator.OnEvent
}

// ScanGitHub lists, clones, and scans repositories under an org or user
// account, returning one ScanResult per selected repository.
func ScanGitHub(ctx context.Context, opts GitHubOptions) ([]types.ScanResult, string, error) {
	client := provider.NewClient(opts.Token)
	return orchestrator.Run(ctx, client, orchestrator.Options{
		Org:              opts.Org,
		User:             opts.User,
		IncludePrivate:   opts.IncludePrivate,
		IncludeUntracked: true,
		Clone:            opts.Clone,
		Concurrency:      opts.Concurrency,
		Workspace:        opts.Workspace,
		KeepClones:       opts.KeepClones,
		Builtin:          opts.Builtin,
		ExtraRuleFiles:   opts.ExtraRuleFiles,
		IgnoreGlobs:      opts.IgnoreGlobs,
		Filter:           opts.Filter,
		OnEvent:          opts.OnEvent,
	})
}
