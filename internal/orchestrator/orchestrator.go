// Package orchestrator implements the multi-repo orchestrator (C8): lists,
// filters, clones, and scans remote repositories with a bounded worker
// pool, merging per-repository results — including partial failures — into
// one list of ScanResult.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/secretscout/secretscout/internal/gitscan"
	"github.com/secretscout/secretscout/internal/provider"
	"github.com/secretscout/secretscout/internal/rules"
	"github.com/secretscout/secretscout/internal/scanengine"
	"github.com/secretscout/secretscout/internal/structuredfmt"
	"github.com/secretscout/secretscout/internal/textio"
	"github.com/secretscout/secretscout/internal/types"
)

// EventType names a lifecycle event emitted during a repository's
// clone-then-scan lifecycle.
type EventType string

const (
	EventCloneStart EventType = "clone_start"
	EventCloneDone  EventType = "clone_done"
	EventScanStart  EventType = "scan_start"
	EventScanDone   EventType = "scan_done"
	EventRepoError  EventType = "repo_error"
)

// OnEvent is an optional callback invoked for each lifecycle event; it
// must be safe for concurrent use since workers call it from separate
// goroutines.
type OnEvent func(event EventType, repoFullName, message string)

// Options configures one orchestrator run.
type Options struct {
	Org            string // XOR User
	User           string
	IncludePrivate bool

	IncludeUntracked bool
	IncludeIgnored   bool

	Clone CloneOptions

	Concurrency int // >= 1
	Workspace   string
	KeepClones  bool

	Builtin        string
	ExtraRuleFiles []string
	IgnoreGlobs    []string

	Filter RepoFilter

	OnEvent OnEvent
}

// Run enumerates repositories from client, applies Filter, then clones and
// scans each survivor in a worker pool of size Options.Concurrency. The
// returned slice always has one entry per selected repository; a failed
// repository carries an empty findings list and a single ScanError.
func Run(ctx context.Context, client *provider.Client, opts Options) ([]types.ScanResult, string, error) {
	if (opts.Org == "") == (opts.User == "") {
		return nil, "", fmt.Errorf("exactly one of org or user must be provided")
	}

	var repos []provider.RepoInfo
	var err error
	if opts.Org != "" {
		repos, err = client.ListOrgRepos(ctx, opts.Org, opts.IncludePrivate)
	} else {
		repos, err = client.ListUserRepos(ctx, opts.User, opts.IncludePrivate)
	}
	if err != nil {
		return nil, "", err
	}
	repos = opts.Filter.Apply(repos)

	workspace := opts.Workspace
	if workspace == "" {
		workspace, err = os.MkdirTemp("", "secret-scout-gh-")
		if err != nil {
			return nil, "", err
		}
	} else {
		if err := os.MkdirAll(workspace, 0o755); err != nil {
			return nil, "", err
		}
	}
	clonesRoot := filepath.Join(workspace, "clones")
	if err := os.MkdirAll(clonesRoot, 0o755); err != nil {
		return nil, "", err
	}

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]types.ScanResult, len(repos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var mu sync.Mutex
	emit := func(event EventType, name, msg string) {
		if opts.OnEvent == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		opts.OnEvent(event, name, msg)
	}

	for i, repo := range repos {
		i, repo := i, repo
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = scanOneRepo(repo, clonesRoot, client.Token, opts, emit)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, workspace, err
	}

	if !opts.KeepClones && opts.Workspace == "" {
		defer os.RemoveAll(workspace)
	}
	return results, workspace, nil
}

func scanOneRepo(repo provider.RepoInfo, clonesRoot, token string, opts Options, emit func(EventType, string, string)) types.ScanResult {
	emit(EventCloneStart, repo.FullName, "")

	cloneStart := time.Now()
	repoPath, err := cloneRepo(repo, clonesRoot, token, opts.Clone)
	cloneMS := int(time.Since(cloneStart).Milliseconds())
	if err != nil {
		emit(EventRepoError, repo.FullName, err.Error())
		return failedResult(repo.FullName, err)
	}
	emit(EventCloneDone, repo.FullName, fmt.Sprintf("%d ms", cloneMS))

	emit(EventScanStart, repo.FullName, "")
	result, err := scanClonedRepo(repo, repoPath, cloneMS, opts)
	if err != nil {
		emit(EventRepoError, repo.FullName, err.Error())
		return failedResult(repo.FullName, err)
	}
	emit(EventScanDone, repo.FullName, fmt.Sprintf("%d findings", result.Stats.Findings))
	return result
}

func scanClonedRepo(repo provider.RepoInfo, repoPath string, cloneMS int, opts Options) (types.ScanResult, error) {
	loaded, err := rules.Load(repoPath, rules.Options{
		Builtin:        opts.Builtin,
		ExtraRuleFiles: opts.ExtraRuleFiles,
	})
	if err != nil {
		return types.ScanResult{}, err
	}

	config := types.DefaultScanConfig()
	config.IncludeIgnored = opts.IncludeIgnored

	gitRoot, candidates, err := gitscan.Scan(repoPath, config, opts.IgnoreGlobs, opts.IncludeUntracked)
	if err != nil {
		return types.ScanResult{}, err
	}

	target := types.ScanTarget{
		Name: repo.FullName,
		Kind: types.TargetGitHub,
		Root: gitRoot,
		Metadata: map[string]string{
			"scanner":  "git",
			"html_url": repo.HTMLURL,
			"private":  fmt.Sprint(repo.Private),
			"archived": fmt.Sprint(repo.Archived),
			"fork":     fmt.Sprint(repo.Fork),
			"clone_ms": fmt.Sprint(cloneMS),
		},
	}

	scanStart := time.Now()
	result := scanengine.Run(scanengine.Options{
		Target:     target,
		Candidates: candidates,
		RuleSet:    loaded.RuleSet,
		Config:     config,
		ReadText: func(c types.FileCandidate) (string, bool) {
			return textio.Read(c, config)
		},
		StructuredParsers: structuredfmt.DefaultRegistry(),
		Dedupe:            true,
	})
	scanMS := int(time.Since(scanStart).Milliseconds())
	if len(result.Targets) > 0 {
		result.Targets[0].Metadata["scan_ms"] = fmt.Sprint(scanMS)
	}
	return result, nil
}

// failedResult builds the ScanResult the spec mandates for a repository
// whose clone or scan lifecycle raised: empty target root, no findings,
// one ScanError with the literal message "GitHub repo scan failed".
func failedResult(fullName string, cause error) types.ScanResult {
	now := time.Now().UTC().Format(time.RFC3339)
	return types.ScanResult{
		StartedAt:  now,
		FinishedAt: now,
		Targets: []types.ScanTarget{{
			Name:     fullName,
			Kind:     types.TargetGitHub,
			Root:     "",
			Metadata: map[string]string{"scanner": "github"},
		}},
		Errors: []types.ScanError{{
			Target:  fullName,
			Message: "GitHub repo scan failed",
			Detail:  cause.Error(),
		}},
	}
}
