package secretscout

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/secretscout/secretscout/internal/orchestrator"
	"github.com/secretscout/secretscout/internal/scouterrors"
	"github.com/secretscout/secretscout/pkg/core"
)

var (
	flagGHOrg            string
	flagGHUser           string
	flagGHToken          string
	flagGHIncludePrivate bool
	flagGHInclude        []string
	flagGHExclude        []string
	flagGHRepos          []string
	flagGHIncludeForks   bool
	flagGHIncludeArchive bool
	flagGHMaxRepos       int
	flagGHConcurrency    int
	flagGHWorkspace      string
	flagGHKeepClones     bool
	flagGHShallow        bool
	flagGHDepth          int
	flagGHVerbose        bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "github",
		Short: "Clone and scan the repositories of a GitHub org or user",
		RunE:  runScanGitHub,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVar(&flagGHOrg, "org", "", "GitHub organization login (mutually exclusive with --user)")
	cmd.Flags().StringVar(&flagGHUser, "user", "", "GitHub user login (mutually exclusive with --org)")
	cmd.Flags().StringVar(&flagGHToken, "token", "", "GitHub access token (defaults to $GITHUB_TOKEN)")
	cmd.Flags().BoolVar(&flagGHIncludePrivate, "include-private", false, "list private repositories (requires a token with access)")
	cmd.Flags().StringSliceVar(&flagGHInclude, "repo-include", nil, "glob patterns a repo full_name must match")
	cmd.Flags().StringSliceVar(&flagGHExclude, "repo-exclude", nil, "glob patterns a repo full_name must not match")
	cmd.Flags().StringSliceVar(&flagGHRepos, "repos", nil, "explicit allow list of repo full names")
	cmd.Flags().BoolVar(&flagGHIncludeForks, "include-forks", false, "include forked repositories")
	cmd.Flags().BoolVar(&flagGHIncludeArchive, "include-archived", false, "include archived repositories")
	cmd.Flags().IntVar(&flagGHMaxRepos, "max-repos", 0, "cap the number of scanned repositories (0 = unlimited)")
	cmd.Flags().IntVar(&flagGHConcurrency, "concurrency", 4, "number of repositories cloned and scanned concurrently")
	cmd.Flags().StringVar(&flagGHWorkspace, "workspace", "", "directory to clone repositories into (default: a temp dir)")
	cmd.Flags().BoolVar(&flagGHKeepClones, "keep-clones", false, "keep cloned repositories on disk after the scan")
	cmd.Flags().BoolVar(&flagGHShallow, "shallow", true, "perform a shallow clone")
	cmd.Flags().IntVar(&flagGHDepth, "depth", 1, "clone depth when --shallow is set")
	cmd.Flags().BoolVar(&flagGHVerbose, "verbose", false, "print clone/scan lifecycle events to stderr")
}

func runScanGitHub(cmd *cobra.Command, _ []string) error {
	if (flagGHOrg == "") == (flagGHUser == "") {
		return scouterrors.ConfigError("exactly one of --org or --user is required", "")
	}

	var onEvent orchestrator.OnEvent
	if flagGHVerbose {
		onEvent = func(event orchestrator.EventType, repo, msg string) {
			fmt.Fprintf(os.Stderr, "%s %s %s\n", event, repo, msg)
		}
	}

	results, _, err := core.ScanGitHub(context.Background(), core.GitHubOptions{
		Token:          flagGHToken,
		Org:            flagGHOrg,
		User:           flagGHUser,
		IncludePrivate: flagGHIncludePrivate,
		Filter: orchestrator.RepoFilter{
			Include:         flagGHInclude,
			Exclude:         flagGHExclude,
			Repos:           flagGHRepos,
			IncludeArchived: flagGHIncludeArchive,
			IncludeForks:    flagGHIncludeForks,
			MaxRepos:        flagGHMaxRepos,
		},
		Clone: orchestrator.CloneOptions{
			Shallow:  flagGHShallow,
			Depth:    flagGHDepth,
			Blobless: true,
		},
		Concurrency:    flagGHConcurrency,
		Workspace:      flagGHWorkspace,
		KeepClones:     flagGHKeepClones,
		Builtin:        flagBuiltin,
		ExtraRuleFiles: flagRuleFiles,
		IgnoreGlobs:    flagIgnore,
		OnEvent:        onEvent,
	})
	if err != nil {
		return err
	}

	failed, err := printResults(results, flagFailOn)
	if err != nil {
		return err
	}
	if failed {
		os.Exit(int(scouterrors.ExitFindings))
	}
	return nil
}
