package secretscout

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/secretscout/secretscout/internal/scouterrors"
	"github.com/secretscout/secretscout/pkg/core"
)

var (
	flagGitPath             string
	flagGitIncludeUntracked bool
	flagGitAudit            bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "git",
		Short: "Scan a Git working tree (tracked, untracked, and ignored files)",
		RunE:  runScanGit,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVarP(&flagGitPath, "path", "p", ".", "path inside the Git working tree")
	cmd.Flags().BoolVar(&flagGitIncludeUntracked, "include-untracked", true, "include untracked files in the candidate stream")
	cmd.Flags().BoolVar(&flagGitAudit, "audit", false, "append a summary record to the scan audit log")
}

func runScanGit(cmd *cobra.Command, _ []string) error {
	abs, err := filepath.Abs(flagGitPath)
	if err != nil {
		return scouterrors.ConfigError("could not resolve scan path", err.Error())
	}

	result, err := core.ScanGit(abs, core.GitOptions{
		Options: core.Options{
			Builtin:        flagBuiltin,
			ExtraRuleFiles: flagRuleFiles,
			IgnoreGlobs:    flagIgnore,
			BaselinePath:   flagBaseline,
			Audit:          flagGitAudit,
		},
		IncludeUntracked: flagGitIncludeUntracked,
	})
	if err != nil {
		return err
	}

	failed, err := printResult(result, flagFailOn)
	if err != nil {
		return err
	}
	if failed {
		os.Exit(int(scouterrors.ExitFindings))
	}
	return nil
}
