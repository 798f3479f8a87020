package secretscout

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/secretscout/secretscout/internal/scouterrors"
	"github.com/secretscout/secretscout/pkg/core"
)

var (
	flagLocalPath           string
	flagLocalFollowSymlinks bool
	flagLocalAudit          bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "local",
		Short: "Scan a local directory",
		RunE:  runScanLocal,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVarP(&flagLocalPath, "path", "p", ".", "directory to scan")
	cmd.Flags().BoolVar(&flagLocalFollowSymlinks, "follow-symlinks", false, "follow symlinked directories during enumeration")
	cmd.Flags().BoolVar(&flagLocalAudit, "audit", false, "append a summary record to the scan audit log")
}

func runScanLocal(cmd *cobra.Command, _ []string) error {
	abs, err := filepath.Abs(flagLocalPath)
	if err != nil {
		return scouterrors.ConfigError("could not resolve scan path", err.Error())
	}

	result, err := core.ScanLocal(abs, core.Options{
		Builtin:        flagBuiltin,
		ExtraRuleFiles: flagRuleFiles,
		IgnoreGlobs:    flagIgnore,
		BaselinePath:   flagBaseline,
		FollowSymlinks: flagLocalFollowSymlinks,
		Audit:          flagLocalAudit,
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
