// Package secretscout is the Cobra-based CLI entrypoint: thin subcommands
// that parse flags, build pkg/core options, run a scan, and render the
// result as JSON or a human-readable summary.
package secretscout

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/secretscout/secretscout/internal/scouterrors"
)

var (
	flagJSON      bool
	flagQuiet     bool
	flagFailOn    string
	flagBaseline  string
	flagBuiltin   string
	flagRuleFiles []string
	flagIgnore    []string

	version = "0.1.0"
)

// rootCmd is the base command for the secret-scout CLI.
var rootCmd = &cobra.Command{
	Use:           "secret-scout",
	Short:         "Find committed secrets before they ship",
	Long:          "secret-scout walks a local directory, a Git working tree, or a set of hosted GitHub repositories and reports findings against a layered rule pack.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI and maps the resulting error to an exit code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(int(scouterrors.ForExitCode(err, false)))
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit the scan result as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagQuiet, "quiet", false, "suppress the human-readable summary")
	rootCmd.PersistentFlags().StringVar(&flagFailOn, "fail-on", "low", "minimum severity that triggers a nonzero exit: critical|high|medium|low")
	rootCmd.PersistentFlags().StringVar(&flagBaseline, "baseline", "", "path to a baseline file of previously accepted findings")
	rootCmd.PersistentFlags().StringVar(&flagBuiltin, "builtin", "default", "name of the embedded builtin rule pack to load")
	rootCmd.PersistentFlags().StringSliceVar(&flagRuleFiles, "rules", nil, "extra rule pack files, applied after builtin/global/repo packs")
	rootCmd.PersistentFlags().StringSliceVar(&flagIgnore, "ignore", nil, "extra glob patterns to exclude from the candidate stream")
}
