package secretscout

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/secretscout/secretscout/internal/types"
)

var severityRank = map[string]int{
	"critical": 0,
	"high":     1,
	"medium":   2,
	"low":      3,
}

// printResult renders a single ScanResult as JSON (--json) or a short
// human-readable summary, then returns whether any finding at or above
// failOn was present.
func printResult(result types.ScanResult, failOn string) (bool, error) {
	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return false, err
		}
	} else if !flagQuiet {
		printSummary(result)
	}
	return exceedsThreshold(result.Findings, failOn), nil
}

func printResults(results []types.ScanResult, failOn string) (bool, error) {
	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return false, err
		}
	} else if !flagQuiet {
		for _, r := range results {
			printSummary(r)
		}
	}
	fails := false
	for _, r := range results {
		if exceedsThreshold(r.Findings, failOn) {
			fails = true
		}
	}
	return fails, nil
}

func printSummary(result types.ScanResult) {
	name := "?"
	if len(result.Targets) > 0 {
		name = result.Targets[0].Name
	}
	fmt.Printf("%s: %d finding(s), %d file(s) scanned, %d error(s)\n",
		name, result.Stats.Findings, result.Stats.FilesScanned, len(result.Errors))
	for _, f := range result.Findings {
		fmt.Printf("  [%s] %s:%d %s (%s)\n", f.Severity, f.File, f.Line, f.RuleID, f.Sample)
	}
	for _, e := range result.Errors {
		fmt.Printf("  error: %s: %s\n", e.Target, e.Message)
	}
}

func exceedsThreshold(findings []types.Finding, failOn string) bool {
	threshold, ok := severityRank[failOn]
	if !ok {
		threshold = severityRank["low"]
	}
	for _, f := range findings {
		if rank, ok := severityRank[string(f.Severity)]; ok && rank <= threshold {
			return true
		}
	}
	return false
}
