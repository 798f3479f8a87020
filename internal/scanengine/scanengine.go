// Package scanengine orchestrates the policy evaluator over a candidate
// stream: binary/size skip counters, per-file error recovery, an optional
// baseline hook, deduplication, and stable result ordering.
package scanengine

import (
	"fmt"
	"sort"
	"time"

	"github.com/secretscout/secretscout/internal/policy"
	"github.com/secretscout/secretscout/internal/structuredfmt"
	"github.com/secretscout/secretscout/internal/types"
)

// Baseline suppresses previously-accepted findings from a scan's results.
// Implementations may consult a baseline file keyed by match_hash or by
// the full dedupe key.
type Baseline interface {
	Suppress(findings []types.Finding) ([]types.Finding, error)
}

// Options configures a single Run call.
type Options struct {
	Target            types.ScanTarget
	Candidates        []types.FileCandidate
	RuleSet           types.RuleSet
	Config            types.ScanConfig
	ReadText          policy.TextReader
	Baseline          Baseline
	StructuredParsers structuredfmt.Registry
	Dedupe            bool
}

// Run executes a full scan: materializes and (when deterministic) sorts
// the candidate stream, evaluates each eligible candidate, applies the
// optional baseline, deduplicates, and seals a ScanResult.
func Run(opts Options) types.ScanResult {
	t0 := time.Now()
	startedAt := t0.UTC()

	candidates := append([]types.FileCandidate(nil), opts.Candidates...)
	if opts.Config.Deterministic {
		sort.Slice(candidates, func(i, j int) bool { return candidates[i].RelPath < candidates[j].RelPath })
	}

	result := types.ScanResult{
		StartedAt: startedAt.Format(time.RFC3339),
		Targets:   []types.ScanTarget{opts.Target},
	}
	result.Stats.FilesConsidered = len(candidates)

	evaluator := policy.NewEvaluator()
	var findings []types.Finding

	for _, c := range candidates {
		if c.IsBinary {
			result.Stats.FilesSkippedBinary++
			continue
		}
		if c.SizeBytes > opts.Config.MaxFileBytes {
			result.Stats.FilesSkippedTooLarge++
			continue
		}
		result.Stats.FilesScanned++

		fs := evaluateSafely(evaluator, opts, c, &result)
		findings = append(findings, fs...)
	}

	if opts.Baseline != nil {
		suppressed, err := opts.Baseline.Suppress(findings)
		if err != nil {
			result.Errors = append(result.Errors, types.ScanError{
				Target:  opts.Target.Name,
				Message: "Baseline suppression failed",
				Detail:  err.Error(),
			})
		} else {
			findings = suppressed
		}
	}

	if opts.Dedupe {
		findings = dedupe(findings)
	}

	result.Findings = findings
	result.Stats.Findings = len(findings)
	result.Stats.DurationMS = int(time.Since(t0).Milliseconds())
	result.FinishedAt = time.Now().UTC().Format(time.RFC3339)
	return result
}

// evaluateSafely wraps EvaluateFile so a panicking evaluator (e.g. a
// misbehaving injected reader) is converted into a recoverable ScanError
// instead of aborting the whole scan, matching the per-file recoverable
// error policy.
func evaluateSafely(evaluator *policy.Evaluator, opts Options, c types.FileCandidate, result *types.ScanResult) (findings []types.Finding) {
	defer func() {
		if r := recover(); r != nil {
			result.Errors = append(result.Errors, types.ScanError{
				Target:  opts.Target.Name,
				Message: fmt.Sprintf("Failed scanning file: %s", c.RelPath),
				Detail:  fmt.Sprint(r),
			})
			findings = nil
		}
	}()
	return evaluator.EvaluateFile(opts.Target.Name, c, opts.RuleSet, opts.Config, opts.ReadText, opts.StructuredParsers)
}

// dedupe keeps the first occurrence per (target, file, rule_id, line,
// match_hash) and returns the rest sorted by (file, rule_id, line,
// match_hash) for stable diffs.
func dedupe(findings []types.Finding) []types.Finding {
	type key struct {
		target, file, ruleID string
		line                 int
		matchHash            string
	}
	seen := make(map[key]bool, len(findings))
	out := make([]types.Finding, 0, len(findings))
	for _, f := range findings {
		k := key{f.Target, f.File, f.RuleID, f.Line, f.MatchHash}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, f)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.RuleID != b.RuleID {
			return a.RuleID < b.RuleID
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.MatchHash < b.MatchHash
	})
	return out
}
