// Package baseline implements the optional suppression hook the scan
// engine consults after evaluation: findings already accepted into a
// baseline file are dropped from subsequent scans.
package baseline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/secretscout/secretscout/internal/types"
)

// Baseline is a set of previously accepted finding identities, keyed by
// (target, file, rule_id, line, match_hash).
type Baseline struct {
	Items map[string]bool `json:"items"`
}

// Load reads a baseline file. A missing or unparseable file yields an
// empty baseline rather than an error, since a baseline is optional.
func Load(path string) (Baseline, error) {
	b := Baseline{Items: map[string]bool{}}
	raw, err := os.ReadFile(path)
	if err != nil {
		return b, err
	}
	if err := json.Unmarshal(raw, &b); err != nil {
		return b, err
	}
	if b.Items == nil {
		b.Items = map[string]bool{}
	}
	return b, nil
}

// Save writes findings as a new baseline, replacing any existing file.
func Save(path string, findings []types.Finding) error {
	b := Baseline{Items: map[string]bool{}}
	for _, f := range findings {
		b.Items[key(f)] = true
	}
	buf, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}

// Suppress drops findings already present in the baseline, satisfying the
// scanengine.Baseline interface.
func (b Baseline) Suppress(findings []types.Finding) ([]types.Finding, error) {
	out := make([]types.Finding, 0, len(findings))
	for _, f := range findings {
		if !b.Items[key(f)] {
			out = append(out, f)
		}
	}
	return out, nil
}

func key(f types.Finding) string {
	return fmt.Sprintf("%s|%s|%s|%d|%s", f.Target, f.File, f.RuleID, f.Line, f.MatchHash)
}
