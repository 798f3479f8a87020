package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/secretscout/secretscout/internal/scouterrors"
	"github.com/secretscout/secretscout/internal/types"
)

// ValidatePack checks a single pack's rules for duplicate ids and
// cross-field consistency before it takes part in a merge.
func ValidatePack(pack types.RulePack) error {
	return ValidateRules(pack.Rules)
}

// ValidateRules checks unique ids, compiles every enabled regex (pattern,
// allow-regexes, filename-as-regex), and rejects structured rules whose
// forbidden/allowed keys overlap after case-folding.
func ValidateRules(rules []types.Rule) error {
	if err := ensureUniqueIDs(rules); err != nil {
		return err
	}
	for _, r := range rules {
		if !r.Enabled {
			continue
		}
		for _, arx := range r.AllowRegexes {
			if _, err := regexp.Compile("(?i)" + arx); err != nil {
				return scouterrors.RulesError(
					fmt.Sprintf("invalid regex in %s.allow_regexes", r.ID), err.Error())
			}
		}

		switch r.Type {
		case "filename":
			if r.Filename == nil {
				return scouterrors.RulesError(fmt.Sprintf("rule %s declares type filename with no filename payload", r.ID), "")
			}
			if r.Filename.PatternType == types.PatternRegex {
				if _, err := regexp.Compile("(?i)" + r.Filename.Pattern); err != nil {
					return scouterrors.RulesError(fmt.Sprintf("invalid regex in %s.filename.pattern", r.ID), err.Error())
				}
			}
		case "regex":
			if r.Regex == nil {
				return scouterrors.RulesError(fmt.Sprintf("rule %s declares type regex with no regex payload", r.ID), "")
			}
			prefix := "(?i)"
			if r.Regex.Multiline {
				prefix = "(?ims)"
			}
			if _, err := regexp.Compile(prefix + r.Regex.Pattern); err != nil {
				return scouterrors.RulesError(fmt.Sprintf("invalid regex in %s.regex.pattern", r.ID), err.Error())
			}
		case "structured":
			if r.Structured == nil {
				return scouterrors.RulesError(fmt.Sprintf("rule %s declares type structured with no structured payload", r.ID), "")
			}
			fk := normKeySet(r.Structured.ForbiddenKeys, r.Structured.CaseInsensitiveKeys)
			ak := normKeySet(r.Structured.AllowedKeys, r.Structured.CaseInsensitiveKeys)
			var overlap []string
			for k := range fk {
				if ak[k] {
					overlap = append(overlap, k)
				}
			}
			if len(overlap) > 0 {
				sort.Strings(overlap)
				return scouterrors.RulesError(
					fmt.Sprintf("rule %s has keys present in both forbidden_keys and allowed_keys", r.ID),
					strings.Join(overlap, ", "))
			}
		default:
			return scouterrors.RulesError(fmt.Sprintf("unknown rule type %q in rule %s", r.Type, r.ID), "")
		}
	}
	return nil
}

func ensureUniqueIDs(rules []types.Rule) error {
	seen := make(map[string]bool, len(rules))
	var dups []string
	for _, r := range rules {
		if seen[r.ID] {
			dups = append(dups, r.ID)
		}
		seen[r.ID] = true
	}
	if len(dups) > 0 {
		sort.Strings(dups)
		return scouterrors.RulesError("duplicate rule ids", strings.Join(dups, ", "))
	}
	return nil
}

func normKeySet(keys []string, caseInsensitive bool) map[string]bool {
	out := make(map[string]bool, len(keys))
	for _, k := range keys {
		if caseInsensitive {
			k = strings.ToUpper(k)
		}
		out[k] = true
	}
	return out
}

// BuildRuleSet validates rules, then constructs the enabled,
// severity-descending, id-deduplicated RuleSet.
func BuildRuleSet(rules []types.Rule) (types.RuleSet, error) {
	if err := ValidateRules(rules); err != nil {
		return types.RuleSet{}, err
	}
	return types.NewRuleSet(rules), nil
}
