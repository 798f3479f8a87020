// Package policy implements the per-file rule evaluator: dispatch over
// filename, regex, and structured rule variants with allow-list
// suppression, producing Findings with redacted samples and stable hashes.
package policy

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/secretscout/secretscout/internal/matcher"
	"github.com/secretscout/secretscout/internal/redact"
	"github.com/secretscout/secretscout/internal/structuredfmt"
	"github.com/secretscout/secretscout/internal/types"
)

// TextReader returns the file's textual content, or ("", false) when the
// candidate violates the binary/size/read policy and must be skipped.
type TextReader func(candidate types.FileCandidate) (string, bool)

// Evaluator evaluates file candidates against a RuleSet. It owns the
// shared regex cache so repeated evaluations across many files reuse
// compiled patterns.
type Evaluator struct {
	regexCache *matcher.Cache
}

// NewEvaluator constructs an Evaluator with its own regex cache.
func NewEvaluator() *Evaluator {
	return &Evaluator{regexCache: matcher.NewCache()}
}

// EvaluateFile evaluates a single candidate against every rule in ruleset,
// in RuleSet order, returning findings in scan order.
func (e *Evaluator) EvaluateFile(
	target string,
	candidate types.FileCandidate,
	ruleset types.RuleSet,
	config types.ScanConfig,
	readText TextReader,
	parsers structuredfmt.Registry,
) []types.Finding {
	var findings []types.Finding
	rel := matcher.NormalizeRelPath(candidate.RelPath)

	for _, rule := range ruleset.Rules {
		if !matcher.IsPathIncluded(rel, rule.Include, rule.Exclude) {
			continue
		}
		if len(rule.AllowPaths) > 0 && matcher.AnyGlobMatch(rel, rule.AllowPaths) {
			continue
		}

		switch rule.Type {
		case "filename":
			findings = append(findings, e.evalFilename(target, rel, rule)...)

		case "regex":
			text, ok := readText(candidate)
			if !ok {
				continue
			}
			findings = append(findings, e.evalRegex(target, rel, rule, text, config.Redact)...)

		case "structured":
			if rule.Structured == nil || parsers == nil {
				continue
			}
			parser, ok := parsers[rule.Structured.Format]
			if !ok {
				continue
			}
			text, ok := readText(candidate)
			if !ok {
				continue
			}
			findings = append(findings, e.evalStructured(target, rel, rule, text, parser, config.Redact)...)
		}
	}
	return findings
}

func (e *Evaluator) evalFilename(target, rel string, rule types.Rule) []types.Finding {
	if rule.Filename == nil {
		return nil
	}
	var matched bool
	if rule.Filename.PatternType == types.PatternGlob {
		matched = matcher.AnyGlobMatch(rel, []string{rule.Filename.Pattern})
	} else {
		rx, err := e.regexCache.Compile(rule.Filename.Pattern, false)
		matched = err == nil && rx.MatchString(rel)
	}
	if !matched {
		return nil
	}
	return []types.Finding{{
		Target:    target,
		File:      rel,
		Kind:      types.KindFilename,
		RuleID:    rule.ID,
		Severity:  rule.Severity,
		Message:   messageOr(rule.Description, "Suspicious filename detected"),
		MatchHash: redact.StableHash(rule.ID, rel, "filename"),
	}}
}

func (e *Evaluator) allowRegexSuppresses(rule types.Rule, text string) bool {
	for _, arx := range rule.AllowRegexes {
		rx, err := e.regexCache.Compile(arx, false)
		if err != nil {
			continue
		}
		if rx.MatchString(text) {
			return true
		}
	}
	return false
}

func (e *Evaluator) evalRegex(target, rel string, rule types.Rule, text string, redactEnabled bool) []types.Finding {
	if rule.Regex == nil {
		return nil
	}
	rx, err := e.regexCache.Compile(rule.Regex.Pattern, rule.Regex.Multiline)
	if err != nil {
		return nil
	}

	var out []types.Finding
	maxMatches := rule.Regex.MaxMatches

	if rule.Regex.Scope == types.ScopeFile {
		count := 0
		for _, m := range rx.FindAllString(text, -1) {
			if e.allowRegexSuppresses(rule, m) {
				continue
			}
			out = append(out, types.Finding{
				Target:    target,
				File:      rel,
				Kind:      types.KindContent,
				RuleID:    rule.ID,
				Severity:  rule.Severity,
				Message:   messageOr(rule.Description, "Secret-like pattern detected"),
				Sample:    redact.Sample(strings.TrimSpace(m), redactEnabled),
				MatchHash: redact.StableHash(rule.ID, rel, "content", "file", m),
			})
			count++
			if count >= maxMatches {
				break
			}
		}
		return out
	}

	count := 0
	for idx, line := range strings.Split(text, "\n") {
		lineNum := idx + 1
		if len(line) < 4 {
			continue
		}
		if e.allowRegexSuppresses(rule, line) {
			continue
		}
		for _, m := range rx.FindAllString(line, -1) {
			if e.allowRegexSuppresses(rule, m) {
				continue
			}
			out = append(out, types.Finding{
				Target:    target,
				File:      rel,
				Kind:      types.KindContent,
				RuleID:    rule.ID,
				Severity:  rule.Severity,
				Message:   messageOr(rule.Description, "Secret-like pattern detected"),
				Line:      lineNum,
				Sample:    redact.Sample(strings.TrimSpace(m), redactEnabled),
				MatchHash: redact.StableHash(rule.ID, rel, "content", fmt.Sprint(lineNum), m),
			})
			count++
			if count >= maxMatches {
				return out
			}
		}
	}
	return out
}

func (e *Evaluator) evalStructured(
	target, rel string,
	rule types.Rule,
	text string,
	parser structuredfmt.Parser,
	redactEnabled bool,
) []types.Finding {
	cfg := rule.Structured
	data, err := parser(text)
	if err != nil || data == nil {
		return nil
	}

	norm := func(k string) string {
		if cfg.CaseInsensitiveKeys {
			return strings.ToUpper(k)
		}
		return k
	}
	forbidden := normSet(cfg.ForbiddenKeys, norm)
	allowed := normSet(cfg.AllowedKeys, norm)

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []types.Finding
	for _, key := range keys {
		v := data[key]
		nk := norm(key)

		if len(allowed) > 0 && allowed[nk] {
			continue
		}
		if len(forbidden) > 0 && !forbidden[nk] {
			continue
		}

		sv := stringifyValue(v)
		if !valueViolatesPolicy(cfg.ValuePolicy, v, sv) {
			continue
		}

		var hint string
		if v != nil {
			hint = redact.Sample(sv, redactEnabled)
		}

		out = append(out, types.Finding{
			Target:    target,
			File:      rel,
			Kind:      types.KindStructured,
			RuleID:    rule.ID,
			Severity:  rule.Severity,
			Message:   messageOr(rule.Description, "Forbidden key detected"),
			Key:       key,
			ValueHint: hint,
			MatchHash: redact.StableHash(rule.ID, rel, "structured", key, sv),
		})
	}
	return out
}

func normSet(keys []string, norm func(string) string) map[string]bool {
	out := make(map[string]bool, len(keys))
	for _, k := range keys {
		out[norm(k)] = true
	}
	return out
}

func stringifyValue(v any) string {
	if v == nil {
		return "None"
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func valueViolatesPolicy(policy types.ValuePolicy, raw any, stringified string) bool {
	switch policy {
	case types.PolicyAny:
		return true
	case types.PolicyNonEmpty:
		return strings.TrimSpace(stringified) != ""
	case types.PolicyMustReferenceEnv:
		s := strings.TrimSpace(stringified)
		return !(strings.HasPrefix(s, "$") || strings.HasPrefix(s, "${"))
	case types.PolicyMustReferenceVault:
		s := strings.TrimSpace(stringified)
		return !strings.HasPrefix(s, "vault://")
	case types.PolicyPlaintext:
		return looksPlaintextSecret(strings.TrimSpace(stringified))
	default:
		return true
	}
}

func looksPlaintextSecret(s string) bool {
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, "${") || strings.HasPrefix(s, "$") || strings.HasPrefix(s, "vault://") {
		return false
	}
	if len(s) < 12 {
		return false
	}
	hasAlpha := false
	hasOther := false
	for _, c := range s {
		if unicode.IsLetter(c) {
			hasAlpha = true
		}
		if unicode.IsDigit(c) || strings.ContainsRune("_-+/=.", c) {
			hasOther = true
		}
	}
	return hasAlpha && hasOther
}

func messageOr(description, fallback string) string {
	if description != "" {
		return description
	}
	return fallback
}
