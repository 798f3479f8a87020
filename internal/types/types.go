// Package types defines the data model shared across the scanning pipeline:
// candidates, rules, rule packs, findings, and scan results.
package types

import "sort"

// Severity is a coarse-grained risk level for a finding or rule, ordered
// critical > high > medium > low.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// severityRank gives the sort weight used for severity-descending ordering;
// lower rank sorts first.
var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityMedium:   2,
	SeverityLow:      3,
}

// Rank returns the sort weight for s; unknown severities sort last.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return len(severityRank)
}

// FileCandidate is an immutable descriptor for a file an enumerator has
// decided is eligible for evaluation. Created by an enumerator (filesystem
// or Git), never mutated, and its lifetime spans a single evaluation call.
type FileCandidate struct {
	AbsPath   string
	RelPath   string // forward-slash normalized, relative to the scan root
	SizeBytes int64
	IsBinary  bool
	Extension string // lower-case, without leading dot; "" when absent
}

// PatternType selects how a filename rule's pattern is interpreted.
type PatternType string

const (
	PatternGlob  PatternType = "glob"
	PatternRegex PatternType = "regex"
)

// RegexScope selects whether a regex rule is applied to the whole file
// buffer or line by line.
type RegexScope string

const (
	ScopeFile RegexScope = "file"
	ScopeLine RegexScope = "line"
)

// ValuePolicy selects the violation condition for a structured rule's
// matched key/value pairs.
type ValuePolicy string

const (
	PolicyAny                ValuePolicy = "any"
	PolicyNonEmpty           ValuePolicy = "non_empty"
	PolicyMustReferenceEnv   ValuePolicy = "must_reference_env"
	PolicyMustReferenceVault ValuePolicy = "must_reference_vault"
	PolicyPlaintext          ValuePolicy = "plaintext"
)

// StructuredFormat names a declared structured-file format a rule targets.
type StructuredFormat string

const (
	FormatJSON StructuredFormat = "json"
	FormatYAML StructuredFormat = "yaml"
	FormatTOML StructuredFormat = "toml"
	FormatEnv  StructuredFormat = "env"
)

// FilenameVariant is the payload of a filename rule: a pattern matched
// against the candidate's relative path.
type FilenameVariant struct {
	Pattern     string      `yaml:"pattern"`
	PatternType PatternType `yaml:"pattern_type"`
}

// RegexVariant is the payload of a content regex rule.
type RegexVariant struct {
	Pattern    string     `yaml:"pattern"`
	Multiline  bool       `yaml:"multiline"`
	Scope      RegexScope `yaml:"scope"`
	MaxMatches int        `yaml:"max_matches"`
}

// StructuredVariant is the payload of a structured key/value policy rule.
type StructuredVariant struct {
	Format              StructuredFormat `yaml:"format"`
	ForbiddenKeys       []string         `yaml:"forbidden_keys"`
	AllowedKeys         []string         `yaml:"allowed_keys"`
	CaseInsensitiveKeys bool             `yaml:"case_insensitive_keys"`
	ValuePolicy         ValuePolicy      `yaml:"value_policy"`
}

// Rule is an immutable, id-identified unit of policy. Exactly one of
// Filename, Regex, or Structured is populated, matching Type.
type Rule struct {
	ID          string   `yaml:"id"`
	Type        string   `yaml:"type"` // "filename" | "regex" | "structured"
	Severity    Severity `yaml:"severity"`
	Enabled     bool     `yaml:"enabled"`
	Description string   `yaml:"description,omitempty"`

	Include     []string `yaml:"include,omitempty"`
	Exclude     []string `yaml:"exclude,omitempty"`
	AllowPaths  []string `yaml:"allow_paths,omitempty"`
	AllowRegexes []string `yaml:"allow_regexes,omitempty"`

	Filename   *FilenameVariant   `yaml:"filename,omitempty"`
	Regex      *RegexVariant      `yaml:"regex,omitempty"`
	Structured *StructuredVariant `yaml:"structured,omitempty"`
}

// RulePack is a loaded, unmerged document: metadata plus an ordered rule
// list, as read from one YAML source.
type RulePack struct {
	Name        string
	Version     string
	Description string
	Source      string // identifies the pack's origin: "builtin", a file path, etc.
	Rules       []Rule
}

// RuleSet is the enabled, severity-descending, id-deduplicated rule list
// ready for evaluation by the policy evaluator.
type RuleSet struct {
	Rules []Rule
}

// NewRuleSet builds a RuleSet from merged rules: keeps only enabled rules,
// sorts by severity descending (stable, so equal severities preserve merge
// order), then drops later duplicates by id.
func NewRuleSet(rules []Rule) RuleSet {
	enabled := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.Enabled {
			enabled = append(enabled, r)
		}
	}
	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].Severity.Rank() < enabled[j].Severity.Rank()
	})
	seen := make(map[string]bool, len(enabled))
	deduped := make([]Rule, 0, len(enabled))
	for _, r := range enabled {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		deduped = append(deduped, r)
	}
	return RuleSet{Rules: deduped}
}

// FindingKind categorizes a finding by which rule variant produced it.
type FindingKind string

const (
	KindFilename   FindingKind = "filename"
	KindContent    FindingKind = "content"
	KindStructured FindingKind = "structured"
)

// Finding is an immutable record of a single rule-positive outcome at a
// target/file location.
type Finding struct {
	Target    string      `json:"target"`
	File      string      `json:"file"`
	Kind      FindingKind `json:"kind"`
	RuleID    string      `json:"rule_id"`
	Severity  Severity    `json:"severity"`
	Message   string      `json:"message"`
	Line      int         `json:"line,omitempty"` // 0 when not line-scoped
	Sample    string      `json:"sample,omitempty"`
	Key       string      `json:"key,omitempty"`        // structured findings only
	ValueHint string      `json:"value_hint,omitempty"` // structured findings only
	MatchHash string      `json:"match_hash"`
}

// ScanStats holds the file-level counters and timing for one scan.
type ScanStats struct {
	FilesConsidered       int `json:"files_considered"`
	FilesScanned          int `json:"files_scanned"`
	FilesSkippedBinary    int `json:"files_skipped_binary"`
	FilesSkippedTooLarge  int `json:"files_skipped_too_large"`
	Findings              int `json:"findings"`
	DurationMS            int `json:"duration_ms"`
}

// TargetKind distinguishes a local filesystem/Git scan from a hosted
// repository scan.
type TargetKind string

const (
	TargetLocal  TargetKind = "local"
	TargetGitHub TargetKind = "github"
)

// ScanTarget is the logical unit being scanned: a local directory or one
// remote repository.
type ScanTarget struct {
	Name     string            `json:"name"`
	Kind     TargetKind        `json:"kind"`
	Root     string            `json:"root"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ScanError is a recoverable error captured during a scan: per-file,
// per-baseline, or per-repository, depending on where it was appended.
type ScanError struct {
	Target  string `json:"target"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// ScanResult is the sealed outcome of one scan: its target(s), findings,
// errors, and stats. Created at scan start, sealed at return; callers must
// not share a ScanResult across scans.
type ScanResult struct {
	StartedAt  string       `json:"started_at"`  // UTC, RFC3339
	FinishedAt string       `json:"finished_at"` // UTC, RFC3339
	Targets    []ScanTarget `json:"targets"`
	Findings   []Finding    `json:"findings"`
	Errors     []ScanError  `json:"errors"`
	Stats      ScanStats    `json:"stats"`
}

// ScanConfig is the read-only configuration consumed by the enumerators and
// engine for a single scan.
type ScanConfig struct {
	MaxFileBytes    int64    `yaml:"max_file_bytes"`
	SkipDirs        []string `yaml:"skip_dirs"`
	IncludeIgnored  bool     `yaml:"include_ignored"`
	Deterministic   bool     `yaml:"deterministic"`
	Redact          bool     `yaml:"redact"`
}

// DefaultScanConfig returns the baseline configuration layer before any
// user overrides are merged in.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		MaxFileBytes:   1 << 20, // 1 MiB
		SkipDirs:       []string{".git", "node_modules", "vendor", "dist", "build", ".venv", "__pycache__"},
		IncludeIgnored: false,
		Deterministic:  true,
		Redact:         true,
	}
}
