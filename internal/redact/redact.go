// Package redact implements sample truncation, value redaction, and a
// stable content hash used for deduplication and baseline identity.
package redact

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const redactedPlaceholder = "***REDACTED***"

// Value returns a redacted form of v, keeping the first and last keep
// characters. Empty or short values (len(v) <= 2*keep+2) collapse to the
// placeholder rather than leaking their shape.
func Value(v string, keep int) string {
	if v == "" || len(v) <= 2*keep+2 {
		return redactedPlaceholder
	}
	var b strings.Builder
	b.WriteString(v[:keep])
	b.WriteRune('…')
	b.WriteString(v[len(v)-keep:])
	return b.String()
}

// DefaultValue redacts v with the standard keep of 4.
func DefaultValue(v string) string {
	return Value(v, 4)
}

// Truncate returns v unchanged when it is at most maxLen runes, otherwise
// the first maxLen runes followed by an ellipsis.
func Truncate(v string, maxLen int) string {
	r := []rune(v)
	if len(r) <= maxLen {
		return v
	}
	return string(r[:maxLen]) + "…"
}

// DefaultTruncate truncates v at the standard sample length of 160.
func DefaultTruncate(v string) string {
	return Truncate(v, 160)
}

// StableHash joins parts with newlines, hashes with SHA-256, and returns
// the first 24 lower-case hex characters. Deterministic across runs;
// never a cryptographic integrity check, only a dedupe/identity key.
func StableHash(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\n")))
	return hex.EncodeToString(sum[:])[:24]
}

// Sample applies the standard truncate-then-redact pipeline used for raw
// match samples. When redactEnabled is false, only truncation is applied.
func Sample(raw string, redactEnabled bool) string {
	t := DefaultTruncate(raw)
	if !redactEnabled {
		return t
	}
	return DefaultValue(t)
}
