// Package textio implements the safe text-reader contract shared by the
// policy evaluator and scan engine: refuse binary and oversize candidates,
// otherwise decode as UTF-8 with a latin-1 fallback.
package textio

import (
	"os"
	"unicode/utf8"

	"github.com/secretscout/secretscout/internal/types"
)

// Read returns the candidate's textual content, or ("", false) when the
// candidate is binary, exceeds config.MaxFileBytes, or cannot be read.
func Read(candidate types.FileCandidate, config types.ScanConfig) (string, bool) {
	if candidate.IsBinary {
		return "", false
	}
	if candidate.SizeBytes > config.MaxFileBytes {
		return "", false
	}

	raw, err := os.ReadFile(candidate.AbsPath)
	if err != nil {
		return "", false
	}

	if utf8.Valid(raw) {
		return string(raw), true
	}
	return decodeLatin1(raw), true
}

func decodeLatin1(raw []byte) string {
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b)
	}
	return string(runes)
}
