// Package gitscan implements the Git-backed enumerator (C5): it locates the
// enclosing repository root and produces the same FileCandidate stream as
// the filesystem enumerator, sourced from `git ls-files` instead of a
// directory walk.
package gitscan

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/secretscout/secretscout/internal/matcher"
	"github.com/secretscout/secretscout/internal/scouterrors"
	"github.com/secretscout/secretscout/internal/types"
)

func runGit(dir string, args ...string) ([]byte, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, scouterrors.ScanExecutionError(
			"git "+strings.Join(args, " ")+" failed",
			strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// Root locates the enclosing repository root for startDir.
func Root(startDir string) (string, error) {
	out, err := runGit(startDir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	root := strings.TrimSpace(string(out))
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	return abs, nil
}

func splitNULPaths(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	parts := bytes.Split(data, []byte{0})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if len(p) == 0 {
			continue
		}
		out = append(out, string(p))
	}
	return out
}

// Scan enumerates the union of tracked, optionally untracked-not-ignored,
// and optionally ignored files under the repository containing startDir,
// returning the Git root and the resulting FileCandidate list.
func Scan(startDir string, config types.ScanConfig, ignoreGlobs []string, includeUntracked bool) (string, []types.FileCandidate, error) {
	root, err := Root(startDir)
	if err != nil {
		return "", nil, err
	}

	tracked, err := runGit(root, "ls-files", "-z")
	if err != nil {
		return "", nil, err
	}
	all := make(map[string]bool)
	for _, p := range splitNULPaths(tracked) {
		all[p] = true
	}

	if includeUntracked {
		others, err := runGit(root, "ls-files", "-z", "--others", "--exclude-standard")
		if err != nil {
			return "", nil, err
		}
		for _, p := range splitNULPaths(others) {
			all[p] = true
		}

		if config.IncludeIgnored {
			ignored, err := runGit(root, "ls-files", "-z", "--others", "-i", "--exclude-standard")
			if err != nil {
				return "", nil, err
			}
			for _, p := range splitNULPaths(ignored) {
				all[p] = true
			}
		}
	}

	skipDirs := make(map[string]bool, len(config.SkipDirs))
	for _, d := range config.SkipDirs {
		skipDirs[d] = true
	}

	ordered := make([]string, 0, len(all))
	for p := range all {
		ordered = append(ordered, p)
	}
	if config.Deterministic {
		sort.Strings(ordered)
	}

	var candidates []types.FileCandidate
	for _, rel := range ordered {
		relNorm := matcher.NormalizeRelPath(rel)

		if pathHasSkipDir(relNorm, skipDirs) {
			continue
		}
		if len(ignoreGlobs) > 0 && matcher.AnyGlobMatch(relNorm, ignoreGlobs) {
			continue
		}

		absPath := filepath.Join(root, relNorm)
		info, err := os.Stat(absPath)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		candidates = append(candidates, types.FileCandidate{
			AbsPath:   absPath,
			RelPath:   relNorm,
			SizeBytes: info.Size(),
			IsBinary:  isProbablyBinary(absPath),
			Extension: strings.ToLower(strings.TrimPrefix(filepath.Ext(relNorm), ".")),
		})
	}

	return root, candidates, nil
}

func pathHasSkipDir(relPath string, skipDirs map[string]bool) bool {
	for _, part := range strings.Split(relPath, "/") {
		if skipDirs[part] {
			return true
		}
	}
	return false
}

const sniffBytes = 8192

func isProbablyBinary(p string) bool {
	f, err := os.Open(p)
	if err != nil {
		return true
	}
	defer f.Close()

	buf := make([]byte, sniffBytes)
	n, err := f.Read(buf)
	if err != nil && n == 0 {
		return false
	}
	for _, b := range buf[:n] {
		if b == 0 {
			return true
		}
	}
	return false
}
