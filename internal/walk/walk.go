// Package walk implements the deterministic filesystem enumerator: a lazy
// stream of file candidates with directory pruning, symlink policy, and
// binary/size sniffing, without ever reading full file contents.
package walk

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/secretscout/secretscout/internal/matcher"
	"github.com/secretscout/secretscout/internal/types"
)

const sniffBytes = 8192

// Scan walks root and yields a FileCandidate for every eligible regular
// file, in the order the spec calls for: directories pruned by basename,
// symlinks skipped unless followSymlinks, siblings sorted lexicographically
// when config.Deterministic. The enumerator never reads full file content.
func Scan(root string, config types.ScanConfig, ignoreGlobs []string, followSymlinks bool) ([]types.FileCandidate, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	skipDirs := make(map[string]bool, len(config.SkipDirs))
	for _, d := range config.SkipDirs {
		skipDirs[d] = true
	}

	var candidates []types.FileCandidate

	var walkDir func(dir string) error
	walkDir = func(dir string) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil
		}
		if config.Deterministic {
			sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
		}

		for _, entry := range entries {
			p := filepath.Join(dir, entry.Name())

			if entry.IsDir() {
				if skipDirs[entry.Name()] {
					continue
				}
				if !followSymlinks && isSymlink(p) {
					continue
				}
				if err := walkDir(p); err != nil {
					return err
				}
				continue
			}

			if !followSymlinks && isSymlink(p) {
				continue
			}
			info, err := entry.Info()
			if err != nil || !info.Mode().IsRegular() {
				continue
			}

			rel, err := filepath.Rel(absRoot, p)
			if err != nil {
				continue
			}
			rel = matcher.NormalizeRelPath(rel)

			if len(ignoreGlobs) > 0 && matcher.AnyGlobMatch(rel, ignoreGlobs) {
				continue
			}

			candidates = append(candidates, buildCandidate(p, rel, info.Size()))
		}
		return nil
	}

	if err := walkDir(absRoot); err != nil {
		return nil, err
	}
	return candidates, nil
}

func buildCandidate(absPath, rel string, size int64) types.FileCandidate {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(rel), "."))
	return types.FileCandidate{
		AbsPath:   absPath,
		RelPath:   rel,
		SizeBytes: size,
		IsBinary:  isProbablyBinary(absPath),
		Extension: ext,
	}
}

func isSymlink(p string) bool {
	fi, err := os.Lstat(p)
	if err != nil {
		return true
	}
	return fi.Mode()&fs.ModeSymlink != 0
}

// isProbablyBinary sniffs the first sniffBytes bytes for a NUL byte.
// Unreadable files are flagged binary so the engine skips them rather than
// attempting a text read.
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
