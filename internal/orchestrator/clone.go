package orchestrator

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/secretscout/secretscout/internal/provider"
	"github.com/secretscout/secretscout/internal/scouterrors"
)

// CloneOptions controls how a repository is fetched into the workspace.
type CloneOptions struct {
	Shallow  bool
	Depth    int
	Blobless bool
}

// cloneRepo clones repo into destRoot/<owner>__<name>, removing any
// existing contents first (only when the destination is under destRoot).
// The token, when present, is injected via http.extraheader and never
// appears in the clone URL.
func cloneRepo(repo provider.RepoInfo, destRoot, token string, opts CloneOptions) (string, error) {
	if err := os.MkdirAll(destRoot, 0o755); err != nil {
		return "", scouterrors.ScanExecutionError("could not create clone workspace", err.Error())
	}

	safeDir := strings.ReplaceAll(repo.OwnerLogin()+"__"+repo.Name, "/", "__")
	dest, err := filepath.Abs(filepath.Join(destRoot, safeDir))
	if err != nil {
		return "", scouterrors.ScanExecutionError("could not resolve clone destination", err.Error())
	}

	absRoot, err := filepath.Abs(destRoot)
	if err == nil && strings.HasPrefix(dest, absRoot) {
		if _, statErr := os.Stat(dest); statErr == nil {
			os.RemoveAll(dest)
		}
	}

	args := []string{"clone"}
	if opts.Shallow {
		depth := opts.Depth
		if depth < 1 {
			depth = 1
		}
		args = append(args, "--depth", strconv.Itoa(depth))
	}
	if opts.Blobless {
		args = append(args, "--filter=blob:none")
	}

	if token != "" {
		header := "http.extraheader=AUTHORIZATION: bearer " + token
		args = append([]string{"-c", header}, args...)
	}
	args = append(args, repo.CloneURL, dest)

	cmd := exec.Command("git", args...)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", scouterrors.ScanExecutionError(
			"git clone failed for "+repo.FullName, strings.TrimSpace(stderr.String()))
	}
	return dest, nil
}
