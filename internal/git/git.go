package git

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Status describes the vault file from git's point of view.
type Status struct {
	IsRepo  bool
	Tracked bool
	Ignored bool
}

// IsGitRepo checks if the working directory is inside a git repository
func IsGitRepo(ctx context.Context, workDir string) bool {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = workDir
	return cmd.Run() == nil
}

// IsTracked checks if a file is tracked by git
func IsTracked(ctx context.Context, workDir, path string) bool {
	cmd := exec.CommandContext(ctx, "git", "ls-files", "--", path)
	cmd.Dir = workDir
	output, err := cmd.Output()
	if err != nil {
		return false
	}

	return len(strings.TrimSpace(string(output))) > 0
}

// IsIgnored checks if a file is ignored by git (handles all .gitignore files)
func IsIgnored(ctx context.Context, workDir, path string) bool {
	cmd := exec.CommandContext(ctx, "git", "check-ignore", "-q", "--", path)
	cmd.Dir = workDir

	// git check-ignore returns exit code 0 if file is ignored
	return cmd.Run() == nil
}

// Check reports the git status of the vault file at vaultPath.
func Check(ctx context.Context, vaultPath string) *Status {
	workDir := filepath.Dir(vaultPath)
	name := filepath.Base(vaultPath)

	status := &Status{}
	if !IsGitRepo(ctx, workDir) {
		return status
	}
	status.IsRepo = true
	status.Tracked = IsTracked(ctx, workDir, name)
	status.Ignored = IsIgnored(ctx, workDir, name)
	return status
}

// Format renders status for the status command. It returns "" outside a
// repository.
func Format(status *Status, vaultPath string) string {
	if !status.IsRepo {
		return ""
	}

	name := filepath.Base(vaultPath)
	var result strings.Builder
	result.WriteString("\nGit:\n")
	switch {
	case status.Tracked:
		result.WriteString(fmt.Sprintf("   warning: %s is tracked by git, every saved version will be published\n", name))
		result.WriteString(fmt.Sprintf("      (run: git rm --cached %s)\n", name))
	case status.Ignored:
		result.WriteString(fmt.Sprintf("   ok: %s is in .gitignore\n", name))
	default:
		result.WriteString(fmt.Sprintf("   warning: %s not in .gitignore (add to .gitignore)\n", name))
	}
	return result.String()
}
