package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func gitAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func run(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
}

func TestCheckOutsideRepo(t *testing.T) {
	gitAvailable(t)
	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))

	status := Check(context.Background(), filepath.Join(dir, ".monorga"))
	if status.IsRepo {
		t.Fatal("temp dir should not be a repository")
	}
	if out := Format(status, ".monorga"); out != "" {
		t.Errorf("expected no output outside a repo, got %q", out)
	}
}

func TestCheckTrackedAndIgnored(t *testing.T) {
	gitAvailable(t)
	dir := t.TempDir()
	vaultPath := filepath.Join(dir, ".monorga")
	run(t, dir, "init", "-q")

	if err := os.WriteFile(vaultPath, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	status := Check(context.Background(), vaultPath)
	if !status.IsRepo || status.Tracked || status.Ignored {
		t.Fatalf("unexpected status for new file: %+v", status)
	}
	if !strings.Contains(Format(status, vaultPath), "not in .gitignore") {
		t.Error("expected .gitignore warning")
	}

	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(".monorga\n"), 0644); err != nil {
		t.Fatal(err)
	}
	status = Check(context.Background(), vaultPath)
	if !status.Ignored {
		t.Fatalf("expected vault to be ignored: %+v", status)
	}
	if !strings.Contains(Format(status, vaultPath), "ok: .monorga is in .gitignore") {
		t.Error("expected ok line")
	}

	run(t, dir, "add", "-f", ".monorga")
	status = Check(context.Background(), vaultPath)
	if !status.Tracked {
		t.Fatalf("expected vault to be tracked: %+v", status)
	}
	if !strings.Contains(Format(status, vaultPath), "git rm --cached .monorga") {
		t.Error("expected tracked warning")
	}
}
