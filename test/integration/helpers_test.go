//go:build integration

package integration_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// projectEnv holds the directories of one synthetic project.
type projectEnv struct {
	ProjectDir  string
	BuildDir    string
	InstallRoot string
	PackageDir  string
}

// setupProject creates a project tree with a manifest, headers, a
// script, and fake built artifacts.
func setupProject(t *testing.T, manifest string) *projectEnv {
	t.Helper()

	env := &projectEnv{
		ProjectDir:  t.TempDir(),
		BuildDir:    t.TempDir(),
		InstallRoot: t.TempDir(),
		PackageDir:  t.TempDir(),
	}

	writeFile(t, filepath.Join(env.ProjectDir, "pkgsmith.yaml"), manifest)
	writeFile(t, filepath.Join(env.ProjectDir, "src/core/include/demo/core.h"), "#pragma once\n")
	writeFile(t, filepath.Join(env.ProjectDir, "scripts/env.sh"), "#!/bin/sh\n")

	return env
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// copyHostBinary copies a real system executable into the build dir so
// the platform inspector has a genuine binary to read. Skips the test
// when none of the candidates exist.
func copyHostBinary(t *testing.T, dest string) {
	t.Helper()

	for _, candidate := range []string{"/bin/ls", "/usr/bin/ls", "/bin/sh"} {
		data, err := os.ReadFile(candidate)
		if err != nil {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(dest, data, 0755); err != nil {
			t.Fatal(err)
		}
		return
	}
	t.Skip("no host binary available to inspect")
}

// initGitRepo turns dir into a git repository with one tagged commit.
// Skips the test when git is unavailable.
func initGitRepo(t *testing.T, dir, tag string) {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}

	run("init", "-q")
	run("add", ".")
	run("commit", "-q", "-m", "initial")
	run("tag", "-a", tag, "-m", tag)
}
