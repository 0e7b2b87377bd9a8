package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestCreateAndReadSymlink(t *testing.T) {
	if runtime.GOOS == "windows" && !IsSymlinkSupported() {
		t.Skip("native symlinks unavailable")
	}

	dir := t.TempDir()
	target := filepath.Join(dir, "libcore.so.1.2.3")
	if err := os.WriteFile(target, []byte("lib"), 0644); err != nil {
		t.Fatal(err)
	}

	link := filepath.Join(dir, "libcore.so")
	if err := CreateSymlink(target, link); err != nil {
		t.Fatalf("CreateSymlink: %v", err)
	}

	got, err := ReadSymlinkTarget(link)
	if err != nil {
		t.Fatalf("ReadSymlinkTarget: %v", err)
	}
	if got != target {
		t.Errorf("target = %q, want %q", got, target)
	}
}

func TestRemoveSymlink(t *testing.T) {
	if runtime.GOOS == "windows" && !IsSymlinkSupported() {
		t.Skip("native symlinks unavailable")
	}

	dir := t.TempDir()
	target := filepath.Join(dir, "file")
	if err := os.WriteFile(target, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	link := filepath.Join(dir, "link")
	if err := CreateSymlink(target, link); err != nil {
		t.Fatalf("CreateSymlink: %v", err)
	}
	if err := RemoveSymlink(link); err != nil {
		t.Fatalf("RemoveSymlink: %v", err)
	}
	if _, err := os.Lstat(link); !os.IsNotExist(err) {
		t.Error("link still exists after RemoveSymlink")
	}
}

func TestChmod(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bin")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Chmod(path, 0755); err != nil {
		t.Fatalf("Chmod: %v", err)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0755 {
			t.Errorf("mode = %v, want 0755", info.Mode().Perm())
		}
	}
}
