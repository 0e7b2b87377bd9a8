package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleManifest = `name: mylib
namespace: mylib
targets:
  - name: core
    kind: shared-library
    source_root: src/core
    artifact: build/libcore.so
  - name: tool
    kind: executable
    artifact: build/tool
  - name: hdrs
    kind: interface
    source_root: src/hdrs
scripts:
  - scripts/setup.sh
filters:
  - phase: pre-resolve
    pattern: '^libcuda\.so'
package:
  components: [runtime, development]
`

func TestParseManifest(t *testing.T) {
	m, err := Parse([]byte(sampleManifest), "pkgsmith.yaml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if m.Name != "mylib" {
		t.Errorf("Name = %q, want %q", m.Name, "mylib")
	}
	if len(m.Targets) != 3 {
		t.Fatalf("len(Targets) = %d, want 3", len(m.Targets))
	}
	if m.Targets[0].Kind != "shared-library" {
		t.Errorf("Targets[0].Kind = %q, want shared-library", m.Targets[0].Kind)
	}
	if len(m.Filters) != 1 || m.Filters[0].Phase != "pre-resolve" {
		t.Errorf("Filters = %+v, want one pre-resolve entry", m.Filters)
	}
	if !m.DevelopmentRequested() {
		t.Error("DevelopmentRequested = false, want true")
	}
	if !m.InstallerEnabled() {
		t.Error("InstallerEnabled = false, want true by default")
	}
}

func TestParseDefaultsNamespaceAndSourceRoot(t *testing.T) {
	m, err := Parse([]byte("name: solo\ntargets:\n  - name: app\n    kind: executable\n"), "pkgsmith.yaml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Namespace != "solo" {
		t.Errorf("Namespace = %q, want project name", m.Namespace)
	}
	if m.Targets[0].SourceRoot != filepath.Join("src", "app") {
		t.Errorf("SourceRoot = %q, want src/app", m.Targets[0].SourceRoot)
	}
}

func TestParseRejectsUnknownKind(t *testing.T) {
	_, err := Parse([]byte("name: x\ntargets:\n  - name: a\n    kind: framework\n"), "pkgsmith.yaml")
	if err == nil {
		t.Fatal("Parse accepted unknown target kind")
	}
	if !strings.Contains(err.Error(), "/targets/0/kind") {
		t.Errorf("error %q does not point at the offending field", err)
	}
}

func TestParseRejectsMissingName(t *testing.T) {
	_, err := Parse([]byte("targets: []\n"), "pkgsmith.yaml")
	if err == nil {
		t.Fatal("Parse accepted manifest without a name")
	}
}

func TestLoadFromDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ManifestName), []byte(sampleManifest), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Name != "mylib" {
		t.Errorf("Name = %q, want %q", m.Name, "mylib")
	}

	if _, err := Load(t.TempDir()); err == nil {
		t.Error("Load succeeded without a manifest file")
	}
}
