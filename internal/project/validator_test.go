package project

import "testing"

func TestValidateAcceptsWellFormedManifest(t *testing.T) {
	result, err := Validate([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !result.Valid {
		t.Fatalf("manifest reported invalid:\n%s", result.Summary())
	}
}

func TestValidateReportsIssuesWithPaths(t *testing.T) {
	bad := `name: "123bad"
targets:
  - name: ok
    kind: library
  - name: broken
    kind: dll
filters:
  - phase: sometime
    pattern: x
`
	result, err := Validate([]byte(bad))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if result.Valid {
		t.Fatal("invalid manifest reported valid")
	}
	if len(result.Issues) < 2 {
		t.Errorf("len(Issues) = %d, want at least 2:\n%s", len(result.Issues), result.Summary())
	}

	paths := make(map[string]bool)
	for _, issue := range result.Issues {
		paths[issue.Path] = true
	}
	if !paths["/targets/1/kind"] {
		t.Errorf("no issue at /targets/1/kind; got %v", paths)
	}
}

func TestValidateRejectsUnknownTopLevelKeys(t *testing.T) {
	result, err := Validate([]byte("name: x\ntargets: []\nextra: true\n"))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if result.Valid {
		t.Error("manifest with unknown key reported valid")
	}
}

func TestValidateRejectsMalformedYAML(t *testing.T) {
	if _, err := Validate([]byte(": not yaml\n\t")); err == nil {
		t.Error("Validate accepted malformed YAML")
	}
}
