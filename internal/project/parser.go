package project

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// Load reads, validates, and parses the manifest in dir.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse validates raw manifest bytes against the schema and unmarshals
// them. The path is used only for error messages.
func Parse(data []byte, path string) (*Manifest, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("validating manifest %s: %w", path, err)
	}
	if !result.Valid {
		return nil, fmt.Errorf("manifest %s is invalid:\n%s", path, result.Summary())
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	if m.Namespace == "" {
		m.Namespace = m.Name
	}
	for i := range m.Targets {
		if m.Targets[i].SourceRoot == "" {
			m.Targets[i].SourceRoot = filepath.Join("src", m.Targets[i].Name)
		}
	}

	return &m, nil
}

// DevelopmentRequested reports whether the development component was
// requested for the redistributable package.
func (m *Manifest) DevelopmentRequested() bool {
	for _, c := range m.Package.Components {
		if c == "development" {
			return true
		}
	}
	return false
}

// InstallerEnabled reports whether native installer generation is on.
// Defaults to true when the manifest does not say otherwise.
func (m *Manifest) InstallerEnabled() bool {
	if m.Package.Installer == nil {
		return true
	}
	return *m.Package.Installer
}
