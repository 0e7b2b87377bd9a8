package assemble

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pkgsmith-labs/pkgsmith/internal/registry"
	"github.com/pkgsmith-labs/pkgsmith/internal/version"
)

// LoaderDescriptor extends a consumer's module search path and points at
// the export manifest when the registry exported anything.
type LoaderDescriptor struct {
	Project     string   `yaml:"project"`
	SearchPaths []string `yaml:"search_paths"`
	Exports     string   `yaml:"exports,omitempty"`
}

// VersionDescriptor declares the installed version and its same-major
// compatibility rule.
type VersionDescriptor struct {
	Project       string `yaml:"project"`
	Version       string `yaml:"version"`
	Major         int    `yaml:"major"`
	Minor         int    `yaml:"minor"`
	Patch         int    `yaml:"patch"`
	Tweak         int    `yaml:"tweak,omitempty"`
	Commit        string `yaml:"commit,omitempty"`
	Dirty         bool   `yaml:"dirty,omitempty"`
	Compatibility string `yaml:"compatibility"`
}

// CompatibilitySameMajor is the only compatibility policy emitted: a
// request matches when it asks for the same major version at or below
// the installed minor/patch.
const CompatibilitySameMajor = "same-major"

// ExportEntry maps one exported target to its alias and install location.
type ExportEntry struct {
	Name     string `yaml:"name"`
	Kind     string `yaml:"kind"`
	Alias    string `yaml:"alias,omitempty"`
	Location string `yaml:"location,omitempty"`
}

// ExportManifest lists every exported target. Emitted only when the
// registry is non-empty.
type ExportManifest struct {
	Project string        `yaml:"project"`
	Targets []ExportEntry `yaml:"targets"`
}

// descriptor file names within the share directory.
func loaderName(project string) string  { return project + "-loader.yaml" }
func versionName(project string) string { return project + "-version.yaml" }
func exportsName(project string) string { return project + "-exports.yaml" }

// writeDescriptors emits the loader, version, and (when the registry is
// non-empty) export descriptors into the share directory.
func (a *Assembler) writeDescriptors(targets []*registry.TargetRecord, installed []InstalledFile, info version.Info, layout *Layout) ([]InstalledFile, error) {
	project := a.manifest.Name

	locations := make(map[string]string)
	for _, f := range installed {
		base := filepath.Base(f.RelPath)
		if _, ok := locations[base]; !ok {
			locations[base] = relToSlash(f.RelPath)
		}
	}

	loader := LoaderDescriptor{
		Project:     project,
		SearchPaths: []string{"lib"},
	}
	if a.targetOS == "windows" {
		loader.SearchPaths = []string{"bin"}
	}

	var exports *ExportManifest
	if len(targets) > 0 {
		exports = &ExportManifest{Project: project}
		for _, rec := range targets {
			entry := ExportEntry{
				Name:  rec.Name,
				Kind:  string(rec.Kind),
				Alias: rec.Alias,
			}
			if rec.ArtifactPath != "" {
				entry.Location = locations[filepath.Base(rec.ArtifactPath)]
			}
			exports.Targets = append(exports.Targets, entry)
		}
		loader.Exports = exportsName(project)
	}

	verDesc := VersionDescriptor{
		Project:       project,
		Version:       info.String(),
		Major:         info.Major,
		Minor:         info.Minor,
		Patch:         info.Patch,
		Tweak:         info.Tweak,
		Commit:        info.Hash,
		Dirty:         info.Dirty,
		Compatibility: CompatibilitySameMajor,
	}

	var files []InstalledFile

	write := func(name string, doc interface{}) error {
		rel := filepath.Join("share", project, name)
		if err := writeYAML(filepath.Join(layout.Root, rel), doc); err != nil {
			return err
		}
		files = append(files, InstalledFile{RelPath: rel, Component: ComponentDevelopment})
		return nil
	}

	if err := write(loaderName(project), &loader); err != nil {
		return nil, err
	}
	if err := write(versionName(project), &verDesc); err != nil {
		return nil, err
	}
	if exports != nil {
		if err := write(exportsName(project), exports); err != nil {
			return nil, err
		}
	}

	return files, nil
}

// writeYAML marshals doc and writes it to path, creating parents.
func writeYAML(path string, doc interface{}) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", filepath.Base(path), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
