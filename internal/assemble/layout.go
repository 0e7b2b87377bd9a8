package assemble

import "path/filepath"

// Component names an installable subset of a package. The runtime
// component ships in redistributables by default; development only on
// request.
type Component string

const (
	ComponentRuntime     Component = "runtime"
	ComponentDevelopment Component = "development"
)

// Layout maps the logical install tree onto a root directory.
type Layout struct {
	Root    string
	project string
}

// NewLayout creates a layout rooted at root for the named project.
func NewLayout(root, project string) *Layout {
	return &Layout{Root: root, project: project}
}

// BinDir holds executables and, on Windows, runtime DLLs.
func (l *Layout) BinDir() string { return filepath.Join(l.Root, "bin") }

// LibDir holds shared, module, and static libraries plus bundled
// runtime dependencies on Unix-like systems.
func (l *Layout) LibDir() string { return filepath.Join(l.Root, "lib") }

// IncludeDir is the merged public header tree.
func (l *Layout) IncludeDir() string { return filepath.Join(l.Root, "include") }

// ShareDir is the project's metadata directory for descriptors and
// auxiliary build-integration scripts.
func (l *Layout) ShareDir() string { return filepath.Join(l.Root, "share", l.project) }

// InstalledFile records one file materialized into the install tree,
// tagged with the component it belongs to. Paths are relative to Root.
type InstalledFile struct {
	RelPath   string
	Component Component
}
