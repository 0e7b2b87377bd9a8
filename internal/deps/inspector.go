package deps

import (
	"debug/elf"
	"debug/macho"
	"debug/pe"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Inspector enumerates and locates the dynamic-link dependencies of a
// built artifact. The platform-specific mechanism sits behind this
// interface so it can be swapped out in tests.
type Inspector interface {
	// EnumerateDependencies returns the direct dependency names
	// referenced by the artifact at path.
	EnumerateDependencies(path string) ([]string, error)
	// Resolve locates a dependency name on disk using the platform's
	// dynamic-library search order.
	Resolve(name string) (string, bool)
}

// NewInspector returns the link-time inspector for a target OS,
// searching the given directories in order. With an empty searchPaths
// the platform default order from DefaultSearchPaths is used.
func NewInspector(goos string, searchPaths []string) (Inspector, error) {
	if len(searchPaths) == 0 {
		searchPaths = DefaultSearchPaths(goos)
	}
	switch goos {
	case "linux":
		return &elfInspector{searchPaths: searchPaths}, nil
	case "darwin":
		return &machoInspector{searchPaths: searchPaths}, nil
	case "windows":
		return &peInspector{searchPaths: searchPaths}, nil
	}
	return nil, fmt.Errorf("no dependency inspector for OS %q", goos)
}

// DefaultSearchPaths returns the standard dynamic-library search order
// for a target OS: the loader path environment variable first, then the
// conventional system directories.
func DefaultSearchPaths(goos string) []string {
	var paths []string
	switch goos {
	case "linux":
		paths = appendEnvPaths(paths, "LD_LIBRARY_PATH")
		paths = append(paths, "/lib", "/lib64", "/usr/lib", "/usr/lib64", "/usr/local/lib")
	case "darwin":
		paths = appendEnvPaths(paths, "DYLD_LIBRARY_PATH")
		paths = append(paths, "/usr/lib", "/usr/local/lib")
	case "windows":
		paths = appendEnvPaths(paths, "PATH")
	}
	return paths
}

func appendEnvPaths(paths []string, envVar string) []string {
	for _, p := range filepath.SplitList(os.Getenv(envVar)) {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// searchFor stats name under each directory in order and returns the
// first hit as an absolute path.
func searchFor(name string, searchPaths []string) (string, bool) {
	for _, dir := range searchPaths {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			if abs, err := filepath.Abs(candidate); err == nil {
				return abs, true
			}
			return candidate, true
		}
	}
	return "", false
}

// elfInspector reads DT_NEEDED entries from ELF binaries.
type elfInspector struct {
	searchPaths []string
}

func (i *elfInspector) EnumerateDependencies(path string) ([]string, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading ELF %s: %w", path, err)
	}
	defer f.Close()

	libs, err := f.ImportedLibraries()
	if err != nil {
		return nil, fmt.Errorf("reading DT_NEEDED of %s: %w", path, err)
	}
	return libs, nil
}

func (i *elfInspector) Resolve(name string) (string, bool) {
	return searchFor(name, i.searchPaths)
}

// machoInspector reads LC_LOAD_DYLIB install names from Mach-O binaries.
type machoInspector struct {
	searchPaths []string
}

func (i *machoInspector) EnumerateDependencies(path string) ([]string, error) {
	f, err := macho.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading Mach-O %s: %w", path, err)
	}
	defer f.Close()

	libs, err := f.ImportedLibraries()
	if err != nil {
		return nil, fmt.Errorf("reading load commands of %s: %w", path, err)
	}
	return libs, nil
}

func (i *machoInspector) Resolve(name string) (string, bool) {
	// Install names are usually absolute; @rpath/@loader_path prefixed
	// names fall back to the search directories by base name.
	if filepath.IsAbs(name) {
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			return name, true
		}
		return "", false
	}
	base := name
	if strings.HasPrefix(name, "@") {
		base = filepath.Base(name)
	}
	return searchFor(base, i.searchPaths)
}

// peInspector reads the import table of PE binaries.
type peInspector struct {
	searchPaths []string
}

func (i *peInspector) EnumerateDependencies(path string) ([]string, error) {
	f, err := pe.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading PE %s: %w", path, err)
	}
	defer f.Close()

	// debug/pe has no ImportedLibraries implementation; recover the DLL
	// names from the "symbol:dll" pairs of the import table instead.
	syms, err := f.ImportedSymbols()
	if err != nil {
		return nil, fmt.Errorf("reading import table of %s: %w", path, err)
	}

	seen := make(map[string]bool)
	var libs []string
	for _, s := range syms {
		idx := strings.LastIndex(s, ":")
		if idx < 0 {
			continue
		}
		dll := s[idx+1:]
		if dll != "" && !seen[dll] {
			seen[dll] = true
			libs = append(libs, dll)
		}
	}
	return libs, nil
}

func (i *peInspector) Resolve(name string) (string, bool) {
	return searchFor(name, i.searchPaths)
}
