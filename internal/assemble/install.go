package assemble

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkgsmith-labs/pkgsmith/internal/platform"
	"github.com/pkgsmith-labs/pkgsmith/internal/registry"
)

// excludedNames are entries skipped when copying header trees.
var excludedNames = map[string]bool{
	".git":      true,
	".DS_Store": true,
}

// versionedLib matches Unix shared-library names carrying a version
// suffix, e.g. libcore.so.1.2.3 or libcore.1.2.3.dylib.
var versionedLib = regexp.MustCompile(`^(.+\.so)\.[0-9.]+$|^(.+?)\.[0-9.]+\.dylib$`)

// installTarget copies one built artifact into the layout and returns
// the files it materialized.
func (a *Assembler) installTarget(rec *registry.TargetRecord, layout *Layout) ([]InstalledFile, error) {
	if rec.ArtifactPath == "" {
		return nil, nil
	}

	var files []InstalledFile

	switch rec.Kind {
	case registry.KindExecutable:
		rel := filepath.Join("bin", filepath.Base(rec.ArtifactPath))
		dst := filepath.Join(layout.Root, rel)
		if err := copyFile(rec.ArtifactPath, dst); err != nil {
			return nil, fmt.Errorf("installing executable %s: %w", rec.Name, err)
		}
		if err := platform.Chmod(dst, 0755); err != nil {
			return nil, fmt.Errorf("setting executable mode on %s: %w", dst, err)
		}
		files = append(files, InstalledFile{RelPath: rel, Component: ComponentRuntime})

	case registry.KindSharedLibrary, registry.KindModuleLibrary:
		dir := "lib"
		if a.targetOS == "windows" {
			// DLLs load from the executable directory.
			dir = "bin"
		}
		base := filepath.Base(rec.ArtifactPath)
		rel := filepath.Join(dir, base)
		dst := filepath.Join(layout.Root, rel)
		if err := copyFile(rec.ArtifactPath, dst); err != nil {
			return nil, fmt.Errorf("installing library %s: %w", rec.Name, err)
		}
		files = append(files, InstalledFile{RelPath: rel, Component: ComponentRuntime})

		// Versioned Unix libraries get an unversioned development
		// symlink, the name the link editor resolves at build time.
		if link := unversionedName(base); link != "" && a.targetOS != "windows" {
			linkRel := filepath.Join(dir, link)
			linkDst := filepath.Join(layout.Root, linkRel)
			os.Remove(linkDst) // re-install over a stale link
			if err := platform.CreateSymlink(base, linkDst); err != nil {
				return nil, fmt.Errorf("linking %s: %w", linkRel, err)
			}
			files = append(files, InstalledFile{RelPath: linkRel, Component: ComponentDevelopment})
		}

	case registry.KindLibrary:
		rel := filepath.Join("lib", filepath.Base(rec.ArtifactPath))
		if err := copyFile(rec.ArtifactPath, filepath.Join(layout.Root, rel)); err != nil {
			return nil, fmt.Errorf("installing static library %s: %w", rec.Name, err)
		}
		files = append(files, InstalledFile{RelPath: rel, Component: ComponentDevelopment})
	}

	return files, nil
}

// installHeaders merges one target's header roots into the shared
// include tree. Missing roots are skipped: interface targets may declare
// roots generated only in some configurations.
func (a *Assembler) installHeaders(rec *registry.TargetRecord, layout *Layout) ([]InstalledFile, error) {
	var files []InstalledFile
	for _, root := range rec.HeaderRoots {
		if _, err := os.Stat(root); err != nil {
			continue
		}
		copied, err := copyTree(root, layout.IncludeDir())
		if err != nil {
			return nil, fmt.Errorf("installing headers of %s from %s: %w", rec.Name, root, err)
		}
		for _, rel := range copied {
			files = append(files, InstalledFile{
				RelPath:   filepath.Join("include", rel),
				Component: ComponentDevelopment,
			})
		}
	}
	return files, nil
}

// installScripts copies auxiliary build-integration scripts into the
// project's share directory.
func (a *Assembler) installScripts(layout *Layout) ([]InstalledFile, error) {
	var files []InstalledFile
	for _, script := range a.manifest.Scripts {
		src := filepath.Join(a.opts.ProjectDir, script)
		rel := filepath.Join("share", a.manifest.Name, filepath.Base(script))
		if err := copyFile(src, filepath.Join(layout.Root, rel)); err != nil {
			return nil, fmt.Errorf("installing script %s: %w", script, err)
		}
		files = append(files, InstalledFile{RelPath: rel, Component: ComponentDevelopment})
	}
	return files, nil
}

// installBundle copies resolved runtime dependencies alongside the
// runtime binaries: bin/ on Windows, lib/ elsewhere.
func (a *Assembler) installBundle(bundleFiles []string, layout *Layout) ([]InstalledFile, error) {
	dir := "lib"
	if a.targetOS == "windows" {
		dir = "bin"
	}

	var files []InstalledFile
	for _, src := range bundleFiles {
		rel := filepath.Join(dir, filepath.Base(src))
		if err := copyFile(src, filepath.Join(layout.Root, rel)); err != nil {
			return nil, fmt.Errorf("bundling %s: %w", src, err)
		}
		files = append(files, InstalledFile{RelPath: rel, Component: ComponentRuntime})
	}
	return files, nil
}

// unversionedName returns the development link name for a versioned
// library file name, or "" when the name carries no version suffix.
func unversionedName(base string) string {
	m := versionedLib.FindStringSubmatch(base)
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return m[1] // libcore.so.1.2.3 → libcore.so
	}
	return m[2] + ".dylib" // libcore.1.2.3.dylib → libcore.dylib
}

// copyFile copies src to dst, creating parent directories.
func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// copyTree recursively copies src into dst and returns the relative
// paths of the regular files it copied. Entries in excludedNames and
// special files are skipped.
func copyTree(src, dst string) ([]string, error) {
	var copied []string

	err := filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if excludedNames[d.Name()] {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if err := copyFile(path, filepath.Join(dst, rel)); err != nil {
			return err
		}
		copied = append(copied, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return copied, nil
}

// relToSlash renders an install-relative path with forward slashes for
// descriptor output.
func relToSlash(rel string) string {
	return strings.ReplaceAll(filepath.ToSlash(rel), "//", "/")
}
