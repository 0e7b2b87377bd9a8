package assemble

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// nativeInstaller produces the native installer format for one desktop
// OS family. Generators degrade to a logged skip when the external
// packaging tool is not installed; missing tooling on a build host must
// not fail an otherwise valid assembly.
type nativeInstaller struct {
	tool  string // external command looked up in PATH
	ext   string // produced file extension
	build func(toolPath, stageDir, destPath string, a *Assembler) error
}

// installerFor returns the native installer generator for a target OS,
// or nil for OS families without one.
func installerFor(goos string) *nativeInstaller {
	switch goos {
	case "linux":
		return &nativeInstaller{tool: "dpkg-deb", ext: ".deb", build: buildDeb}
	case "darwin":
		return &nativeInstaller{tool: "pkgbuild", ext: ".pkg", build: buildPkg}
	case "windows":
		return &nativeInstaller{tool: "makensis", ext: ".exe", build: buildNSIS}
	}
	return nil
}

// run produces the installer file next to destBase (without extension).
// Returns the produced path, or "" with a skip reason when the tool is
// unavailable.
func (n *nativeInstaller) run(stageDir, destBase string, a *Assembler) (string, string, error) {
	toolPath, err := exec.LookPath(n.tool)
	if err != nil {
		return "", fmt.Sprintf("%s not found, skipping %s installer", n.tool, n.ext), nil
	}

	destPath := destBase + n.ext
	if err := n.build(toolPath, stageDir, destPath, a); err != nil {
		return "", "", fmt.Errorf("building %s installer: %w", n.ext, err)
	}
	return destPath, "", nil
}

// buildDeb stages a minimal Debian package layout under /usr and runs
// dpkg-deb --build.
func buildDeb(toolPath, stageDir, destPath string, a *Assembler) error {
	debRoot, err := os.MkdirTemp(filepath.Dir(destPath), "deb-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(debRoot)

	// Payload installs under /usr.
	if err := mirrorTree(stageDir, filepath.Join(debRoot, "usr")); err != nil {
		return err
	}

	control := fmt.Sprintf(`Package: %s
Version: %s
Architecture: %s
Maintainer: %s
Description: %s
`, strings.ToLower(a.manifest.Name), a.info.String(), debArch(a.targetArch), a.manifest.Name+" maintainers", a.manifest.Name)

	if err := os.MkdirAll(filepath.Join(debRoot, "DEBIAN"), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(debRoot, "DEBIAN", "control"), []byte(control), 0644); err != nil {
		return err
	}

	return runTool(toolPath, "--build", "--root-owner-group", debRoot, destPath)
}

// buildPkg wraps the staged tree with macOS pkgbuild.
func buildPkg(toolPath, stageDir, destPath string, a *Assembler) error {
	return runTool(toolPath,
		"--root", stageDir,
		"--identifier", "org."+strings.ToLower(a.manifest.Name),
		"--version", a.info.String(),
		"--install-location", "/usr/local",
		destPath)
}

// buildNSIS generates a minimal NSIS script over the staged tree and
// compiles it with makensis.
func buildNSIS(toolPath, stageDir, destPath string, a *Assembler) error {
	script := filepath.Join(filepath.Dir(destPath), a.manifest.Name+".nsi")

	var b strings.Builder
	fmt.Fprintf(&b, "Name %q\n", a.manifest.Name)
	fmt.Fprintf(&b, "OutFile %q\n", destPath)
	fmt.Fprintf(&b, "InstallDir \"$PROGRAMFILES64\\%s\"\n", a.manifest.Name)
	b.WriteString("Section\n")
	b.WriteString("  SetOutPath $INSTDIR\n")
	fmt.Fprintf(&b, "  File /r %q\n", stageDir+string(os.PathSeparator)+"*.*")
	b.WriteString("SectionEnd\n")

	if err := os.WriteFile(script, []byte(b.String()), 0644); err != nil {
		return err
	}
	defer os.Remove(script)

	return runTool(toolPath, script)
}

// debArch maps canonical architecture tokens to dpkg names.
func debArch(arch string) string {
	switch arch {
	case "386":
		return "i386"
	}
	return arch
}

func runTool(toolPath string, args ...string) error {
	cmd := exec.Command(toolPath, args...)
	cmd.Stdout = io.Discard
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("%s: %s: %w", filepath.Base(toolPath), msg, err)
		}
		return fmt.Errorf("%s: %w", filepath.Base(toolPath), err)
	}
	return nil
}

// mirrorTree copies every regular file and symlink under src into dst,
// preserving relative paths.
func mirrorTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			return os.MkdirAll(target, 0755)
		case d.Type()&os.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			return os.Symlink(link, target)
		case d.Type().IsRegular():
			return copyFile(path, target)
		}
		return nil
	})
}
