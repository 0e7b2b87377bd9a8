package platform

import (
	"fmt"
	"runtime"
	"strings"
)

// CanonicalOS normalizes an operating system identifier to its lowercase
// canonical token. Vendor spellings of the same OS collapse to one name.
// Normalization is idempotent.
func CanonicalOS(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linux", "gnu/linux":
		return "linux"
	case "darwin", "macos", "macosx", "osx", "mac os x":
		return "darwin"
	case "windows", "win32", "win64", "mingw", "msys", "cygwin":
		return "windows"
	case "freebsd":
		return "freebsd"
	default:
		return strings.ToLower(strings.TrimSpace(s))
	}
}

// CanonicalArch normalizes a CPU architecture identifier to its
// lowercase canonical token, unifying vendor spellings (AMD64, x86_64
// and x64 all mean amd64). Normalization is idempotent.
func CanonicalArch(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "amd64", "x86_64", "x86-64", "x64", "em64t":
		return "amd64"
	case "arm64", "aarch64":
		return "arm64"
	case "386", "i386", "i486", "i586", "i686", "x86":
		return "386"
	case "arm", "armv7", "armv7l":
		return "arm"
	case "riscv64":
		return "riscv64"
	default:
		return strings.ToLower(strings.TrimSpace(s))
	}
}

// HostOS returns the canonical token for the running OS.
func HostOS() string { return CanonicalOS(runtime.GOOS) }

// HostArch returns the canonical token for the running architecture.
func HostArch() string { return CanonicalArch(runtime.GOARCH) }

// PackageBaseName computes the redistributable file name stem:
// <project>-<version>-<os>-<arch>.
func PackageBaseName(project, version, os, arch string) string {
	return fmt.Sprintf("%s-%s-%s-%s", project, version, CanonicalOS(os), CanonicalArch(arch))
}
