package version

import (
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// gMarker strips the "g" object-name marker git inserts before the
// abbreviated hash segment, e.g. v2.4.0-7-gabc1234 → v2.4.0-7-abc1234.
var gMarker = regexp.MustCompile(`^(v\d+\.\d+\.\d+-\d+-)g`)

// gitDescribe runs `git describe` in dir against the nearest annotated
// tag, with the dirty suffix enabled.
func gitDescribe(dir string) (string, error) {
	out, err := runGit(dir, "describe", "--tags", "--long", "--dirty", "--match", "v[0-9]*")
	if err != nil {
		return "", &ToolError{Op: "describe", Err: err}
	}
	return gMarker.ReplaceAllString(out, "$1"), nil
}

// gitFullHash returns the unabbreviated hash of the current commit. The
// describe string only carries an abbreviated hash, which is ambiguous
// across clones with different abbreviation lengths.
func gitFullHash(dir string) (string, error) {
	out, err := runGit(dir, "rev-parse", "HEAD")
	if err != nil {
		return "", &ToolError{Op: "rev-parse", Err: err}
	}
	return out, nil
}

func runGit(dir string, args ...string) (string, error) {
	gitPath, err := exec.LookPath("git")
	if err != nil {
		return "", fmt.Errorf("git not found in PATH: %w", err)
	}

	cmd := exec.Command(gitPath, args...)
	cmd.Dir = dir

	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return "", err
		}
		return "", fmt.Errorf("%s: %w", msg, err)
	}

	return strings.TrimSpace(string(out)), nil
}
