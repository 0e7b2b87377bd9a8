package version

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/Masterminds/semver/v3"
)

// describeRe matches describe output for tags created by release tooling:
// v<major>.<minor>.<patch>-<tweak>-<abbrev-hash>[-dirty].
var describeRe = regexp.MustCompile(`^v(\d+)\.(\d+)\.(\d+)-(\d+)-([0-9a-f]+)(-dirty)?$`)

// Info holds the resolved project version. Computed once per invocation
// and immutable thereafter.
type Info struct {
	Major int
	Minor int
	Patch int
	Tweak int    // commits since the matching tag
	Hash  string // full commit hash, from rev-parse, not the describe abbreviation
	Dirty bool
}

// ParseError indicates a describe string that does not match the expected
// tag grammar. It is fatal and never retried.
type ParseError struct {
	Describe string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("describe output %q does not match v<major>.<minor>.<patch>-<tweak>-<hash>[-dirty]", e.Describe)
}

// ToolError indicates the source-control tool was unavailable or a query
// failed. Fatal unless the caller supplied a version explicitly.
type ToolError struct {
	Op  string
	Err error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("git %s: %v", e.Op, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

// Parse parses a describe string into an Info. The Hash field is left
// empty; Resolve fills it from a separate full-hash query.
func Parse(describe string) (Info, error) {
	m := describeRe.FindStringSubmatch(describe)
	if m == nil {
		return Info{}, &ParseError{Describe: describe}
	}

	// The regexp guarantees digit-only groups; Atoi cannot fail here.
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	patch, _ := strconv.Atoi(m[3])
	tweak, _ := strconv.Atoi(m[4])

	return Info{
		Major: major,
		Minor: minor,
		Patch: patch,
		Tweak: tweak,
		Dirty: m[6] != "",
	}, nil
}

// Resolve queries git in dir for the nearest matching annotated tag and
// the full hash of the current commit.
func Resolve(dir string) (Info, error) {
	describe, err := gitDescribe(dir)
	if err != nil {
		return Info{}, err
	}

	info, err := Parse(describe)
	if err != nil {
		return Info{}, err
	}

	hash, err := gitFullHash(dir)
	if err != nil {
		return Info{}, err
	}
	info.Hash = hash

	return info, nil
}

// ParseSupplied parses an externally supplied version string of the form
// <major>.<minor>.<patch> (a leading "v" is tolerated). Used when the
// caller provides the version instead of deriving it from history.
func ParseSupplied(s string) (Info, error) {
	v, err := semver.StrictNewVersion(trimV(s))
	if err != nil {
		return Info{}, fmt.Errorf("parsing supplied version %q: %w", s, err)
	}
	return Info{
		Major: int(v.Major()),
		Minor: int(v.Minor()),
		Patch: int(v.Patch()),
	}, nil
}

// String renders the version as <major>.<minor>.<patch>, with the tweak
// count appended as a fourth segment when nonzero.
func (i Info) String() string {
	if i.Tweak > 0 {
		return fmt.Sprintf("%d.%d.%d.%d", i.Major, i.Minor, i.Patch, i.Tweak)
	}
	return fmt.Sprintf("%d.%d.%d", i.Major, i.Minor, i.Patch)
}

// Semver returns the version without the tweak segment, for comparisons.
func (i Info) Semver() *semver.Version {
	return semver.New(uint64(i.Major), uint64(i.Minor), uint64(i.Patch), "", "")
}

// Compatible reports whether an installed version i satisfies a request
// for version requested: equal major, and requested minor/patch at or
// below the installed version.
func (i Info) Compatible(requested string) (bool, error) {
	req, err := semver.StrictNewVersion(trimV(requested))
	if err != nil {
		return false, fmt.Errorf("parsing requested version %q: %w", requested, err)
	}
	if int(req.Major()) != i.Major {
		return false, nil
	}
	return req.Compare(i.Semver()) <= 0, nil
}

func trimV(s string) string {
	if len(s) > 0 && s[0] == 'v' {
		return s[1:]
	}
	return s
}
