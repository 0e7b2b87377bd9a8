package deps

import (
	"fmt"
	"regexp"
)

// Phase selects which pipeline stage a filter rule applies to.
type Phase int

const (
	// PreResolve rules match unresolved dependency names, before any
	// disk lookup. Known OS-provided names are excluded here because
	// they may be unresolvable in cross-build contexts.
	PreResolve Phase = iota
	// PostResolve rules match resolved absolute paths, as a catch-all
	// for system library and framework directories.
	PostResolve
)

// String returns the phase name.
func (p Phase) String() string {
	if p == PreResolve {
		return "pre-resolve"
	}
	return "post-resolve"
}

// ParsePhase converts a manifest phase string into a Phase.
func ParsePhase(s string) (Phase, error) {
	switch s {
	case "pre-resolve":
		return PreResolve, nil
	case "post-resolve":
		return PostResolve, nil
	}
	return 0, fmt.Errorf("unknown filter phase %q", s)
}

// Rule is one entry in the ordered filter table. The first matching rule
// in either phase excludes a dependency; matching is a pure predicate, so
// the surviving set does not depend on intra-phase rule order.
type Rule struct {
	Phase   Phase
	Pattern *regexp.Regexp
}

// NewRule compiles a filter rule from a pattern string.
func NewRule(phase Phase, pattern string) (Rule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("compiling filter pattern %q: %w", pattern, err)
	}
	return Rule{Phase: phase, Pattern: re}, nil
}

func mustRule(phase Phase, pattern string) Rule {
	r, err := NewRule(phase, pattern)
	if err != nil {
		panic(err)
	}
	return r
}

// excluded reports whether any rule of the given phase matches s.
func excluded(rules []Rule, phase Phase, s string) bool {
	for _, r := range rules {
		if r.Phase == phase && r.Pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// DefaultRules returns the pre-populated filter table for a target OS.
// Callers extend the table with project- or invocation-specific rules;
// the defaults cover libraries assumed present on the target system.
func DefaultRules(goos string) []Rule {
	switch goos {
	case "linux":
		return []Rule{
			mustRule(PreResolve, `^ld-linux.*\.so`),
			mustRule(PreResolve, `^linux-vdso\.so`),
			mustRule(PreResolve, `^lib(c|m|dl|rt|util|pthread|resolv)\.so`),
			mustRule(PreResolve, `^libgcc_s\.so`),
			mustRule(PreResolve, `^libstdc\+\+\.so`),
			mustRule(PostResolve, `^/lib(64)?/`),
			mustRule(PostResolve, `^/usr/lib(64)?/`),
		}
	case "darwin":
		return []Rule{
			mustRule(PreResolve, `^/usr/lib/`),
			mustRule(PreResolve, `^/System/Library/`),
			mustRule(PreResolve, `^libSystem`),
			mustRule(PostResolve, `^/usr/lib/`),
			mustRule(PostResolve, `^/System/Library/Frameworks/`),
		}
	case "windows":
		return []Rule{
			mustRule(PreResolve, `(?i)^api-ms-win-`),
			mustRule(PreResolve, `(?i)^ext-ms-`),
			mustRule(PreResolve, `(?i)^(kernel32|user32|gdi32|advapi32|shell32|ole32|oleaut32|ws2_32|crypt32|ntdll|msvcrt|ucrtbase)\.dll$`),
			mustRule(PostResolve, `(?i)^c:\\windows\\`),
		}
	}
	return nil
}
