// Package version derives a project version from git history. It parses
// the output of `git describe` against an annotated tag of the form
// v<major>.<minor>.<patch>-<tweak>-<hash>[-dirty] and pairs it with the
// full commit hash from `git rev-parse HEAD`. Parsing is strict: a
// describe string that does not match the grammar is a fatal ParseError,
// never silently defaulted.
package version
