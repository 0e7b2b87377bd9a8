// Package project parses and validates the pkgsmith.yaml manifest that
// describes a project's build targets, filter-rule extensions, and
// packaging preferences. Validation runs against an embedded JSON schema
// before any field is interpreted.
package project
