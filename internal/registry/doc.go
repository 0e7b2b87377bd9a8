// Package registry accumulates the build targets declared by a project
// over one assembly invocation. All state lives in an explicit Context so
// tests can run independent registries in one process; registration is
// append-only and insertion order is preserved for deterministic export
// ordering.
package registry
