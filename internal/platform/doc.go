// Package platform isolates OS-specific behavior: symlink handling with
// a Windows copy fallback, permission bits, and canonicalization of
// OS/architecture identifiers for package file naming.
package platform
