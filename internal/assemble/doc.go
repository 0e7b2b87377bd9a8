// Package assemble turns a resolved registry into an install tree and
// redistributable packages. It installs binaries split by component
// (runtime vs development), merges public header trees, emits the loader,
// version, and export descriptors, and produces a platform-named archive
// plus one native installer per desktop OS family. Redistributable
// generation is skipped with a notice when no deployable artifacts were
// registered; the plain install always proceeds.
package assemble
