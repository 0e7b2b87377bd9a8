package registry

import "fmt"

// Kind classifies a build target.
type Kind string

const (
	KindLibrary       Kind = "library"        // static archive
	KindSharedLibrary Kind = "shared-library" // dynamically linked at load time
	KindModuleLibrary Kind = "module-library" // dlopen-style plugin
	KindExecutable    Kind = "executable"
	KindInterface     Kind = "interface" // header-only
)

// validKinds contains all accepted kind values, in declaration order.
var validKinds = []Kind{
	KindLibrary,
	KindSharedLibrary,
	KindModuleLibrary,
	KindExecutable,
	KindInterface,
}

// ParseKind converts a manifest kind string into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range validKinds {
		if Kind(s) == k {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown target kind %q", s)
}

// ExposesHeaders reports whether targets of this kind publish a public
// header tree under <sourceRoot>/include.
func (k Kind) ExposesHeaders() bool {
	switch k {
	case KindLibrary, KindSharedLibrary, KindModuleLibrary:
		return true
	}
	return false
}

// Deployable reports whether targets of this kind are loaded at runtime
// and therefore participate in runtime dependency resolution. Static
// libraries and header-only interfaces never do.
func (k Kind) Deployable() bool {
	switch k {
	case KindExecutable, KindSharedLibrary, KindModuleLibrary:
		return true
	}
	return false
}

// TargetRecord describes one registered build target. Records are owned
// by the Context that created them and are append-only for the lifetime
// of the run.
type TargetRecord struct {
	Name         string
	Kind         Kind
	SourceRoot   string   // target source directory (headers live under <SourceRoot>/include)
	ArtifactPath string   // built artifact on disk, empty for interface targets
	HeaderRoots  []string // ordered public header roots
	Alias        string   // namespaced lookup synonym, e.g. "proj::core"
}
