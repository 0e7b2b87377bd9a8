package deps

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pkgsmith-labs/pkgsmith/internal/registry"
)

// fakeInspector serves a canned dependency graph keyed by artifact path
// and records which names were resolved.
type fakeInspector struct {
	graph    map[string][]string // artifact/library path → direct deps
	locate   map[string]string   // dependency name → resolved path
	resolved []string            // names passed to Resolve, in order
}

func (f *fakeInspector) EnumerateDependencies(path string) ([]string, error) {
	return f.graph[path], nil
}

func (f *fakeInspector) Resolve(name string) (string, bool) {
	f.resolved = append(f.resolved, name)
	path, ok := f.locate[name]
	return path, ok
}

func target(name string, kind registry.Kind, artifact string) *registry.TargetRecord {
	return &registry.TargetRecord{Name: name, Kind: kind, ArtifactPath: artifact}
}

func TestResolveTransitiveClosure(t *testing.T) {
	insp := &fakeInspector{
		graph: map[string][]string{
			"/build/app":        {"libfoo.so"},
			"/opt/lib/libfoo.so": {"libbar.so"},
			"/opt/lib/libbar.so": nil,
		},
		locate: map[string]string{
			"libfoo.so": "/opt/lib/libfoo.so",
			"libbar.so": "/opt/lib/libbar.so",
		},
	}

	r := NewResolver(insp, nil, nil)
	result, err := r.Resolve([]*registry.TargetRecord{target("app", registry.KindExecutable, "/build/app")})
	require.NoError(t, err)

	require.Equal(t, []string{"/opt/lib/libfoo.so", "/opt/lib/libbar.so"}, result.Bundles["app"])
	require.Equal(t, []string{"/opt/lib/libfoo.so", "/opt/lib/libbar.so"}, result.Files)
	require.Empty(t, result.Warnings)
}

func TestPreResolveExcludesWithoutDiskLookup(t *testing.T) {
	insp := &fakeInspector{
		graph: map[string][]string{
			"/build/app": {"libc.so.6", "libfoo.so"},
		},
		locate: map[string]string{
			"libfoo.so": "/opt/lib/libfoo.so",
		},
	}

	rules := []Rule{mustRule(PreResolve, `^libc\.so`)}
	r := NewResolver(insp, rules, nil)
	result, err := r.Resolve([]*registry.TargetRecord{target("app", registry.KindExecutable, "/build/app")})
	require.NoError(t, err)

	require.Equal(t, []string{"/opt/lib/libfoo.so"}, result.Files)
	require.NotContains(t, insp.resolved, "libc.so.6", "pre-resolve match must skip disk lookup")
}

func TestPostResolveExcludesByPath(t *testing.T) {
	insp := &fakeInspector{
		graph: map[string][]string{
			"/build/app": {"libm.so.6", "libfoo.so"},
		},
		locate: map[string]string{
			"libm.so.6": "/usr/lib/libm.so.6",
			"libfoo.so": "/opt/lib/libfoo.so",
		},
	}

	rules := []Rule{mustRule(PostResolve, `^/usr/lib/`)}
	r := NewResolver(insp, rules, nil)
	result, err := r.Resolve([]*registry.TargetRecord{target("app", registry.KindExecutable, "/build/app")})
	require.NoError(t, err)

	require.Equal(t, []string{"/opt/lib/libfoo.so"}, result.Files)
}

func TestUnresolvableDependencyIsWarningNotError(t *testing.T) {
	insp := &fakeInspector{
		graph: map[string][]string{
			"/build/app": {"libmissing.so", "libfoo.so"},
		},
		locate: map[string]string{
			"libfoo.so": "/opt/lib/libfoo.so",
		},
	}

	r := NewResolver(insp, nil, nil)
	result, err := r.Resolve([]*registry.TargetRecord{target("app", registry.KindExecutable, "/build/app")})
	require.NoError(t, err)

	require.Equal(t, []string{"/opt/lib/libfoo.so"}, result.Files)
	require.Equal(t, []string{"libmissing.so"}, result.Warnings)
}

func TestFilesDeduplicatedAcrossTargets(t *testing.T) {
	insp := &fakeInspector{
		graph: map[string][]string{
			"/build/app":          {"libshared.so"},
			"/build/libplugin.so": {"libshared.so", "libextra.so"},
		},
		locate: map[string]string{
			"libshared.so": "/opt/lib/libshared.so",
			"libextra.so":  "/opt/lib/libextra.so",
		},
	}

	r := NewResolver(insp, nil, nil)
	result, err := r.Resolve([]*registry.TargetRecord{
		target("app", registry.KindExecutable, "/build/app"),
		target("plugin", registry.KindModuleLibrary, "/build/libplugin.so"),
	})
	require.NoError(t, err)

	// Both bundles list the shared dependency, emission carries it once.
	require.Equal(t, []string{"/opt/lib/libshared.so"}, result.Bundles["app"])
	require.Equal(t, []string{"/opt/lib/libshared.so", "/opt/lib/libextra.so"}, result.Bundles["plugin"])
	require.Equal(t, []string{"/opt/lib/libshared.so", "/opt/lib/libextra.so"}, result.Files)
}

func TestStaticLibraryNeverContributes(t *testing.T) {
	insp := &fakeInspector{
		graph: map[string][]string{
			"/build/libstatic.a": {"libfoo.so"},
		},
		locate: map[string]string{
			"libfoo.so": "/opt/lib/libfoo.so",
		},
	}

	r := NewResolver(insp, nil, nil)
	result, err := r.Resolve([]*registry.TargetRecord{
		target("static", registry.KindLibrary, "/build/libstatic.a"),
		target("hdrs", registry.KindInterface, ""),
	})
	require.NoError(t, err)

	require.True(t, result.Empty())
	require.Empty(t, insp.resolved)
}

func TestIntraPhaseRuleOrderDoesNotChangeOutcome(t *testing.T) {
	mkInspector := func() *fakeInspector {
		return &fakeInspector{
			graph: map[string][]string{
				"/build/app": {"libc.so.6", "libgcc_s.so.1", "libfoo.so", "libbar.so"},
			},
			locate: map[string]string{
				"libfoo.so": "/usr/lib/libfoo.so",
				"libbar.so": "/opt/lib/libbar.so",
			},
		}
	}

	forward := []Rule{
		mustRule(PreResolve, `^libc\.so`),
		mustRule(PreResolve, `^libgcc_s\.so`),
		mustRule(PostResolve, `^/usr/lib/`),
		mustRule(PostResolve, `^/nonexistent/`),
	}
	reversed := []Rule{
		mustRule(PreResolve, `^libgcc_s\.so`),
		mustRule(PreResolve, `^libc\.so`),
		mustRule(PostResolve, `^/nonexistent/`),
		mustRule(PostResolve, `^/usr/lib/`),
	}

	targets := func() []*registry.TargetRecord {
		return []*registry.TargetRecord{target("app", registry.KindExecutable, "/build/app")}
	}

	first, err := NewResolver(mkInspector(), forward, nil).Resolve(targets())
	require.NoError(t, err)
	second, err := NewResolver(mkInspector(), reversed, nil).Resolve(targets())
	require.NoError(t, err)

	require.Equal(t, first.Files, second.Files)
	require.Equal(t, []string{"/opt/lib/libbar.so"}, first.Files)
}

func TestDependencyCycleTerminates(t *testing.T) {
	insp := &fakeInspector{
		graph: map[string][]string{
			"/build/app":       {"liba.so"},
			"/opt/lib/liba.so": {"libb.so"},
			"/opt/lib/libb.so": {"liba.so"},
		},
		locate: map[string]string{
			"liba.so": "/opt/lib/liba.so",
			"libb.so": "/opt/lib/libb.so",
		},
	}

	r := NewResolver(insp, nil, nil)
	result, err := r.Resolve([]*registry.TargetRecord{target("app", registry.KindExecutable, "/build/app")})
	require.NoError(t, err)
	require.Equal(t, []string{"/opt/lib/liba.so", "/opt/lib/libb.so"}, result.Files)
}

func TestDefaultRulesKnownNames(t *testing.T) {
	linux := DefaultRules("linux")
	require.True(t, excluded(linux, PreResolve, "libc.so.6"))
	require.True(t, excluded(linux, PreResolve, "libstdc++.so.6"))
	require.True(t, excluded(linux, PostResolve, "/usr/lib64/libcrypt.so.2"))
	require.False(t, excluded(linux, PreResolve, "libmylib.so"))

	windows := DefaultRules("windows")
	require.True(t, excluded(windows, PreResolve, "KERNEL32.dll"))
	require.True(t, excluded(windows, PreResolve, "api-ms-win-crt-runtime-l1-1-0.dll"))
	require.False(t, excluded(windows, PreResolve, "mylib.dll"))

	darwin := DefaultRules("darwin")
	require.True(t, excluded(darwin, PreResolve, "/usr/lib/libSystem.B.dylib"))
	require.False(t, excluded(darwin, PreResolve, "@rpath/libmylib.dylib"))
}
