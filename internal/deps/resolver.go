package deps

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/pkgsmith-labs/pkgsmith/internal/registry"
)

// Result is the output of one resolution pass.
type Result struct {
	// Bundles maps each deployable target name to the resolved
	// dependency paths it needs at runtime, in discovery order.
	Bundles map[string][]string
	// Files is the emission set: every bundle path, deduplicated
	// across all targets, ordered by first appearance.
	Files []string
	// Warnings lists dependencies that survived filtering but could
	// not be located on disk. Non-fatal.
	Warnings []string
}

// Empty reports whether resolution produced no bundle files.
func (r *Result) Empty() bool { return len(r.Files) == 0 }

// Resolver walks the transitive dynamic-link dependencies of deployable
// targets through an Inspector and an ordered filter table.
type Resolver struct {
	inspector Inspector
	rules     []Rule
	logger    *log.Logger
}

// NewResolver creates a Resolver. The rule table should start from
// DefaultRules for the target OS; extra rules are appended by callers.
func NewResolver(inspector Inspector, rules []Rule, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{inspector: inspector, rules: rules, logger: logger}
}

// Resolve computes the bundle set for every deployable target in the
// slice. Non-deployable records and records without a built artifact
// are skipped. An unreadable top-level artifact is an error; failures
// further down the closure degrade to warnings.
func (r *Resolver) Resolve(targets []*registry.TargetRecord) (*Result, error) {
	result := &Result{Bundles: make(map[string][]string)}
	emitted := make(map[string]bool)

	for _, rec := range targets {
		if !rec.Kind.Deployable() || rec.ArtifactPath == "" {
			continue
		}

		bundle, warnings, err := r.closure(rec.ArtifactPath)
		if err != nil {
			return nil, fmt.Errorf("resolving runtime dependencies of %s: %w", rec.Name, err)
		}

		result.Bundles[rec.Name] = bundle
		result.Warnings = append(result.Warnings, warnings...)

		// Deduplicate across all deployables before emission.
		for _, path := range bundle {
			if !emitted[path] {
				emitted[path] = true
				result.Files = append(result.Files, path)
			}
		}
	}

	for _, w := range result.Warnings {
		r.logger.Warn("runtime dependency not found", "dep", w)
	}

	return result, nil
}

// closure walks the transitive dependencies of one artifact.
func (r *Resolver) closure(artifact string) (bundle []string, warnings []string, err error) {
	names, err := r.inspector.EnumerateDependencies(artifact)
	if err != nil {
		return nil, nil, err
	}

	queue := append([]string(nil), names...)
	seenNames := make(map[string]bool)
	seenPaths := make(map[string]bool)

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]

		if seenNames[name] {
			continue
		}
		seenNames[name] = true

		// Phase one: exclude by unresolved name, no disk lookup.
		if excluded(r.rules, PreResolve, name) {
			continue
		}

		path, ok := r.inspector.Resolve(name)
		if !ok {
			warnings = append(warnings, name)
			continue
		}
		if seenPaths[path] {
			continue
		}
		seenPaths[path] = true

		// Phase two: exclude by resolved absolute path.
		if excluded(r.rules, PostResolve, path) {
			continue
		}

		bundle = append(bundle, path)

		// Recurse into the resolved dependency. A library that cannot
		// be inspected still ships; it just contributes no children.
		children, err := r.inspector.EnumerateDependencies(path)
		if err != nil {
			r.logger.Debug("skipping transitive inspection", "path", path, "err", err)
			continue
		}
		queue = append(queue, children...)
	}

	return bundle, warnings, nil
}
