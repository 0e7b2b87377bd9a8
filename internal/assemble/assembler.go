package assemble

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/pkgsmith-labs/pkgsmith/internal/deps"
	"github.com/pkgsmith-labs/pkgsmith/internal/platform"
	"github.com/pkgsmith-labs/pkgsmith/internal/project"
	"github.com/pkgsmith-labs/pkgsmith/internal/registry"
	"github.com/pkgsmith-labs/pkgsmith/internal/version"
)

// Options configures one assembly invocation.
type Options struct {
	// ProjectDir contains pkgsmith.yaml and the target sources.
	ProjectDir string
	// BuildDir contains the built artifacts; defaults to ProjectDir.
	BuildDir string
	// InstallRoot is the destination install tree. Required.
	InstallRoot string
	// PackageDir receives redistributables; defaults to BuildDir.
	PackageDir string
	// TargetOS and TargetArch are canonicalized and default to the host.
	TargetOS   string
	TargetArch string
	// Components selects the redistributable components, overriding
	// the manifest.
	Components []string
	// SkipPackage limits the run to the plain install.
	SkipPackage bool
	// Inspector overrides the platform inspector, for tests.
	Inspector deps.Inspector
	// ExtraRules are appended after the default and manifest rules.
	ExtraRules []deps.Rule
	Logger     *log.Logger
}

// Summary reports what one Run produced.
type Summary struct {
	Version         version.Info
	Targets         int
	BundleFiles     []string
	Warnings        []string
	Packages        []string // produced redistributable files
	Notices         []string // informational skips
	Redistributable bool     // false when no deployable artifacts existed
}

// Assembler drives the install-and-package pipeline for one invocation.
type Assembler struct {
	manifest   *project.Manifest
	info       version.Info
	opts       Options
	targetOS   string
	targetArch string
	logger     *log.Logger
}

// New validates options and creates an Assembler.
func New(m *project.Manifest, info version.Info, opts Options) (*Assembler, error) {
	if m == nil {
		return nil, fmt.Errorf("nil project manifest")
	}
	if opts.InstallRoot == "" {
		return nil, fmt.Errorf("install root is required")
	}
	if opts.BuildDir == "" {
		opts.BuildDir = opts.ProjectDir
	}
	if opts.PackageDir == "" {
		opts.PackageDir = opts.BuildDir
	}
	if opts.TargetOS == "" {
		opts.TargetOS = platform.HostOS()
	}
	if opts.TargetArch == "" {
		opts.TargetArch = platform.HostArch()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Assembler{
		manifest:   m,
		info:       info,
		opts:       opts,
		targetOS:   platform.CanonicalOS(opts.TargetOS),
		targetArch: platform.CanonicalArch(opts.TargetArch),
		logger:     logger,
	}, nil
}

// Run executes the full pipeline: register targets, resolve runtime
// dependencies, materialize the install tree and descriptors, and
// produce redistributable packages. A fatal error aborts immediately;
// partial output from an aborted run must not be consumed.
func (a *Assembler) Run() (*Summary, error) {
	ctx := registry.NewContext(a.manifest.Name, a.manifest.Namespace)
	if err := ctx.Init(); err != nil {
		return nil, err
	}
	if err := a.registerTargets(ctx); err != nil {
		return nil, err
	}
	if err := ctx.BeginAssembly(); err != nil {
		return nil, err
	}

	resolution, err := a.resolveRuntimeDeps(ctx)
	if err != nil {
		return nil, err
	}

	targets, err := ctx.Targets()
	if err != nil {
		return nil, err
	}

	layout := NewLayout(a.opts.InstallRoot, a.manifest.Name)
	installed, err := a.install(targets, resolution, layout)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Version:     a.info,
		Targets:     len(targets),
		BundleFiles: resolution.Files,
		Warnings:    resolution.Warnings,
	}

	deployables, err := ctx.Deployables()
	if err != nil {
		return nil, err
	}

	switch {
	case a.opts.SkipPackage:
		// Plain install only.
	case len(deployables) == 0:
		notice := "no deployable artifacts registered, skipping redistributable packaging"
		a.logger.Info(notice)
		summary.Notices = append(summary.Notices, notice)
	default:
		summary.Redistributable = true
		packages, notices, err := a.writePackages(layout, installed)
		if err != nil {
			return nil, err
		}
		summary.Packages = packages
		summary.Notices = append(summary.Notices, notices...)
	}

	if err := ctx.Finish(); err != nil {
		return nil, err
	}
	return summary, nil
}

// registerTargets feeds every manifest target into the registry.
func (a *Assembler) registerTargets(ctx *registry.Context) error {
	for _, spec := range a.manifest.Targets {
		kind, err := registry.ParseKind(spec.Kind)
		if err != nil {
			return fmt.Errorf("target %q: %w", spec.Name, err)
		}

		artifact := ""
		if spec.Artifact != "" {
			artifact = filepath.Join(a.opts.BuildDir, spec.Artifact)
			if _, err := os.Stat(artifact); err != nil {
				return fmt.Errorf("target %q: artifact %s not found: %w", spec.Name, artifact, err)
			}
		}

		sourceRoot := filepath.Join(a.opts.ProjectDir, spec.SourceRoot)
		if _, err := ctx.Register(spec.Name, kind, sourceRoot, artifact); err != nil {
			return err
		}
		for _, root := range spec.HeaderRoots {
			if err := ctx.AddHeaderRoot(spec.Name, filepath.Join(a.opts.ProjectDir, root)); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveRuntimeDeps builds the filter table and runs the resolver over
// the registry's deployable targets.
func (a *Assembler) resolveRuntimeDeps(ctx *registry.Context) (*deps.Result, error) {
	rules := deps.DefaultRules(a.targetOS)
	for _, f := range a.manifest.Filters {
		phase, err := deps.ParsePhase(f.Phase)
		if err != nil {
			return nil, err
		}
		rule, err := deps.NewRule(phase, f.Pattern)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	rules = append(rules, a.opts.ExtraRules...)

	inspector := a.opts.Inspector
	if inspector == nil {
		var err error
		inspector, err = deps.NewInspector(a.targetOS, nil)
		if err != nil {
			return nil, err
		}
	}

	targets, err := ctx.Targets()
	if err != nil {
		return nil, err
	}

	return deps.NewResolver(inspector, rules, a.logger).Resolve(targets)
}

// install materializes binaries, headers, scripts, bundled runtime
// dependencies, and descriptors under the install root.
func (a *Assembler) install(targets []*registry.TargetRecord, resolution *deps.Result, layout *Layout) ([]InstalledFile, error) {
	var installed []InstalledFile

	for _, rec := range targets {
		files, err := a.installTarget(rec, layout)
		if err != nil {
			return nil, err
		}
		installed = append(installed, files...)

		files, err = a.installHeaders(rec, layout)
		if err != nil {
			return nil, err
		}
		installed = append(installed, files...)
	}

	files, err := a.installScripts(layout)
	if err != nil {
		return nil, err
	}
	installed = append(installed, files...)

	files, err = a.installBundle(resolution.Files, layout)
	if err != nil {
		return nil, err
	}
	installed = append(installed, files...)

	files, err = a.writeDescriptors(targets, installed, a.info, layout)
	if err != nil {
		return nil, err
	}
	installed = append(installed, files...)

	return installed, nil
}

// writePackages stages the selected components and produces the archive
// and, where applicable, the native installer.
func (a *Assembler) writePackages(layout *Layout, installed []InstalledFile) (packages, notices []string, err error) {
	selected, err := a.selectedComponents()
	if err != nil {
		return nil, nil, err
	}

	base := platform.PackageBaseName(a.manifest.Name, a.info.String(), a.targetOS, a.targetArch)

	if err := os.MkdirAll(a.opts.PackageDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating package directory: %w", err)
	}
	stageDir, err := os.MkdirTemp(a.opts.PackageDir, "stage-")
	if err != nil {
		return nil, nil, fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(stageDir)

	var relFiles []string
	for _, f := range installed {
		if !selected[f.Component] {
			continue
		}
		src := filepath.Join(layout.Root, f.RelPath)
		dst := filepath.Join(stageDir, f.RelPath)
		if info, err := os.Lstat(src); err == nil && info.Mode()&os.ModeSymlink != 0 {
			link, err := os.Readlink(src)
			if err != nil {
				return nil, nil, fmt.Errorf("staging %s: %w", f.RelPath, err)
			}
			if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
				return nil, nil, err
			}
			if err := os.Symlink(link, dst); err != nil {
				return nil, nil, fmt.Errorf("staging %s: %w", f.RelPath, err)
			}
		} else if err := copyFile(src, dst); err != nil {
			return nil, nil, fmt.Errorf("staging %s: %w", f.RelPath, err)
		}
		relFiles = append(relFiles, f.RelPath)
	}

	// Archive format is always produced.
	var archivePath string
	if a.targetOS == "windows" {
		archivePath = filepath.Join(a.opts.PackageDir, base+".zip")
		err = writeZip(stageDir, relFiles, base, archivePath)
	} else {
		archivePath = filepath.Join(a.opts.PackageDir, base+".tar.gz")
		err = writeTarGz(stageDir, relFiles, base, archivePath)
	}
	if err != nil {
		return nil, nil, err
	}
	packages = append(packages, archivePath)

	// One native installer per desktop OS family.
	if a.manifest.InstallerEnabled() {
		if gen := installerFor(a.targetOS); gen != nil {
			path, skip, err := gen.run(stageDir, filepath.Join(a.opts.PackageDir, base), a)
			if err != nil {
				return nil, nil, err
			}
			if skip != "" {
				a.logger.Info(skip)
				notices = append(notices, skip)
			} else {
				packages = append(packages, path)
			}
		}
	}

	return packages, notices, nil
}

// selectedComponents resolves the component set for the redistributable:
// explicit options win, then the manifest, then runtime only.
func (a *Assembler) selectedComponents() (map[Component]bool, error) {
	names := a.opts.Components
	if len(names) == 0 {
		names = a.manifest.Package.Components
	}
	if len(names) == 0 {
		names = []string{string(ComponentRuntime)}
	}

	selected := make(map[Component]bool)
	for _, n := range names {
		switch Component(n) {
		case ComponentRuntime, ComponentDevelopment:
			selected[Component(n)] = true
		default:
			return nil, fmt.Errorf("unknown package component %q", n)
		}
	}
	return selected, nil
}
