package cli

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pkgsmith-labs/pkgsmith/internal/assemble"
	"github.com/pkgsmith-labs/pkgsmith/internal/config"
	"github.com/pkgsmith-labs/pkgsmith/internal/deps"
	"github.com/pkgsmith-labs/pkgsmith/internal/project"
	"github.com/pkgsmith-labs/pkgsmith/internal/version"
)

var (
	assembleProjectDir  string
	assembleBuildDir    string
	assembleInstallRoot string
	assemblePackageDir  string
	assembleVersion     string
	assembleTargetOS    string
	assembleTargetArch  string
	assembleComponents  []string
	assembleSkipPackage bool
)

func init() {
	assembleCmd.Flags().StringVarP(&assembleProjectDir, "project-dir", "C", ".", "Directory containing "+project.ManifestName)
	assembleCmd.Flags().StringVar(&assembleBuildDir, "build-dir", "", "Directory containing built artifacts (default: project dir)")
	assembleCmd.Flags().StringVar(&assembleInstallRoot, "install-root", "", "Install tree destination (default: <build-dir>/install)")
	assembleCmd.Flags().StringVar(&assemblePackageDir, "package-dir", "", "Directory for redistributable packages (default: build dir)")
	assembleCmd.Flags().StringVar(&assembleVersion, "version", "", "Project version; overrides git describe")
	assembleCmd.Flags().StringVar(&assembleTargetOS, "target-os", "", "Target operating system (default: host)")
	assembleCmd.Flags().StringVar(&assembleTargetArch, "target-arch", "", "Target architecture (default: host)")
	assembleCmd.Flags().StringSliceVar(&assembleComponents, "components", nil, "Redistributable components (runtime, development)")
	assembleCmd.Flags().BoolVar(&assembleSkipPackage, "skip-package", false, "Install only, skip redistributable packaging")
	rootCmd.AddCommand(assembleCmd)
}

var assembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Install built artifacts and produce redistributable packages",
	RunE:  runAssemble,
}

func runAssemble(cmd *cobra.Command, args []string) error {
	config.Load()

	manifest, err := project.Load(assembleProjectDir)
	if err != nil {
		return err
	}

	info, err := resolveProjectVersion(manifest)
	if err != nil {
		return err
	}

	buildDir := assembleBuildDir
	if buildDir == "" {
		buildDir = assembleProjectDir
	}
	installRoot := assembleInstallRoot
	if installRoot == "" {
		installRoot = filepath.Join(buildDir, "install")
	}

	extraRules, err := configFilterRules()
	if err != nil {
		return err
	}

	components := assembleComponents
	if len(components) == 0 {
		components = config.GetStrings(config.KeyComponents)
	}

	a, err := assemble.New(manifest, info, assemble.Options{
		ProjectDir:  assembleProjectDir,
		BuildDir:    buildDir,
		InstallRoot: installRoot,
		PackageDir:  assemblePackageDir,
		TargetOS:    assembleTargetOS,
		TargetArch:  assembleTargetArch,
		Components:  components,
		SkipPackage: assembleSkipPackage,
		ExtraRules:  extraRules,
		Logger:      log.Default(),
	})
	if err != nil {
		return err
	}

	summary, err := a.Run()
	if err != nil {
		return err
	}

	printSummary(cmd, manifest.Name, installRoot, summary)
	return nil
}

// resolveProjectVersion picks the version source: explicit flag, then
// manifest, then git describe. No silent zero-version fallback.
func resolveProjectVersion(manifest *project.Manifest) (version.Info, error) {
	if assembleVersion != "" {
		return version.ParseSupplied(assembleVersion)
	}
	if manifest.Version != "" {
		return version.ParseSupplied(manifest.Version)
	}
	return version.Resolve(assembleProjectDir)
}

// configFilterRules reads extra filter patterns from the user config.
func configFilterRules() ([]deps.Rule, error) {
	var rules []deps.Rule
	for _, pattern := range config.GetStrings(config.KeyExtraPreResolve) {
		rule, err := deps.NewRule(deps.PreResolve, pattern)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", config.KeyExtraPreResolve, err)
		}
		rules = append(rules, rule)
	}
	for _, pattern := range config.GetStrings(config.KeyExtraPostResolve) {
		rule, err := deps.NewRule(deps.PostResolve, pattern)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", config.KeyExtraPostResolve, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func printSummary(cmd *cobra.Command, name, installRoot string, summary *assemble.Summary) {
	p := message.NewPrinter(language.English)
	out := cmd.OutOrStdout()

	p.Fprintf(out, "✓ Assembled %s %s: %d targets, %d bundled runtime dependencies\n",
		name, summary.Version.String(), summary.Targets, len(summary.BundleFiles))
	p.Fprintf(out, "  installed to %s\n", installRoot)

	for _, pkg := range summary.Packages {
		p.Fprintf(out, "  package: %s\n", pkg)
	}
	for _, notice := range summary.Notices {
		p.Fprintf(out, "  note: %s\n", notice)
	}
	if n := len(summary.Warnings); n > 0 {
		p.Fprintf(out, "  %d unresolved runtime dependencies were dropped (see warnings above)\n", n)
	}
}
