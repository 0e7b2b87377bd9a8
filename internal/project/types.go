package project

// Manifest is the root document of a pkgsmith.yaml file.
type Manifest struct {
	Name      string       `yaml:"name" json:"name"`
	Namespace string       `yaml:"namespace,omitempty" json:"namespace,omitempty"`
	Version   string       `yaml:"version,omitempty" json:"version,omitempty"`
	Targets   []TargetSpec `yaml:"targets" json:"targets"`
	Scripts   []string     `yaml:"scripts,omitempty" json:"scripts,omitempty"`
	Filters   []FilterSpec `yaml:"filters,omitempty" json:"filters,omitempty"`
	Package   PackageSpec  `yaml:"package,omitempty" json:"package,omitempty"`
}

// TargetSpec declares one build target to register.
type TargetSpec struct {
	Name        string   `yaml:"name" json:"name"`
	Kind        string   `yaml:"kind" json:"kind"`
	SourceRoot  string   `yaml:"source_root,omitempty" json:"source_root,omitempty"`
	Artifact    string   `yaml:"artifact,omitempty" json:"artifact,omitempty"`
	HeaderRoots []string `yaml:"header_roots,omitempty" json:"header_roots,omitempty"`
}

// FilterSpec extends the runtime-dependency filter table.
type FilterSpec struct {
	Phase   string `yaml:"phase" json:"phase"`
	Pattern string `yaml:"pattern" json:"pattern"`
}

// PackageSpec holds packaging preferences.
type PackageSpec struct {
	// Components selects which install components ship in the
	// redistributable package. Defaults to ["runtime"].
	Components []string `yaml:"components,omitempty" json:"components,omitempty"`
	// Installer disables native installer generation when false.
	Installer *bool `yaml:"installer,omitempty" json:"installer,omitempty"`
}

// ManifestName is the expected file name at the project root.
const ManifestName = "pkgsmith.yaml"
